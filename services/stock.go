package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/models"
	"backend/store"
	"backend/utils"
)

// Stock manages ingredient quantities. Order-driven mutations go through
// applyStockDeltas inside the order transaction; Purchase and AdjustTo are
// standalone staff operations.
type Stock struct {
	store   store.TransactionalStore
	finance *Finance
}

func NewStock(s store.TransactionalStore, finance *Finance) *Stock {
	return &Stock{store: s, finance: finance}
}

// applyStockDeltas reads every touched stock record, validates, then writes.
// Positive delta consumes stock, negative releases it. All reads happen
// before any write so optimistic validation covers the full read set.
func applyStockDeltas(tx store.Tx, deltas map[string]int64) error {
	ids := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if delta != 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	type state struct {
		doc  store.Doc
		have int64
	}
	current := make(map[string]state, len(ids))
	for _, id := range ids {
		doc, err := tx.Get(colStock, id)
		if err != nil {
			return err
		}
		current[id] = state{doc: doc, have: utils.Int64Or(doc["quantity"], 0)}
	}

	for _, id := range ids {
		delta := deltas[id]
		st := current[id]
		if st.doc == nil {
			if delta > 0 {
				return &MissingInventoryRecordError{IngredientID: id}
			}
			continue
		}
		if delta > 0 && st.have < delta {
			return &InsufficientStockError{IngredientID: id, Needed: delta, Have: st.have}
		}
	}

	for _, id := range ids {
		delta := deltas[id]
		st := current[id]
		if st.doc == nil {
			tx.Set(colStock, id, store.Doc{"name": id, "quantity": -delta})
			continue
		}
		tx.Update(colStock, id, store.Doc{"quantity": st.have - delta})
	}
	return nil
}

// Purchase increments an ingredient, creating the record when it is new,
// and appends a matching expense to the ledger.
func (s *Stock) Purchase(ctx context.Context, ingredientID string, req models.PurchaseRequest) (models.StockItem, error) {
	if req.Quantity <= 0 {
		return models.StockItem{}, invalidInput("purchase quantity must be positive")
	}

	var item models.StockItem
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colStock, ingredientID)
		if err != nil {
			return err
		}
		if doc == nil {
			item = models.StockItem{
				ID:       ingredientID,
				Name:     req.Name,
				Unit:     req.Unit,
				Price:    req.Price,
				Quantity: req.Quantity,
			}
			tx.Set(colStock, ingredientID, item.Doc())
			return nil
		}
		item = models.StockItemFromDoc(ingredientID, doc)
		item.Quantity += req.Quantity
		tx.Update(colStock, ingredientID, store.Doc{"quantity": item.Quantity})
		return nil
	})
	if err != nil {
		return models.StockItem{}, err
	}

	_, err = s.finance.record(ctx, models.Transaction{
		Type:        models.TransactionExpense,
		Amount:      utils.RoundMoney(req.Price * float64(req.Quantity)),
		Category:    models.CategoryPurchase,
		Description: fmt.Sprintf("Purchased %d %s of %s", req.Quantity, req.Unit, req.Name),
		Date:        time.Now().UnixMilli(),
	})
	if err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

// AdjustTo sets an absolute quantity, clamped at zero. A downward move is a
// loss and gets an expense record priced at the item's unit price.
func (s *Stock) AdjustTo(ctx context.Context, ingredientID string, newQuantity int64, reason, actor string) (models.StockItem, int64, error) {
	if reason == "" {
		return models.StockItem{}, 0, invalidInput("adjustment reason is required")
	}
	if newQuantity < 0 {
		newQuantity = 0
	}

	var (
		item  models.StockItem
		delta int64
	)
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colStock, ingredientID)
		if err != nil {
			return err
		}
		if doc == nil {
			delta = 0
			item = models.StockItem{ID: ingredientID, Name: ingredientID, Quantity: newQuantity}
			tx.Set(colStock, ingredientID, item.Doc())
			return nil
		}
		item = models.StockItemFromDoc(ingredientID, doc)
		delta = newQuantity - item.Quantity
		item.Quantity = newQuantity
		tx.Update(colStock, ingredientID, store.Doc{"quantity": newQuantity})
		return nil
	})
	if err != nil {
		return models.StockItem{}, 0, err
	}

	if delta < 0 {
		_, err = s.finance.record(ctx, models.Transaction{
			Type:        models.TransactionExpense,
			Amount:      utils.RoundMoney(item.Price * float64(-delta)),
			Category:    models.CategoryStockLoss,
			Description: fmt.Sprintf("Stock loss of %d %s: %s", -delta, item.Name, reason),
			Date:        time.Now().UnixMilli(),
			CreatedBy:   actor,
		})
		if err != nil {
			return models.StockItem{}, 0, err
		}
	}
	return item, delta, nil
}

func (s *Stock) Get(ctx context.Context, ingredientID string) (models.StockItem, error) {
	doc, err := s.store.Get(ctx, colStock, ingredientID)
	if err != nil {
		return models.StockItem{}, err
	}
	if doc == nil {
		return models.StockItem{}, ErrStockNotFound
	}
	return models.StockItemFromDoc(ingredientID, doc), nil
}

func (s *Stock) List(ctx context.Context) ([]models.StockItem, error) {
	snaps, err := s.store.Query(ctx, colStock, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	items := make([]models.StockItem, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, models.StockItemFromDoc(snap.ID, snap.Data))
	}
	return items, nil
}

// LowStock returns items at or below the threshold.
func (s *Stock) LowStock(ctx context.Context, threshold int64) ([]models.StockItem, error) {
	snaps, err := s.store.Query(ctx, colStock, store.Query{
		Filters: []store.Filter{{Field: "quantity", Op: "<=", Value: threshold}},
		OrderBy: "quantity",
	})
	if err != nil {
		return nil, err
	}
	items := make([]models.StockItem, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, models.StockItemFromDoc(snap.ID, snap.Data))
	}
	return items, nil
}
