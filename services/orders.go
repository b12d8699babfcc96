package services

import (
	"context"
	"fmt"
	"time"

	"backend/models"
	"backend/store"
	"backend/utils"
)

const serviceChargeRate = 0.10

// Orders is the order aggregate engine. Every mutation spans the order
// document, the touched stock records and the linked income transaction in
// one atomic store transaction.
type Orders struct {
	store   store.TransactionalStore
	catalog *Catalog
	now     func() time.Time
}

func NewOrders(s store.TransactionalStore, catalog *Catalog) *Orders {
	return &Orders{store: s, catalog: catalog, now: time.Now}
}

// buildLine resolves one selection into an order line carrying the menu
// snapshot. The unit price is base price plus the addon surcharge.
func (s *Orders) buildLine(ctx context.Context, sel models.OrderSelection) (models.OrderLine, error) {
	if sel.Quantity <= 0 {
		return models.OrderLine{}, invalidInput("quantity for %s must be positive", sel.MenuID)
	}
	menu, err := s.catalog.ReadMenuItem(ctx, sel.MenuID)
	if err != nil {
		return models.OrderLine{}, err
	}
	addons, err := s.catalog.ResolveAddons(sel.AddonIDs)
	if err != nil {
		return models.OrderLine{}, err
	}

	orderAddons := make([]models.OrderAddon, 0, len(addons))
	unitPrice := menu.Price
	for _, a := range addons {
		unitPrice += a.Price * float64(a.QtyPerUnit)
		orderAddons = append(orderAddons, models.OrderAddon{
			AddonID:    a.ID,
			Name:       a.Name,
			Price:      a.Price,
			QtyPerUnit: a.QtyPerUnit,
		})
	}
	return models.OrderLine{
		MenuID:   sel.MenuID,
		Name:     menu.Name,
		Price:    unitPrice,
		Quantity: sel.Quantity,
		Recipe:   menu.Recipe,
		Addons:   orderAddons,
		Note:     sel.Note,
	}, nil
}

// lineConsumption aggregates what one line takes from stock at the given
// quantity: recipe entries plus each addon keyed by its own id.
func lineConsumption(into map[string]int64, line models.OrderLine, quantity int64) {
	for ingredient, perUnit := range line.Recipe {
		into[ingredient] += perUnit * quantity
	}
	for _, a := range line.Addons {
		into[a.AddonID] += a.QtyPerUnit * quantity
	}
}

func orderTotals(lines []models.OrderLine) (total, serviceCharge float64) {
	sum := 0.0
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	total = utils.RoundMoney(sum)
	serviceCharge = utils.RoundMoney(total * serviceChargeRate)
	return total, serviceCharge
}

// Create places an order for the given selections. Catalog resolution runs
// outside the transaction; stock validation, the order write and the linked
// income record are one atomic unit.
func (s *Orders) Create(ctx context.Context, customerID string, selections []models.OrderSelection) (models.Order, error) {
	if len(selections) == 0 {
		return models.Order{}, invalidInput("order needs at least one selection")
	}

	lines := make([]models.OrderLine, 0, len(selections))
	needs := map[string]int64{}
	for _, sel := range selections {
		line, err := s.buildLine(ctx, sel)
		if err != nil {
			return models.Order{}, err
		}
		lines = append(lines, line)
		lineConsumption(needs, line, line.Quantity)
	}

	total, serviceCharge := orderTotals(lines)
	now := s.now().UnixMilli()
	order := models.Order{
		ID:            s.store.NewID(),
		CustomerID:    customerID,
		Lines:         lines,
		TotalPrice:    total,
		ServiceCharge: serviceCharge,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		IncomeID:      s.store.NewID(),
	}
	income := models.Transaction{
		ID:          order.IncomeID,
		Type:        models.TransactionIncome,
		Amount:      total,
		Category:    models.CategoryOrder,
		Description: fmt.Sprintf("Order %s", order.ID),
		Date:        now,
		CreatedBy:   customerID,
	}

	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		if err := applyStockDeltas(tx, needs); err != nil {
			return err
		}
		tx.Set(colOrders, order.ID, order.Doc())
		tx.Set(colTransactions, income.ID, income.Doc())
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateLine changes the quantity, addons and note of the line matching
// menuID. Stock moves by the signed difference between old and new
// consumption. The unit price is recomputed from the menu's current base
// price while the recipe snapshot stays as ordered.
func (s *Orders) UpdateLine(ctx context.Context, orderID, menuID string, req models.UpdateOrderLineRequest) (models.Order, error) {
	if req.Quantity <= 0 {
		return models.Order{}, invalidInput("quantity for %s must be positive", menuID)
	}
	newAddons, err := s.catalog.ResolveAddons(req.AddonIDs)
	if err != nil {
		return models.Order{}, err
	}

	var updated models.Order
	err = s.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colOrders, orderID)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrOrderNotFound
		}
		order := models.OrderFromDoc(orderID, doc)

		lineIdx := -1
		for i, l := range order.Lines {
			if l.MenuID == menuID {
				lineIdx = i
				break
			}
		}
		if lineIdx < 0 {
			return ErrLineNotFound
		}
		line := order.Lines[lineIdx]

		newLine := line
		newLine.Quantity = req.Quantity
		newLine.Note = req.Note
		newLine.Addons = make([]models.OrderAddon, 0, len(newAddons))
		for _, a := range newAddons {
			newLine.Addons = append(newLine.Addons, models.OrderAddon{
				AddonID:    a.ID,
				Name:       a.Name,
				Price:      a.Price,
				QtyPerUnit: a.QtyPerUnit,
			})
		}

		oldUse := map[string]int64{}
		newUse := map[string]int64{}
		lineConsumption(oldUse, line, line.Quantity)
		lineConsumption(newUse, newLine, newLine.Quantity)
		deltas := map[string]int64{}
		for id, n := range newUse {
			deltas[id] = n - oldUse[id]
		}
		for id, o := range oldUse {
			if _, ok := newUse[id]; !ok {
				deltas[id] = -o
			}
		}

		// Price drifts with the menu, the recipe snapshot does not.
		menuDoc, err := tx.Get(colMenu, menuID)
		if err != nil {
			return err
		}
		if menuDoc == nil {
			return ErrMenuNotFound
		}
		basePrice := utils.Float64Or(menuDoc["price"], 0)
		if name, ok := menuDoc["name"].(string); ok {
			newLine.Name = name
		}
		newLine.Price = basePrice
		for _, a := range newLine.Addons {
			newLine.Price += a.Price * float64(a.QtyPerUnit)
		}

		if err := applyStockDeltas(tx, deltas); err != nil {
			return err
		}

		order.Lines[lineIdx] = newLine
		order.TotalPrice, order.ServiceCharge = orderTotals(order.Lines)
		order.UpdatedAt = s.now().UnixMilli()
		d := order.Doc()
		tx.Update(colOrders, orderID, store.Doc{
			"items":         d["items"],
			"totalPrice":    d["totalPrice"],
			"serviceCharge": d["serviceCharge"],
			"updatedAt":     d["updatedAt"],
		})
		updated = order
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

// Delete restores every line's consumption to stock and removes the order
// together with its linked income record.
func (s *Orders) Delete(ctx context.Context, orderID string) error {
	return s.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colOrders, orderID)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrOrderNotFound
		}
		order := models.OrderFromDoc(orderID, doc)

		restore := map[string]int64{}
		for _, line := range order.Lines {
			lineConsumption(restore, line, line.Quantity)
		}
		deltas := make(map[string]int64, len(restore))
		for id, n := range restore {
			deltas[id] = -n
		}
		if err := applyStockDeltas(tx, deltas); err != nil {
			return err
		}

		tx.Delete(colOrders, orderID)
		if order.IncomeID != "" {
			tx.Delete(colTransactions, order.IncomeID)
		}
		return nil
	})
}

func (s *Orders) Get(ctx context.Context, orderID string) (models.Order, error) {
	doc, err := s.store.Get(ctx, colOrders, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if doc == nil {
		return models.Order{}, ErrOrderNotFound
	}
	return models.OrderFromDoc(orderID, doc), nil
}

func (s *Orders) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	snaps, err := s.store.Query(ctx, colOrders, store.Query{
		Filters: []store.Filter{{Field: "customerId", Op: "==", Value: customerID}},
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return ordersFromSnaps(snaps), nil
}

func (s *Orders) ListAll(ctx context.Context) ([]models.Order, error) {
	snaps, err := s.store.Query(ctx, colOrders, store.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return ordersFromSnaps(snaps), nil
}

func ordersFromSnaps(snaps []store.Snapshot) []models.Order {
	out := make([]models.Order, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.OrderFromDoc(snap.ID, snap.Data))
	}
	return out
}
