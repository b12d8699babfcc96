package services

import (
	"context"
	"time"

	"backend/models"
	"backend/store"
)

const (
	RangeDay   = "day"
	RangeMonth = "month"
	RangeAll   = "all"
)

// Finance is the income/expense ledger. Order-linked income records are
// written by the order engine inside its own transaction; everything here
// covers manual entries and derived expense records.
type Finance struct {
	store store.TransactionalStore
}

func NewFinance(s store.TransactionalStore) *Finance {
	return &Finance{store: s}
}

// record appends a ledger entry without input validation, for use by other
// services that construct the record themselves.
func (f *Finance) record(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	t.ID = f.store.NewID()
	if t.Date == 0 {
		t.Date = time.Now().UnixMilli()
	}
	err := f.store.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set(colTransactions, t.ID, t.Doc())
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (f *Finance) Add(ctx context.Context, req models.AddTransactionRequest, createdBy string) (models.Transaction, error) {
	if req.Type != models.TransactionIncome && req.Type != models.TransactionExpense {
		return models.Transaction{}, invalidInput("transaction type must be income or expense")
	}
	if req.Amount <= 0 {
		return models.Transaction{}, invalidInput("transaction amount must be positive")
	}
	if req.Category == "" {
		return models.Transaction{}, invalidInput("transaction category is required")
	}
	return f.record(ctx, models.Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		CreatedBy:   createdBy,
	})
}

func (f *Finance) Update(ctx context.Context, id string, req models.UpdateTransactionRequest) (models.Transaction, error) {
	if req.Amount < 0 {
		return models.Transaction{}, invalidInput("transaction amount must be positive")
	}

	var updated models.Transaction
	err := f.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colTransactions, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrTransactionNotFound
		}
		updated = models.TransactionFromDoc(id, doc)
		if req.Amount > 0 {
			updated.Amount = req.Amount
		}
		if req.Category != "" {
			updated.Category = req.Category
		}
		if req.Description != "" {
			updated.Description = req.Description
		}
		if req.Date > 0 {
			updated.Date = req.Date
		}
		tx.Update(colTransactions, id, updated.Doc())
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

func (f *Finance) Delete(ctx context.Context, id string) error {
	return f.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colTransactions, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrTransactionNotFound
		}
		tx.Delete(colTransactions, id)
		return nil
	})
}

// QueryRange returns records for the local calendar day or month containing
// ref, or every record for RangeAll, newest first.
func (f *Finance) QueryRange(ctx context.Context, mode string, ref time.Time) ([]models.Transaction, error) {
	q := store.Query{OrderBy: "date", Desc: true}
	switch mode {
	case RangeDay:
		start, end := DayBounds(ref)
		q.Filters = []store.Filter{
			{Field: "date", Op: ">=", Value: start},
			{Field: "date", Op: "<=", Value: end},
		}
	case RangeMonth:
		start, end := MonthBounds(ref)
		q.Filters = []store.Filter{
			{Field: "date", Op: ">=", Value: start},
			{Field: "date", Op: "<=", Value: end},
		}
	case RangeAll:
	default:
		return nil, invalidInput("range mode must be day, month or all")
	}

	snaps, err := f.store.Query(ctx, colTransactions, q)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.TransactionFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

// DayBounds returns the inclusive unix-millisecond bounds of the local
// calendar day containing t.
func DayBounds(t time.Time) (int64, int64) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start.UnixMilli(), end.UnixMilli()
}

// MonthBounds is DayBounds for the containing calendar month.
func MonthBounds(t time.Time) (int64, int64) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start.UnixMilli(), end.UnixMilli()
}
