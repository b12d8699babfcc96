package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/models"
)

func addLedgerRecord(t *testing.T, env *testEnv, typ string, amount float64, date time.Time) models.Transaction {
	t.Helper()
	rec, err := env.finance.record(context.Background(), models.Transaction{
		Type:     typ,
		Amount:   amount,
		Category: "misc",
		Date:     date.UnixMilli(),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return rec
}

func TestAddTransactionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var invalid *InvalidInputError
	_, err := env.finance.Add(ctx, models.AddTransactionRequest{Type: "refund", Amount: 5, Category: "misc"}, "staff1")
	if !errors.As(err, &invalid) {
		t.Errorf("bad type: err = %v, want InvalidInputError", err)
	}
	_, err = env.finance.Add(ctx, models.AddTransactionRequest{Type: models.TransactionIncome, Amount: 0, Category: "misc"}, "staff1")
	if !errors.As(err, &invalid) {
		t.Errorf("zero amount: err = %v, want InvalidInputError", err)
	}
	_, err = env.finance.Add(ctx, models.AddTransactionRequest{Type: models.TransactionIncome, Amount: 5}, "staff1")
	if !errors.As(err, &invalid) {
		t.Errorf("blank category: err = %v, want InvalidInputError", err)
	}

	rec, err := env.finance.Add(ctx, models.AddTransactionRequest{
		Type: models.TransactionExpense, Amount: 5, Category: "rent", Description: "August",
	}, "staff1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.ID == "" || rec.Date == 0 || rec.CreatedBy != "staff1" {
		t.Errorf("record = %+v", rec)
	}
}

func TestUpdateTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := addLedgerRecord(t, env, models.TransactionExpense, 30, time.Now())

	updated, err := env.finance.Update(ctx, rec.ID, models.UpdateTransactionRequest{Amount: 45, Description: "corrected"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 45 || updated.Description != "corrected" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Category != "misc" {
		t.Errorf("category = %q, want untouched misc", updated.Category)
	}

	if _, err := env.finance.Update(ctx, "ghost", models.UpdateTransactionRequest{Amount: 1}); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("unknown id: err = %v, want ErrTransactionNotFound", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := addLedgerRecord(t, env, models.TransactionIncome, 12, time.Now())

	if err := env.finance.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.finance.Delete(ctx, rec.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("second delete: err = %v, want ErrTransactionNotFound", err)
	}
}

func TestQueryRangeDayAndMonth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ref := time.Date(2026, time.August, 15, 13, 30, 0, 0, time.Local)
	sameDay := addLedgerRecord(t, env, models.TransactionIncome, 10, ref.Add(2*time.Hour))
	sameMonth := addLedgerRecord(t, env, models.TransactionExpense, 20, ref.AddDate(0, 0, -10))
	otherMonth := addLedgerRecord(t, env, models.TransactionIncome, 30, ref.AddDate(0, -1, 0))

	day, err := env.finance.QueryRange(ctx, RangeDay, ref)
	if err != nil {
		t.Fatalf("day query: %v", err)
	}
	if len(day) != 1 || day[0].ID != sameDay.ID {
		t.Errorf("day results = %+v, want only same-day record", day)
	}

	month, err := env.finance.QueryRange(ctx, RangeMonth, ref)
	if err != nil {
		t.Fatalf("month query: %v", err)
	}
	if len(month) != 2 {
		t.Fatalf("month results = %d, want 2", len(month))
	}
	// Date descending.
	if month[0].ID != sameDay.ID || month[1].ID != sameMonth.ID {
		t.Errorf("month order = %s, %s", month[0].ID, month[1].ID)
	}

	all, err := env.finance.QueryRange(ctx, RangeAll, ref)
	if err != nil {
		t.Fatalf("all query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all results = %d, want 3", len(all))
	}
	if all[2].ID != otherMonth.ID {
		t.Errorf("oldest record not last: %+v", all)
	}

	if _, err := env.finance.QueryRange(ctx, "week", ref); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestDayBoundsCoverWholeLocalDay(t *testing.T) {
	ref := time.Date(2026, time.August, 15, 23, 59, 0, 0, time.Local)
	start, end := DayBounds(ref)

	if got := time.UnixMilli(start).Local(); got.Hour() != 0 || got.Day() != 15 {
		t.Errorf("start = %v", got)
	}
	if end-start != 24*int64(time.Hour/time.Millisecond)-1 {
		t.Errorf("span = %d ms", end-start)
	}
}

func TestMonthBounds(t *testing.T) {
	ref := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.Local)
	start, end := MonthBounds(ref)

	s := time.UnixMilli(start).Local()
	e := time.UnixMilli(end).Local()
	if s.Day() != 1 || s.Month() != time.February {
		t.Errorf("start = %v", s)
	}
	if e.Day() != 28 || e.Month() != time.February {
		t.Errorf("end = %v", e)
	}
}
