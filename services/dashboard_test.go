package services

import (
	"context"
	"testing"
	"time"

	"backend/models"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Date(2026, time.August, 20, 15, 0, 0, 0, time.Local)
	env.dashboard.now = func() time.Time { return now }

	addLedgerRecord(t, env, models.TransactionIncome, 100, now.Add(-time.Hour))
	addLedgerRecord(t, env, models.TransactionIncome, 40, now.AddDate(0, 0, -5))
	addLedgerRecord(t, env, models.TransactionExpense, 30, now.AddDate(0, 0, -3))
	addLedgerRecord(t, env, models.TransactionIncome, 999, now.AddDate(0, -2, 0))

	env.seedStock(t, "flour", 2, 1.0)
	env.seedStock(t, "rice", 5, 1.0)
	env.seedStock(t, "oil", 40, 1.0)

	sum, err := env.dashboard.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if sum.TodayIncome != 100 {
		t.Errorf("today income = %v, want 100", sum.TodayIncome)
	}
	if sum.MonthIncome != 140 {
		t.Errorf("month income = %v, want 140", sum.MonthIncome)
	}
	if sum.MonthExpense != 30 {
		t.Errorf("month expense = %v, want 30", sum.MonthExpense)
	}
	if sum.MonthNet != 110 {
		t.Errorf("month net = %v, want 110", sum.MonthNet)
	}
	if sum.LowStockCount != 2 {
		t.Errorf("low stock count = %d, want 2", sum.LowStockCount)
	}
}

func TestDashboardDefaultThreshold(t *testing.T) {
	d := NewDashboard(nil, 0)
	if d.threshold != DefaultLowStockThreshold {
		t.Errorf("threshold = %d, want default %d", d.threshold, DefaultLowStockThreshold)
	}
}
