package services

import (
	"context"
	"time"

	"backend/models"
	"backend/store"
	"backend/utils"
)

const DefaultLowStockThreshold = 5

// Summary is the staff dashboard payload, derived on demand from the ledger
// and the stock collection.
type Summary struct {
	TodayIncome   float64 `json:"todayincome"`
	MonthIncome   float64 `json:"monthincome"`
	MonthExpense  float64 `json:"monthexpense"`
	MonthNet      float64 `json:"monthnet"`
	LowStockCount int     `json:"lowstockcount"`
}

type Dashboard struct {
	store     store.TransactionalStore
	threshold int64
	now       func() time.Time
}

func NewDashboard(s store.TransactionalStore, lowStockThreshold int64) *Dashboard {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Dashboard{store: s, threshold: lowStockThreshold, now: time.Now}
}

func (d *Dashboard) Summary(ctx context.Context) (Summary, error) {
	now := d.now()
	monthStart, monthEnd := MonthBounds(now)
	dayStart, dayEnd := DayBounds(now)

	snaps, err := d.store.Query(ctx, colTransactions, store.Query{
		Filters: []store.Filter{
			{Field: "date", Op: ">=", Value: monthStart},
			{Field: "date", Op: "<=", Value: monthEnd},
		},
	})
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, snap := range snaps {
		t := models.TransactionFromDoc(snap.ID, snap.Data)
		switch t.Type {
		case models.TransactionIncome:
			sum.MonthIncome += t.Amount
			if t.Date >= dayStart && t.Date <= dayEnd {
				sum.TodayIncome += t.Amount
			}
		case models.TransactionExpense:
			sum.MonthExpense += t.Amount
		}
	}
	sum.TodayIncome = utils.RoundMoney(sum.TodayIncome)
	sum.MonthIncome = utils.RoundMoney(sum.MonthIncome)
	sum.MonthExpense = utils.RoundMoney(sum.MonthExpense)
	sum.MonthNet = utils.RoundMoney(sum.MonthIncome - sum.MonthExpense)

	stockSnaps, err := d.store.Query(ctx, colStock, store.Query{
		Filters: []store.Filter{{Field: "quantity", Op: "<=", Value: d.threshold}},
	})
	if err != nil {
		return Summary{}, err
	}
	sum.LowStockCount = len(stockSnaps)
	return sum, nil
}
