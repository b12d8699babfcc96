package services

import (
	"context"
	"testing"
	"time"

	"backend/models"
	"backend/store"
	"backend/store/memstore"
)

type testEnv struct {
	store     *memstore.Store
	catalog   *Catalog
	finance   *Finance
	stock     *Stock
	orders    *Orders
	dashboard *Dashboard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memstore.New()
	catalog := NewCatalog(st)
	finance := NewFinance(st)
	return &testEnv{
		store:     st,
		catalog:   catalog,
		finance:   finance,
		stock:     NewStock(st, finance),
		orders:    NewOrders(st, catalog),
		dashboard: NewDashboard(st, DefaultLowStockThreshold),
	}
}

func (e *testEnv) seedStock(t *testing.T, id string, quantity int64, price float64) {
	t.Helper()
	item := models.StockItem{ID: id, Name: id, Unit: "unit", Price: price, Quantity: quantity}
	err := e.store.RunTransaction(context.Background(), func(tx store.Tx) error {
		tx.Set(colStock, id, item.Doc())
		return nil
	})
	if err != nil {
		t.Fatalf("seed stock %s: %v", id, err)
	}
}

func (e *testEnv) seedMenu(t *testing.T, id, name string, price float64, recipe map[string]int64) {
	t.Helper()
	item := models.MenuItem{ID: id, Name: name, Price: price, Recipe: recipe}
	err := e.store.RunTransaction(context.Background(), func(tx store.Tx) error {
		tx.Set(colMenu, id, item.Doc())
		return nil
	})
	if err != nil {
		t.Fatalf("seed menu %s: %v", id, err)
	}
}

func (e *testEnv) stockQuantity(t *testing.T, id string) int64 {
	t.Helper()
	item, err := e.stock.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("read stock %s: %v", id, err)
	}
	return item.Quantity
}

func (e *testEnv) transactions(t *testing.T) []models.Transaction {
	t.Helper()
	out, err := e.finance.QueryRange(context.Background(), RangeAll, time.Now())
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	return out
}
