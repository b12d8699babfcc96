package services

import (
	"context"
	"errors"
	"testing"

	"backend/models"
)

func TestPurchaseCreatesRecordAndExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.stock.Purchase(ctx, "flour", models.PurchaseRequest{
		Name: "Flour", Unit: "kg", Price: 2.5, Quantity: 10,
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if item.Quantity != 10 || item.Name != "Flour" || item.Price != 2.5 {
		t.Errorf("item = %+v", item)
	}

	txs := env.transactions(t)
	if len(txs) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(txs))
	}
	expense := txs[0]
	if expense.Type != models.TransactionExpense || expense.Category != models.CategoryPurchase {
		t.Errorf("expense = %+v", expense)
	}
	if expense.Amount != 25.00 {
		t.Errorf("expense amount = %v, want 25.00", expense.Amount)
	}
}

func TestPurchaseIncrementsExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, "flour", 4, 2.5)

	item, err := env.stock.Purchase(ctx, "flour", models.PurchaseRequest{
		Name: "Flour", Unit: "kg", Price: 2.5, Quantity: 6,
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if item.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", item.Quantity)
	}
}

func TestPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)

	var invalid *InvalidInputError
	_, err := env.stock.Purchase(context.Background(), "flour", models.PurchaseRequest{Name: "Flour", Quantity: 0})
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidInputError", err)
	}
}

func TestAdjustDownRecordsLoss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, "flour", 10, 2.5)

	item, delta, err := env.stock.AdjustTo(ctx, "flour", 6, "spoiled", "staff1")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 6 || delta != -4 {
		t.Errorf("quantity = %d, delta = %d, want 6 and -4", item.Quantity, delta)
	}

	txs := env.transactions(t)
	if len(txs) != 1 {
		t.Fatalf("ledger has %d records, want 1 loss", len(txs))
	}
	loss := txs[0]
	if loss.Type != models.TransactionExpense || loss.Category != models.CategoryStockLoss {
		t.Errorf("loss = %+v", loss)
	}
	if loss.Amount != 10.00 {
		t.Errorf("loss amount = %v, want 2.5*4 = 10.00", loss.Amount)
	}
	if loss.CreatedBy != "staff1" {
		t.Errorf("loss createdBy = %q", loss.CreatedBy)
	}
}

func TestAdjustUpRecordsNoLoss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, "flour", 4, 2.5)

	item, delta, err := env.stock.AdjustTo(ctx, "flour", 9, "recount", "staff1")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 9 || delta != 5 {
		t.Errorf("quantity = %d, delta = %d, want 9 and 5", item.Quantity, delta)
	}
	if txs := env.transactions(t); len(txs) != 0 {
		t.Errorf("ledger has %d records, want 0", len(txs))
	}
}

func TestAdjustClampsNegativeTarget(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "flour", 3, 1.0)

	item, delta, err := env.stock.AdjustTo(context.Background(), "flour", -5, "inventory error", "staff1")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 0 || delta != -3 {
		t.Errorf("quantity = %d, delta = %d, want clamp to 0 and -3", item.Quantity, delta)
	}
}

func TestAdjustCreatesMissingRecordWithZeroDelta(t *testing.T) {
	env := newTestEnv(t)

	item, delta, err := env.stock.AdjustTo(context.Background(), "sugar", 7, "initial count", "staff1")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 7 || delta != 0 {
		t.Errorf("quantity = %d, delta = %d, want 7 and 0", item.Quantity, delta)
	}
	if txs := env.transactions(t); len(txs) != 0 {
		t.Errorf("ledger has %d records, want 0", len(txs))
	}
}

func TestAdjustRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "flour", 3, 1.0)

	var invalid *InvalidInputError
	_, _, err := env.stock.AdjustTo(context.Background(), "flour", 1, "", "staff1")
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidInputError", err)
	}
	if got := env.stockQuantity(t, "flour"); got != 3 {
		t.Errorf("flour = %d, want unchanged 3", got)
	}
}

func TestLowStockListing(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "flour", 2, 1.0)
	env.seedStock(t, "rice", 5, 1.0)
	env.seedStock(t, "oil", 50, 1.0)

	items, err := env.stock.LowStock(context.Background(), 5)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("low stock count = %d, want 2", len(items))
	}
	// Ordered by quantity ascending.
	if items[0].ID != "flour" || items[1].ID != "rice" {
		t.Errorf("low stock order = %s, %s", items[0].ID, items[1].ID)
	}
}
