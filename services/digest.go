package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"backend/utils"
)

// LowStockDigest mails staff a daily list of ingredients at or below the
// threshold. Wired to a gocron daily job in main.
type LowStockDigest struct {
	stock     *Stock
	recipient string
	threshold int64
}

func NewLowStockDigest(stock *Stock, recipient string, threshold int64) *LowStockDigest {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &LowStockDigest{stock: stock, recipient: recipient, threshold: threshold}
}

func (d *LowStockDigest) Run() {
	if d.recipient == "" {
		return
	}
	items, err := d.stock.LowStock(context.Background(), d.threshold)
	if err != nil {
		log.Printf("low stock digest: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d ingredient(s) at or below %d units:\n\n", len(items), d.threshold)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %d %s\n", item.Name, item.Quantity, item.Unit)
	}
	if err := utils.SendEmail(d.recipient, "Low stock report", b.String()); err != nil {
		log.Printf("low stock digest mail: %v", err)
	}
}
