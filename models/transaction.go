package models

import (
	"backend/store"
	"backend/utils"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"

	CategoryOrder     = "order"
	CategoryPurchase  = "purchase"
	CategoryStockLoss = "stock_loss"
)

// Transaction is one ledger record. Date is unix milliseconds.
type Transaction struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        int64   `json:"date"`
	CreatedBy   string  `json:"createdby,omitempty"`
}

type AddTransactionRequest struct {
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Date        int64   `json:"date"`
}

type UpdateTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        int64   `json:"date"`
}

func TransactionFromDoc(id string, d store.Doc) Transaction {
	typ, _ := d["type"].(string)
	category, _ := d["category"].(string)
	description, _ := d["description"].(string)
	createdBy, _ := d["createdBy"].(string)
	return Transaction{
		ID:          id,
		Type:        typ,
		Amount:      utils.Float64Or(d["amount"], 0),
		Category:    category,
		Description: description,
		Date:        utils.Int64Or(d["date"], 0),
		CreatedBy:   createdBy,
	}
}

func (t Transaction) Doc() store.Doc {
	d := store.Doc{
		"type":        t.Type,
		"amount":      t.Amount,
		"category":    t.Category,
		"description": t.Description,
		"date":        t.Date,
	}
	if t.CreatedBy != "" {
		d["createdBy"] = t.CreatedBy
	}
	return d
}
