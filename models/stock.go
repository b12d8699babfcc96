package models

import (
	"backend/store"
	"backend/utils"
)

type StockItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// PurchaseRequest describes an incoming stock delivery. Name, unit and
// price seed the record when the ingredient is new.
type PurchaseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity" binding:"required"`
}

type AdjustRequest struct {
	NewQuantity int64  `json:"newquantity"`
	Reason      string `json:"reason"`
}

func StockItemFromDoc(id string, d store.Doc) StockItem {
	name, _ := d["name"].(string)
	unit, _ := d["unit"].(string)
	return StockItem{
		ID:       id,
		Name:     name,
		Unit:     unit,
		Price:    utils.Float64Or(d["price"], 0),
		Quantity: utils.Int64Or(d["quantity"], 0),
	}
}

func (s StockItem) Doc() store.Doc {
	return store.Doc{
		"name":     s.Name,
		"unit":     s.Unit,
		"price":    s.Price,
		"quantity": s.Quantity,
	}
}
