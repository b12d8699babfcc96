package models

import (
	"backend/store"
	"backend/utils"
)

const OrderStatusPending = "pending"

// OrderAddon is the addon snapshot carried on an order line. Consumption is
// QtyPerUnit per ordered unit, keyed in stock by AddonID.
type OrderAddon struct {
	AddonID    string  `json:"addonid"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	QtyPerUnit int64   `json:"qtyperunit"`
}

// OrderLine embeds the menu snapshot taken at order time. Recipe never
// changes after creation; price is refreshed on line updates.
type OrderLine struct {
	MenuID   string           `json:"menuid"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Quantity int64            `json:"quantity"`
	Recipe   map[string]int64 `json:"recipe"`
	Addons   []OrderAddon     `json:"addons"`
	Note     string           `json:"note"`
}

type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customerid"`
	Lines         []OrderLine `json:"items"`
	TotalPrice    float64     `json:"totalprice"`
	ServiceCharge float64     `json:"servicecharge"`
	Status        string      `json:"status"`
	CreatedAt     int64       `json:"createdat"`
	UpdatedAt     int64       `json:"updatedat"`
	IncomeID      string      `json:"incomeid,omitempty"`
}

// OrderSelection is one requested line: a menu id, a count and the chosen
// addon ids from the catalog.
type OrderSelection struct {
	MenuID   string   `json:"menuid" binding:"required"`
	Quantity int64    `json:"quantity" binding:"required"`
	AddonIDs []string `json:"addonids"`
	Note     string   `json:"note"`
}

type CreateOrderRequest struct {
	Selections []OrderSelection `json:"selections" binding:"required"`
}

type UpdateOrderLineRequest struct {
	Quantity int64    `json:"quantity" binding:"required"`
	AddonIDs []string `json:"addonids"`
	Note     string   `json:"note"`
}

func addonFromDoc(d map[string]interface{}) OrderAddon {
	id, _ := d["addonId"].(string)
	name, _ := d["name"].(string)
	return OrderAddon{
		AddonID:    id,
		Name:       name,
		Price:      utils.Float64Or(d["price"], 0),
		QtyPerUnit: utils.Int64Or(d["qtyPerUnit"], 0),
	}
}

func (a OrderAddon) doc() map[string]interface{} {
	return map[string]interface{}{
		"addonId":    a.AddonID,
		"name":       a.Name,
		"price":      a.Price,
		"qtyPerUnit": a.QtyPerUnit,
	}
}

func lineFromDoc(d map[string]interface{}) OrderLine {
	menuID, _ := d["menuId"].(string)
	name, _ := d["name"].(string)
	note, _ := d["note"].(string)
	line := OrderLine{
		MenuID:   menuID,
		Name:     name,
		Price:    utils.Float64Or(d["price"], 0),
		Quantity: utils.Int64Or(d["quantity"], 0),
		Recipe:   ReadRecipe(d["recipe"]),
		Note:     note,
	}
	if raw, ok := d["addons"].([]interface{}); ok {
		for _, e := range raw {
			if m, ok := e.(map[string]interface{}); ok {
				line.Addons = append(line.Addons, addonFromDoc(m))
			}
		}
	}
	return line
}

func (l OrderLine) doc() map[string]interface{} {
	recipe := map[string]interface{}{}
	for k, v := range l.Recipe {
		recipe[k] = v
	}
	addons := make([]interface{}, 0, len(l.Addons))
	for _, a := range l.Addons {
		addons = append(addons, a.doc())
	}
	return map[string]interface{}{
		"menuId":   l.MenuID,
		"name":     l.Name,
		"price":    l.Price,
		"quantity": l.Quantity,
		"recipe":   recipe,
		"addons":   addons,
		"note":     l.Note,
	}
}

func OrderFromDoc(id string, d store.Doc) Order {
	customerID, _ := d["customerId"].(string)
	status, _ := d["status"].(string)
	incomeID, _ := d["incomeId"].(string)
	o := Order{
		ID:            id,
		CustomerID:    customerID,
		TotalPrice:    utils.Float64Or(d["totalPrice"], 0),
		ServiceCharge: utils.Float64Or(d["serviceCharge"], 0),
		Status:        status,
		CreatedAt:     utils.Int64Or(d["createdAt"], 0),
		UpdatedAt:     utils.Int64Or(d["updatedAt"], 0),
		IncomeID:      incomeID,
	}
	if raw, ok := d["items"].([]interface{}); ok {
		for _, e := range raw {
			if m, ok := e.(map[string]interface{}); ok {
				o.Lines = append(o.Lines, lineFromDoc(m))
			}
		}
	}
	return o
}

func (o Order) Doc() store.Doc {
	items := make([]interface{}, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, l.doc())
	}
	return store.Doc{
		"customerId":    o.CustomerID,
		"items":         items,
		"totalPrice":    o.TotalPrice,
		"serviceCharge": o.ServiceCharge,
		"status":        o.Status,
		"createdAt":     o.CreatedAt,
		"updatedAt":     o.UpdatedAt,
		"incomeId":      o.IncomeID,
	}
}
