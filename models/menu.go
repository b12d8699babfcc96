package models

import (
	"backend/store"
	"backend/utils"
)

type MenuItem struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Recipe   map[string]int64 `json:"recipe"`
	PhotoURL string           `json:"photourl,omitempty"`
	ThumbURL string           `json:"thumburl,omitempty"`
}

// MenuItemAvailability is the customer-facing listing entry: the item plus
// how many portions current stock can cook.
type MenuItemAvailability struct {
	MenuItem
	MaxPortions int64 `json:"maxportions"`
}

type Addon struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	QtyPerUnit int64   `json:"qtyperunit"`
}

type CreateMenuItem struct {
	Name   string           `json:"name" binding:"required"`
	Price  float64          `json:"price"`
	Recipe map[string]int64 `json:"recipe"`
}

// ReadRecipe converts a raw stored ingredient map into ingredientId to
// quantity, dropping entries whose key is not a string or whose value is
// not numeric.
func ReadRecipe(raw interface{}) map[string]int64 {
	out := map[string]int64{}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range m {
		if n, ok := utils.AnyToInt64(v); ok {
			out[k] = n
		}
	}
	return out
}

func MenuItemFromDoc(id string, d store.Doc) MenuItem {
	name, _ := d["name"].(string)
	photo, _ := d["photoUrl"].(string)
	thumb, _ := d["thumbUrl"].(string)
	return MenuItem{
		ID:       id,
		Name:     name,
		Price:    utils.Float64Or(d["price"], 0),
		Recipe:   ReadRecipe(d["recipe"]),
		PhotoURL: photo,
		ThumbURL: thumb,
	}
}

func (m MenuItem) Doc() store.Doc {
	recipe := map[string]interface{}{}
	for k, v := range m.Recipe {
		recipe[k] = v
	}
	d := store.Doc{
		"name":   m.Name,
		"price":  m.Price,
		"recipe": recipe,
	}
	if m.PhotoURL != "" {
		d["photoUrl"] = m.PhotoURL
	}
	if m.ThumbURL != "" {
		d["thumbUrl"] = m.ThumbURL
	}
	return d
}
