package services

import (
	"context"

	"backend/models"
	"backend/store"
)

// maxPortionsCap bounds the derived availability figure for items whose
// recipe is empty or extremely cheap on stock.
const maxPortionsCap = 9999

// addonCatalog is the fixed addon set offered with every menu item. Each
// addon consumes its own pseudo-ingredient, keyed by the addon id.
var addonCatalog = []models.Addon{
	{ID: "addon_egg", Name: "Egg", Price: 2.0, QtyPerUnit: 1},
	{ID: "addon_tofu", Name: "Tofu", Price: 1.0, QtyPerUnit: 1},
	{ID: "addon_vegetables", Name: "Extra Vegetables", Price: 1.5, QtyPerUnit: 1},
	{ID: "addon_sauce", Name: "Extra Sauce", Price: 0.5, QtyPerUnit: 1},
}

// Catalog reads and manages menu items.
type Catalog struct {
	store store.TransactionalStore
}

func NewCatalog(s store.TransactionalStore) *Catalog {
	return &Catalog{store: s}
}

// ReadMenuItem fails when the document is absent; a missing or malformed
// price reads as zero rather than failing.
func (c *Catalog) ReadMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	doc, err := c.store.Get(ctx, colMenu, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	if doc == nil {
		return models.MenuItem{}, ErrMenuNotFound
	}
	return models.MenuItemFromDoc(id, doc), nil
}

func (c *Catalog) CreateMenuItem(ctx context.Context, req models.CreateMenuItem) (models.MenuItem, error) {
	if req.Name == "" {
		return models.MenuItem{}, invalidInput("menu item name is required")
	}
	if req.Price < 0 {
		return models.MenuItem{}, invalidInput("menu item price must not be negative")
	}
	for ingredient, qty := range req.Recipe {
		if ingredient == "" || qty < 0 {
			return models.MenuItem{}, invalidInput("recipe entries need an ingredient id and a non-negative quantity")
		}
	}

	item := models.MenuItem{
		ID:     c.store.NewID(),
		Name:   req.Name,
		Price:  req.Price,
		Recipe: req.Recipe,
	}
	if item.Recipe == nil {
		item.Recipe = map[string]int64{}
	}
	err := c.store.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set(colMenu, item.ID, item.Doc())
		return nil
	})
	if err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// SetPhoto stores the uploaded image urls on an existing menu item.
func (c *Catalog) SetPhoto(ctx context.Context, id, photoURL, thumbURL string) error {
	return c.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colMenu, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrMenuNotFound
		}
		tx.Update(colMenu, id, store.Doc{"photoUrl": photoURL, "thumbUrl": thumbURL})
		return nil
	})
}

// ListWithAvailability lists the menu with the number of portions current
// stock can cook: the minimum over the recipe of quantity/perUnit.
func (c *Catalog) ListWithAvailability(ctx context.Context) ([]models.MenuItemAvailability, error) {
	menuSnaps, err := c.store.Query(ctx, colMenu, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	stockSnaps, err := c.store.Query(ctx, colStock, store.Query{})
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int64, len(stockSnaps))
	for _, snap := range stockSnaps {
		quantities[snap.ID] = models.StockItemFromDoc(snap.ID, snap.Data).Quantity
	}

	out := make([]models.MenuItemAvailability, 0, len(menuSnaps))
	for _, snap := range menuSnaps {
		item := models.MenuItemFromDoc(snap.ID, snap.Data)
		out = append(out, models.MenuItemAvailability{
			MenuItem:    item,
			MaxPortions: maxPortions(item.Recipe, quantities),
		})
	}
	return out, nil
}

func maxPortions(recipe map[string]int64, quantities map[string]int64) int64 {
	max := int64(maxPortionsCap)
	for ingredient, perUnit := range recipe {
		if perUnit <= 0 {
			continue
		}
		portions := quantities[ingredient] / perUnit
		if portions < max {
			max = portions
		}
	}
	return max
}

// Addons returns the fixed addon catalog.
func (c *Catalog) Addons() []models.Addon {
	out := make([]models.Addon, len(addonCatalog))
	copy(out, addonCatalog)
	return out
}

// ResolveAddons maps selected addon ids to catalog entries, rejecting
// unknown or duplicate ids.
func (c *Catalog) ResolveAddons(ids []string) ([]models.Addon, error) {
	seen := map[string]bool{}
	out := make([]models.Addon, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalidInput("duplicate addon %s", id)
		}
		seen[id] = true
		found := false
		for _, a := range addonCatalog {
			if a.ID == id {
				out = append(out, a)
				found = true
				break
			}
		}
		if !found {
			return nil, invalidInput("unknown addon %s", id)
		}
	}
	return out, nil
}
