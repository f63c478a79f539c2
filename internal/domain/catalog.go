package domain

import (
	"sort"
	"strings"
)

// NormalizeItem canonicalizes an item name for catalog matching:
// lowercased, with runs of whitespace collapsed to single spaces.
func NormalizeItem(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Catalog is an immutable snapshot of the store/offer state, taken once at
// request entry. A single request never sees a price change mid-computation,
// and the optimizer needs no locks while walking it.
type Catalog struct {
	stores    []Store
	storeByID map[uint]*Store
	offers    map[string][]Offer
	items     []string
}

// NewCatalog builds a snapshot from stores and offers. Offers are keyed by
// normalized item name; stores and per-item offer lists are sorted so every
// later traversal is deterministic.
func NewCatalog(stores []Store, offers []Offer) *Catalog {
	c := &Catalog{
		storeByID: make(map[uint]*Store, len(stores)),
		offers:    make(map[string][]Offer),
	}

	c.stores = make([]Store, len(stores))
	copy(c.stores, stores)
	sort.Slice(c.stores, func(i, j int) bool { return c.stores[i].ID < c.stores[j].ID })
	for i := range c.stores {
		c.storeByID[c.stores[i].ID] = &c.stores[i]
	}

	for _, offer := range offers {
		key := NormalizeItem(offer.Item)
		if key == "" {
			continue
		}
		c.offers[key] = append(c.offers[key], offer)
	}

	c.items = make([]string, 0, len(c.offers))
	for key := range c.offers {
		c.items = append(c.items, key)
		list := c.offers[key]
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Price.Equal(list[j].Price) {
				return list[i].Price.LessThan(list[j].Price)
			}
			return list[i].StoreName < list[j].StoreName
		})
	}
	sort.Strings(c.items)

	return c
}

// Stores returns all stores in ascending id order. Callers must not mutate
// the returned slice.
func (c *Catalog) Stores() []Store {
	return c.stores
}

// StoreByID returns the store with the given id, or nil.
func (c *Catalog) StoreByID(id uint) *Store {
	return c.storeByID[id]
}

// OffersFor returns every offer for an exactly (normalized) matching item,
// sorted by price then store name. Returns an empty slice when no store
// carries the item; that is a valid outcome, not an error.
func (c *Catalog) OffersFor(name string) []Offer {
	return c.offers[NormalizeItem(name)]
}

// Items returns all distinct normalized item names, sorted.
func (c *Catalog) Items() []string {
	return c.items
}
