package domain

import "github.com/shopspring/decimal"

// Store is read-only reference data owned by the catalog. The engine
// never mutates stores; it only reads them through a snapshot.
type Store struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Offer is a (store, price, quantity) tuple for a single item. Store name
// and ZIP are denormalized onto the offer so the engine never needs a
// second lookup while pricing a list.
type Offer struct {
	Item      string          `json:"item"`
	StoreID   uint            `json:"store_id"`
	StoreName string          `json:"store"`
	StoreZip  string          `json:"zip"`
	Price     decimal.Decimal `json:"price"`
	Quantity  string          `json:"quantity,omitempty"`
}

// StoreProduct is one product row on a store detail page.
type StoreProduct struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity string          `json:"quantity,omitempty"`
}

// StoreDetail is the store page view: the store plus everything it carries.
type StoreDetail struct {
	Store    Store          `json:"store"`
	Products []StoreProduct `json:"products"`
}
