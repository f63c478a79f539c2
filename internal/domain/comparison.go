package domain

import "github.com/shopspring/decimal"

// PricedOffer is one row of the per-item price table: a store, its price,
// and the distance from the origin ZIP (nil when no origin was given or
// the ZIP could not be resolved).
type PricedOffer struct {
	StoreID   uint
	StoreName string
	Price     decimal.Decimal
	Distance  *float64
}

// ItemComparison is the per-item result of a price comparison. Found is
// false when no store carries the item; such items keep their place in
// the result so the caller can render the list in input order.
type ItemComparison struct {
	Product           string
	Found             bool
	BestPrice         decimal.Decimal
	BestStoreID       uint
	BestStore         string
	BestStoreDistance *float64
	Savings           decimal.Decimal
	AllPrices         []PricedOffer
}

// ComparisonResult is recomputed per request and never persisted.
// TotalBestPrice sums best prices over items that had at least one offer.
type ComparisonResult struct {
	Items          []ItemComparison
	TotalBestPrice decimal.Decimal
}
