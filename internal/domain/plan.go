package domain

import "github.com/shopspring/decimal"

// PlanAssignment records where a single item should be bought and at what
// price under one plan.
type PlanAssignment struct {
	StoreID uint
	Store   string
	Price   decimal.Decimal
}

// ShoppingPlan is one strategy's complete store-visit assignment.
// Invariants: every item in ItemBreakdown maps to a store present in
// Stores, and TotalCost equals the sum of the breakdown prices.
type ShoppingPlan struct {
	TotalCost     decimal.Decimal
	TotalDistance float64
	Stores        []uint
	ItemBreakdown map[string]PlanAssignment
}

// OptimizationResult bundles the three competing plans computed over the
// same offer graph. Unavailable lists items that had no offers anywhere
// and were therefore dropped from all three plans.
type OptimizationResult struct {
	PriceOptimized       ShoppingPlan
	DistanceOptimized    ShoppingPlan
	ConvenienceOptimized ShoppingPlan
	Unavailable          []string
}
