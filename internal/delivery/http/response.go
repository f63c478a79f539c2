package http

import (
	"encoding/json"

	"github.com/cartwise/backend/internal/domain"
)

// priceEntry is one row of an item's price table. It marshals as the
// [store, price, distance|null] tuple the client renders, so the wire
// format is position-based rather than keyed.
type priceEntry struct {
	Store    string
	Price    float64
	Distance *float64
}

func (e priceEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Store, e.Price, e.Distance})
}

// compareItemResponse is one item of the compare-prices response. Items
// nobody carries keep their slot with unavailable=true and an empty price
// table; the batch never fails because of them.
type compareItemResponse struct {
	Product           string       `json:"product"`
	Unavailable       bool         `json:"unavailable,omitempty"`
	BestPrice         *float64     `json:"bestPrice,omitempty"`
	BestStore         string       `json:"bestStore,omitempty"`
	BestStoreDistance *float64     `json:"bestStoreDistance"`
	Savings           *float64     `json:"savings,omitempty"`
	AllPrices         []priceEntry `json:"allPrices"`
}

type compareResponse struct {
	Items          []compareItemResponse `json:"items"`
	TotalBestPrice float64               `json:"totalBestPrice"`
}

func toCompareResponse(result *domain.ComparisonResult) compareResponse {
	items := make([]compareItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		entry := compareItemResponse{
			Product:   item.Product,
			AllPrices: make([]priceEntry, 0, len(item.AllPrices)),
		}
		for _, p := range item.AllPrices {
			entry.AllPrices = append(entry.AllPrices, priceEntry{
				Store:    p.StoreName,
				Price:    p.Price.InexactFloat64(),
				Distance: p.Distance,
			})
		}
		if item.Found {
			best := item.BestPrice.InexactFloat64()
			savings := item.Savings.InexactFloat64()
			entry.BestPrice = &best
			entry.BestStore = item.BestStore
			entry.BestStoreDistance = item.BestStoreDistance
			entry.Savings = &savings
		} else {
			entry.Unavailable = true
		}
		items = append(items, entry)
	}

	return compareResponse{
		Items:          items,
		TotalBestPrice: result.TotalBestPrice.InexactFloat64(),
	}
}

// planItemResponse is one item_breakdown entry of a shopping plan.
type planItemResponse struct {
	Store string  `json:"store"`
	Price float64 `json:"price"`
}

type planResponse struct {
	TotalCost     float64                     `json:"total_cost"`
	TotalDistance float64                     `json:"total_distance"`
	Stores        []uint                      `json:"stores"`
	ItemBreakdown map[string]planItemResponse `json:"item_breakdown"`
}

type optimizeResponse struct {
	PriceOptimized       planResponse `json:"price_optimized"`
	DistanceOptimized    planResponse `json:"distance_optimized"`
	ConvenienceOptimized planResponse `json:"convenience_optimized"`
	Unavailable          []string     `json:"unavailable,omitempty"`
}

func toPlanResponse(plan domain.ShoppingPlan) planResponse {
	breakdown := make(map[string]planItemResponse, len(plan.ItemBreakdown))
	for item, assignment := range plan.ItemBreakdown {
		breakdown[item] = planItemResponse{
			Store: assignment.Store,
			Price: assignment.Price.InexactFloat64(),
		}
	}
	return planResponse{
		TotalCost:     plan.TotalCost.InexactFloat64(),
		TotalDistance: plan.TotalDistance,
		Stores:        plan.Stores,
		ItemBreakdown: breakdown,
	}
}

func toOptimizeResponse(result *domain.OptimizationResult) optimizeResponse {
	return optimizeResponse{
		PriceOptimized:       toPlanResponse(result.PriceOptimized),
		DistanceOptimized:    toPlanResponse(result.DistanceOptimized),
		ConvenienceOptimized: toPlanResponse(result.ConvenienceOptimized),
		Unavailable:          result.Unavailable,
	}
}

// storeResponse matches the directory's legacy /stores rows.
type storeResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	ZipCode  string   `json:"zip_code"`
	Distance *float64 `json:"distance,omitempty"`
}

// legacyStorePrice is the store/price/zip triple used by the legacy
// /search and /check_products endpoints.
type legacyStorePrice struct {
	Store string  `json:"store"`
	Price float64 `json:"price"`
	Zip   string  `json:"zip"`
}

type legacyItemResult struct {
	Name   string             `json:"name"`
	Stores []legacyStorePrice `json:"stores"`
}
