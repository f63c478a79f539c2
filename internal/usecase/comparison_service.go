package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// defaultLookupTimeout bounds a single item's catalog+geo work so one slow
// lookup cannot hang the whole comparison.
const defaultLookupTimeout = 2 * time.Second

// ComparisonConfig holds configuration for the comparison service
type ComparisonConfig struct {
	LookupTimeout time.Duration
	MaxItems      int
}

// ComparisonService builds the per-item best-price table for a grocery
// list. Each request works against its own immutable catalog snapshot.
type ComparisonService struct {
	catalog       domain.CatalogRepository
	lookup        *LookupService
	geo           domain.ZipResolver
	lookupTimeout time.Duration
	maxItems      int
}

// NewComparisonService creates a comparison service with dependencies
func NewComparisonService(
	catalog domain.CatalogRepository,
	lookup *LookupService,
	geo domain.ZipResolver,
	config ComparisonConfig,
) *ComparisonService {
	timeout := config.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}

	return &ComparisonService{
		catalog:       catalog,
		lookup:        lookup,
		geo:           geo,
		lookupTimeout: timeout,
		maxItems:      maxItems,
	}
}

// Compare produces the price comparison for a grocery list. The origin ZIP
// is optional: without it (or when it cannot be resolved) distances are
// simply absent. Items nobody carries are marked, never fatal; result order
// matches input order so the caller can render the list as typed.
func (s *ComparisonService) Compare(ctx context.Context, items []string, originZip string) (*domain.ComparisonResult, error) {
	cleaned, err := cleanItems(items, s.maxItems)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ItemComparison, len(cleaned))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range cleaned {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, s.lookupTimeout)
			defer cancel()
			results[i] = s.compareItem(itemCtx, snapshot, item, originZip)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ComparisonResult{Items: results}
	for _, item := range results {
		if item.Found {
			result.TotalBestPrice = result.TotalBestPrice.Add(item.BestPrice)
		}
	}

	return result, nil
}

// compareItem builds one row of the comparison. A lookup that exceeds its
// budget degrades to "no offers" for this request instead of failing it.
func (s *ComparisonService) compareItem(ctx context.Context, snapshot *domain.Catalog, item, originZip string) domain.ItemComparison {
	offers := s.lookup.OffersFor(ctx, snapshot, item)
	if ctx.Err() != nil {
		log.Printf("[COMPARE] lookup for %q exceeded budget, treating as unavailable", item)
		offers = nil
	}

	if len(offers) == 0 {
		return domain.ItemComparison{Product: item, AllPrices: []domain.PricedOffer{}}
	}

	// Offers arrive sorted by price then store name, so the head is the
	// best offer under the store-name tie-break and the tail carries the
	// worst price.
	best := offers[0]
	worst := offers[len(offers)-1]

	allPrices := make([]domain.PricedOffer, 0, len(offers))
	for _, offer := range offers {
		allPrices = append(allPrices, domain.PricedOffer{
			StoreID:   offer.StoreID,
			StoreName: offer.StoreName,
			Price:     offer.Price,
			Distance:  s.distanceTo(ctx, originZip, offer.StoreZip),
		})
	}

	return domain.ItemComparison{
		Product:           item,
		Found:             true,
		BestPrice:         best.Price,
		BestStoreID:       best.StoreID,
		BestStore:         best.StoreName,
		BestStoreDistance: allPrices[0].Distance,
		Savings:           worst.Price.Sub(best.Price),
		AllPrices:         allPrices,
	}
}

// distanceTo resolves origin-to-store distance, degrading to nil when the
// origin is absent or either ZIP cannot be resolved.
func (s *ComparisonService) distanceTo(ctx context.Context, originZip, storeZip string) *float64 {
	if originZip == "" {
		return nil
	}
	miles, err := s.geo.Distance(ctx, originZip, storeZip)
	if err != nil {
		return nil
	}
	return &miles
}

// cleanItems trims the request list, dropping blank entries. An effectively
// empty list is a malformed request.
func cleanItems(items []string, maxItems int) ([]string, error) {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: item list is empty", domain.ErrInvalidRequest)
	}
	if len(cleaned) > maxItems {
		return nil, fmt.Errorf("%w: item list exceeds %d items", domain.ErrInvalidRequest, maxItems)
	}
	return cleaned, nil
}
