package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// OptimizerConfig holds configuration for the stop optimizer
type OptimizerConfig struct {
	LookupTimeout time.Duration
	MaxItems      int
}

// OptimizerService computes the three competing shopping plans over one
// shared offer graph. All strategies run the same greedy assignment loop
// and differ only in their candidate comparator, so identical inputs always
// produce identical plans.
type OptimizerService struct {
	catalog       domain.CatalogRepository
	lookup        *LookupService
	geo           domain.ZipResolver
	lookupTimeout time.Duration
	maxItems      int
}

// NewOptimizerService creates a stop optimizer with dependencies
func NewOptimizerService(
	catalog domain.CatalogRepository,
	lookup *LookupService,
	geo domain.ZipResolver,
	config OptimizerConfig,
) *OptimizerService {
	timeout := config.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}

	return &OptimizerService{
		catalog:       catalog,
		lookup:        lookup,
		geo:           geo,
		lookupTimeout: timeout,
		maxItems:      maxItems,
	}
}

// Optimize produces the price-, distance-, and convenience-optimized plans
// for a grocery list. Unlike Compare, a resolvable origin ZIP is required:
// the distance strategies are undefined without one. Items with no offers
// anywhere are dropped from all three plans and reported in Unavailable.
func (s *OptimizerService) Optimize(ctx context.Context, items []string, originZip string) (*domain.OptimizationResult, error) {
	cleaned, err := cleanItems(items, s.maxItems)
	if err != nil {
		return nil, err
	}

	if originZip == "" {
		return nil, domain.ErrMissingOrigin
	}
	if _, err := s.geo.Distance(ctx, originZip, originZip); err != nil {
		if errors.Is(err, domain.ErrUnresolvableZip) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnresolvableOrigin, originZip)
		}
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	graph, unavailable, err := s.buildGraph(ctx, snapshot, cleaned, originZip)
	if err != nil {
		return nil, err
	}

	return &domain.OptimizationResult{
		PriceOptimized:       graph.buildPlan(priceObjective(graph)),
		DistanceOptimized:    graph.buildPlan(distanceObjective()),
		ConvenienceOptimized: graph.buildPlan(convenienceObjective()),
		Unavailable:          unavailable,
	}, nil
}

// graphOffer is one edge of the bipartite item/store offer graph.
type graphOffer struct {
	storeID uint
	price   decimal.Decimal
}

// graphStore is one store touched by the offer graph, with its distance
// from the origin. hasDistance is false when the store's ZIP could not be
// resolved: such stores still sell items but sort after every reachable
// store and contribute nothing to a plan's total distance.
type graphStore struct {
	store       domain.Store
	distance    float64
	hasDistance bool
}

// offerGraph is the shared planning state built once per Optimize call.
type offerGraph struct {
	items   []string                // normalized item keys, input order
	display map[string]string       // normalized key -> name as the user typed it
	offers  map[string][]graphOffer // sorted by price asc, store name asc
	stores  map[uint]*graphStore
}

// buildGraph fans out per-item lookups, then resolves each touched store's
// distance from the origin. Items whose lookup times out are treated as
// unavailable for this request.
func (s *OptimizerService) buildGraph(ctx context.Context, snapshot *domain.Catalog, items []string, originZip string) (*offerGraph, []string, error) {
	type itemOffers struct {
		key    string
		offers []domain.Offer
	}

	// Deduplicate on the normalized key, keeping first-typed spelling.
	keys := make([]string, 0, len(items))
	display := make(map[string]string, len(items))
	for _, item := range items {
		key := domain.NormalizeItem(item)
		if _, seen := display[key]; !seen {
			display[key] = item
			keys = append(keys, key)
		}
	}

	resolved := make([]itemOffers, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, s.lookupTimeout)
			defer cancel()
			offers := s.lookup.OffersFor(itemCtx, snapshot, key)
			if itemCtx.Err() != nil {
				log.Printf("[OPTIMIZE] lookup for %q exceeded budget, treating as unavailable", key)
				offers = nil
			}
			resolved[i] = itemOffers{key: key, offers: offers}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	graph := &offerGraph{
		display: display,
		offers:  make(map[string][]graphOffer),
		stores:  make(map[uint]*graphStore),
	}
	var unavailable []string

	for _, entry := range resolved {
		if len(entry.offers) == 0 {
			unavailable = append(unavailable, display[entry.key])
			continue
		}
		graph.items = append(graph.items, entry.key)
		for _, offer := range entry.offers {
			graph.offers[entry.key] = append(graph.offers[entry.key], graphOffer{
				storeID: offer.StoreID,
				price:   offer.Price,
			})
			if _, seen := graph.stores[offer.StoreID]; !seen {
				gs := &graphStore{
					store: domain.Store{
						ID:      offer.StoreID,
						Name:    offer.StoreName,
						ZipCode: offer.StoreZip,
					},
				}
				if full := snapshot.StoreByID(offer.StoreID); full != nil {
					gs.store = *full
				}
				if miles, err := s.geo.Distance(ctx, originZip, gs.store.ZipCode); err == nil {
					gs.distance = miles
					gs.hasDistance = true
				}
				graph.stores[offer.StoreID] = gs
			}
		}
	}

	return graph, unavailable, nil
}

// candidate is one store's claim on the still-unassigned items during a
// planning round, under one strategy's coverage rule.
type candidate struct {
	store     *graphStore
	items     []string
	cost      decimal.Decimal
	bestPrice decimal.Decimal
}

// strategy parameterizes the shared greedy loop: covered picks the subset
// of outstanding items a store may claim, better orders candidate stores.
type strategy struct {
	covered func(g *offerGraph, storeID uint, outstanding []string) []string
	better  func(a, b *candidate) bool
}

// buildPlan runs the generic greedy assignment: repeatedly pick the best
// candidate store under the strategy's comparator and assign it the items
// it covers, until everything is assigned. Candidates are generated over
// stores in ascending id order and the comparator chains end in a store-id
// tie-break, so the result is fully deterministic.
func (g *offerGraph) buildPlan(st strategy) domain.ShoppingPlan {
	plan := domain.ShoppingPlan{
		Stores:        []uint{},
		ItemBreakdown: make(map[string]domain.PlanAssignment, len(g.items)),
	}

	outstanding := make([]string, len(g.items))
	copy(outstanding, g.items)

	visited := make(map[uint]bool)

	for len(outstanding) > 0 {
		best := g.selectCandidate(st, outstanding)
		if best == nil {
			break
		}

		for _, item := range best.items {
			plan.ItemBreakdown[g.display[item]] = domain.PlanAssignment{
				StoreID: best.store.store.ID,
				Store:   best.store.store.Name,
				Price:   g.priceAt(item, best.store.store.ID),
			}
		}
		outstanding = subtract(outstanding, best.items)

		if !visited[best.store.store.ID] {
			visited[best.store.store.ID] = true
			plan.Stores = append(plan.Stores, best.store.store.ID)
			if best.store.hasDistance {
				plan.TotalDistance += best.store.distance
			}
		}
	}

	// A plan's stated cost must agree with its own assignment.
	for _, assignment := range plan.ItemBreakdown {
		plan.TotalCost = plan.TotalCost.Add(assignment.Price)
	}

	return plan
}

// selectCandidate builds the candidate set for this round and returns the
// winner under the strategy comparator, or nil when no store covers any
// outstanding item.
func (g *offerGraph) selectCandidate(st strategy, outstanding []string) *candidate {
	var best *candidate

	for _, storeID := range g.sortedStoreIDs() {
		items := st.covered(g, storeID, outstanding)
		if len(items) == 0 {
			continue
		}

		c := &candidate{store: g.stores[storeID], items: items}
		for i, item := range items {
			price := g.priceAt(item, storeID)
			c.cost = c.cost.Add(price)
			if i == 0 || price.LessThan(c.bestPrice) {
				c.bestPrice = price
			}
		}

		if best == nil || st.better(c, best) {
			best = c
		}
	}

	return best
}

// priceAt returns the price of an item at a store. Offer lists are sorted
// by price, so duplicate listings resolve to the cheapest.
func (g *offerGraph) priceAt(item string, storeID uint) decimal.Decimal {
	for _, offer := range g.offers[item] {
		if offer.storeID == storeID {
			return offer.price
		}
	}
	return decimal.Zero
}

// carries reports the outstanding items available at a store.
func (g *offerGraph) carries(storeID uint, outstanding []string) []string {
	var items []string
	for _, item := range outstanding {
		for _, offer := range g.offers[item] {
			if offer.storeID == storeID {
				items = append(items, item)
				break
			}
		}
	}
	return items
}

func (g *offerGraph) sortedStoreIDs() []uint {
	ids := make([]uint, 0, len(g.stores))
	for id := range g.stores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// subtract removes assigned items from the outstanding list, preserving order.
func subtract(outstanding, assigned []string) []string {
	drop := make(map[string]bool, len(assigned))
	for _, item := range assigned {
		drop[item] = true
	}
	remaining := outstanding[:0]
	for _, item := range outstanding {
		if !drop[item] {
			remaining = append(remaining, item)
		}
	}
	return remaining
}

// priceObjective assigns every item to its globally cheapest offer,
// ignoring distance entirely. Ties on price go to the store whose name
// sorts first; the per-item winners are fixed up front, so each store may
// only claim the items it actually wins.
func priceObjective(g *offerGraph) strategy {
	winners := make(map[string]uint, len(g.items))
	for _, item := range g.items {
		// Offers are sorted by price then store name: the head is the winner.
		winners[item] = g.offers[item][0].storeID
	}

	return strategy{
		covered: func(g *offerGraph, storeID uint, outstanding []string) []string {
			var items []string
			for _, item := range outstanding {
				if winners[item] == storeID {
					items = append(items, item)
				}
			}
			return items
		},
		better: func(a, b *candidate) bool {
			if !a.bestPrice.Equal(b.bestPrice) {
				return a.bestPrice.LessThan(b.bestPrice)
			}
			return a.store.store.Name < b.store.store.Name
		},
	}
}

// distanceObjective greedily prefers the closest store carrying any
// outstanding item and assigns it everything it stocks, so travel is
// settled before price. Equidistant stores tie-break on the price of what
// they would cover, then store id. Stores with unresolvable ZIPs sort
// after every reachable store.
func distanceObjective() strategy {
	return strategy{
		covered: (*offerGraph).carries,
		better: func(a, b *candidate) bool {
			if a.store.hasDistance != b.store.hasDistance {
				return a.store.hasDistance
			}
			if a.store.hasDistance && a.store.distance != b.store.distance {
				return a.store.distance < b.store.distance
			}
			if !a.cost.Equal(b.cost) {
				return a.cost.LessThan(b.cost)
			}
			return a.store.store.ID < b.store.store.ID
		},
	}
}

// convenienceObjective minimizes the count of distinct stores visited:
// classic greedy set cover, picking the store covering the most unassigned
// items each round. Ties break on the total price of the items it would
// cover, then distance, then store id.
func convenienceObjective() strategy {
	return strategy{
		covered: (*offerGraph).carries,
		better: func(a, b *candidate) bool {
			if len(a.items) != len(b.items) {
				return len(a.items) > len(b.items)
			}
			if !a.cost.Equal(b.cost) {
				return a.cost.LessThan(b.cost)
			}
			if a.store.hasDistance != b.store.hasDistance {
				return a.store.hasDistance
			}
			if a.store.hasDistance && a.store.distance != b.store.distance {
				return a.store.distance < b.store.distance
			}
			return a.store.store.ID < b.store.store.ID
		},
	}
}
