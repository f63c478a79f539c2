package usecase

import (
	"context"
	"log"

	"github.com/cartwise/backend/internal/domain"
)

// LookupConfig holds configuration for the catalog lookup service
type LookupConfig struct {
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
	EnableDebugLogging  bool
}

// LookupService finds the offers for a grocery item in a catalog snapshot.
// Exact normalized matching is the baseline contract; fuzzy matching is an
// optional enhancement that never overrides an exact match.
type LookupService struct {
	enableFuzzyMatching bool
	fuzzyEditDistance   int
	enableDebugLogging  bool
}

// NewLookupService creates a new lookup service with the given configuration
func NewLookupService(config LookupConfig) *LookupService {
	editDistance := config.FuzzyEditDistance
	if editDistance <= 0 {
		editDistance = 1
	}

	return &LookupService{
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   editDistance,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// OffersFor returns every offer for an item, sorted by price then store
// name. An empty slice means no store carries the item; that is a valid,
// expected outcome, not a failure.
func (s *LookupService) OffersFor(ctx context.Context, catalog *domain.Catalog, itemName string) []domain.Offer {
	if offers := catalog.OffersFor(itemName); len(offers) > 0 {
		return offers
	}

	if !s.enableFuzzyMatching {
		return nil
	}

	match, ok := s.fuzzyMatch(ctx, catalog, domain.NormalizeItem(itemName))
	if !ok {
		return nil
	}

	if s.enableDebugLogging {
		log.Printf("[LOOKUP] fuzzy matched %q -> %q", itemName, match)
	}
	return catalog.OffersFor(match)
}

// fuzzyMatch finds the catalog item closest to the query within the edit
// distance threshold. Ties resolve to the lexicographically smallest item
// name so repeated lookups stay deterministic.
func (s *LookupService) fuzzyMatch(ctx context.Context, catalog *domain.Catalog, query string) (string, bool) {
	// Short names produce too many false positives to fuzz.
	if len(query) < 4 {
		return "", false
	}

	bestDistance := s.fuzzyEditDistance + 1
	bestItem := ""

	for _, item := range catalog.Items() {
		select {
		case <-ctx.Done():
			return "", false
		default:
		}

		if len(item) < 4 {
			continue
		}

		// Length gap alone can rule a pair out before the O(n*m) scan.
		lenDiff := len(item) - len(query)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff >= bestDistance {
			continue
		}

		if d := levenshteinDistance(query, item); d < bestDistance {
			bestDistance = d
			bestItem = item
		}
	}

	return bestItem, bestItem != ""
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
