package geo

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// zipPattern accepts 5-digit ZIPs and ZIP+4; only the 5-digit prefix is used.
var zipPattern = regexp.MustCompile(`^(\d{5})(?:-\d{4})?$`)

// Resolver converts ZIP code pairs into distances in miles using the static
// centroid table. Resolution is a pure function, so resolved distances may
// be memoized through an optional cache without any staleness concern.
type Resolver struct {
	centroids map[string]centroid
	cache     domain.CacheRepository
	cacheTTL  time.Duration
}

// NewResolver creates a resolver over the built-in centroid table. A nil
// cache disables memoization.
func NewResolver(cache domain.CacheRepository) *Resolver {
	return &Resolver{
		centroids: zipCentroids,
		cache:     cache,
		cacheTTL:  24 * time.Hour,
	}
}

// Distance returns the haversine distance in miles between the centroids of
// two ZIP codes. Malformed or unknown ZIPs fail with ErrUnresolvableZip;
// callers degrade by treating the distance as unavailable, not by aborting.
func (r *Resolver) Distance(ctx context.Context, zipA, zipB string) (float64, error) {
	a, err := r.resolve(zipA)
	if err != nil {
		return 0, err
	}
	b, err := r.resolve(zipB)
	if err != nil {
		return 0, err
	}

	if zipA == zipB {
		return 0, nil
	}

	key := distanceKey(zipA, zipB)
	if r.cache != nil {
		if value, err := r.cache.Get(ctx, key); err == nil {
			if miles, ok := value.(float64); ok {
				return miles, nil
			}
		}
	}

	miles := haversineMiles(a, b)

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, miles, r.cacheTTL); err != nil {
			log.Printf("[GEO] cache set failed for %s: %v", key, err)
		}
	}

	return miles, nil
}

// resolve normalizes a ZIP string and looks up its centroid.
func (r *Resolver) resolve(zip string) (centroid, error) {
	m := zipPattern.FindStringSubmatch(zip)
	if m == nil {
		return centroid{}, fmt.Errorf("%w: %q", domain.ErrUnresolvableZip, zip)
	}
	c, ok := r.centroids[m[1]]
	if !ok {
		return centroid{}, fmt.Errorf("%w: %q", domain.ErrUnresolvableZip, zip)
	}
	return c, nil
}

// distanceKey builds a symmetric cache key so (a,b) and (b,a) share an entry.
func distanceKey(zipA, zipB string) string {
	if zipB < zipA {
		zipA, zipB = zipB, zipA
	}
	return fmt.Sprintf("geo:dist:%s:%s", zipA, zipB)
}

// haversineMiles computes the great-circle distance between two centroids.
func haversineMiles(a, b centroid) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
