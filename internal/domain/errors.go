package domain

import "errors"

var (
	// ErrItemNotFound is returned when no store carries an item. Callers
	// recover per-item; it never aborts a whole comparison.
	ErrItemNotFound = errors.New("item not found in any store")

	// ErrUnresolvableZip is returned when a ZIP code is malformed or not
	// present in the centroid table.
	ErrUnresolvableZip = errors.New("zip code could not be resolved")

	// ErrMissingOrigin is returned by the stop optimizer when no origin
	// ZIP was supplied.
	ErrMissingOrigin = errors.New("origin zip code is required")

	// ErrUnresolvableOrigin is returned by the stop optimizer when the
	// supplied origin ZIP cannot be resolved.
	ErrUnresolvableOrigin = errors.New("origin zip code could not be resolved")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStoreNotFound is returned when a store id does not exist in the catalog
	ErrStoreNotFound = errors.New("store not found")

	// ErrCatalogUnavailable is returned when the catalog backend cannot be reached
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUpstreamTimeout is returned when a catalog or geo lookup exceeds
	// its per-request budget.
	ErrUpstreamTimeout = errors.New("upstream lookup timed out")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDirectoryFailure is returned when the store directory request fails
	ErrDirectoryFailure = errors.New("store directory request failed")
)
