package domain

import (
	"context"
	"time"
)

// CatalogRepository hands out immutable catalog snapshots. Mutation (new
// prices uploaded) happens in the catalog writer, outside this engine.
type CatalogRepository interface {
	Snapshot(ctx context.Context) (*Catalog, error)
	StoreDetail(ctx context.Context, storeID uint) (*StoreDetail, error)
}

// ZipResolver converts two ZIP codes into a distance in miles. Must be
// symmetric, with Distance(a, a) == 0, and side effect free.
type ZipResolver interface {
	Distance(ctx context.Context, zipA, zipB string) (float64, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DirectoryClient reads the external store directory the engine consumes
// but does not own: the store list and per-store product listings.
type DirectoryClient interface {
	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, storeID uint) (*StoreDetail, error)
}
