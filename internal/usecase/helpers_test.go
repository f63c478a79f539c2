package usecase

import (
	"context"
	"fmt"

	"github.com/cartwise/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// stubCatalogRepo serves a fixed snapshot, like a catalog whose writer is idle.
type stubCatalogRepo struct {
	catalog *domain.Catalog
	err     error
}

func (s *stubCatalogRepo) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog, nil
}

func (s *stubCatalogRepo) StoreDetail(ctx context.Context, storeID uint) (*domain.StoreDetail, error) {
	return nil, domain.ErrStoreNotFound
}

// stubResolver resolves distances from a fixed zip->miles-from-anchor table.
// Any ZIP absent from the table is unresolvable.
type stubResolver struct {
	miles map[string]float64
}

func (s *stubResolver) Distance(ctx context.Context, zipA, zipB string) (float64, error) {
	a, okA := s.miles[zipA]
	if !okA {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnresolvableZip, zipA)
	}
	b, okB := s.miles[zipB]
	if !okB {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnresolvableZip, zipB)
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func offer(item string, storeID uint, storeName, storeZip, p string) domain.Offer {
	return domain.Offer{
		Item:      item,
		StoreID:   storeID,
		StoreName: storeName,
		StoreZip:  storeZip,
		Price:     price(p),
	}
}

// twoStoreCatalog is the milk/eggs/bread fixture: StoreA in 10002,
// StoreB in 10005, origin expected at 10001.
func twoStoreCatalog() *domain.Catalog {
	stores := []domain.Store{
		{ID: 1, Name: "StoreA", ZipCode: "10002"},
		{ID: 2, Name: "StoreB", ZipCode: "10005"},
	}
	offers := []domain.Offer{
		offer("milk", 1, "StoreA", "10002", "3"),
		offer("eggs", 1, "StoreA", "10002", "2"),
		offer("bread", 1, "StoreA", "10002", "4"),
		offer("milk", 2, "StoreB", "10005", "2.5"),
		offer("eggs", 2, "StoreB", "10005", "2.5"),
		offer("bread", 2, "StoreB", "10005", "3"),
	}
	return domain.NewCatalog(stores, offers)
}

// nycResolver places 10001 at mile 0, 10002 one mile out, 10005 three miles out.
func nycResolver() *stubResolver {
	return &stubResolver{miles: map[string]float64{
		"10001": 0,
		"10002": 1,
		"10005": 3,
	}}
}
