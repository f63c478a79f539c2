package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/backend/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)

	repo, err := NewRepository(db)
	require.NoError(t, err)
	return repo
}

func seedTestCatalog(t *testing.T, repo *Repository) {
	t.Helper()
	stores := []domain.Store{
		{ID: 1, Name: "Corner Grocer", ZipCode: "10002"},
		{ID: 2, Name: "Budget Foods", ZipCode: "10005"},
	}
	offers := []domain.Offer{
		{Item: "milk", StoreID: 1, Price: decimal.RequireFromString("3.00"), Quantity: "1 gal"},
		{Item: "bread", StoreID: 1, Price: decimal.RequireFromString("4.00")},
		{Item: "milk", StoreID: 2, Price: decimal.RequireFromString("2.50"), Quantity: "1 gal"},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), stores, offers))
}

func TestRepositorySnapshot(t *testing.T) {
	repo := newTestRepository(t)
	seedTestCatalog(t, repo)

	catalog, err := repo.Snapshot(context.Background())
	require.NoError(t, err)

	stores := catalog.Stores()
	require.Len(t, stores, 2)
	assert.Equal(t, "Corner Grocer", stores[0].Name)
	assert.Equal(t, "Budget Foods", stores[1].Name)

	// Store name and ZIP are denormalized onto each offer.
	offers := catalog.OffersFor("milk")
	require.Len(t, offers, 2)
	assert.Equal(t, "Budget Foods", offers[0].StoreName)
	assert.Equal(t, "10005", offers[0].StoreZip)
	assert.True(t, offers[0].Price.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, "Corner Grocer", offers[1].StoreName)
}

func TestRepositorySnapshotEmpty(t *testing.T) {
	repo := newTestRepository(t)

	catalog, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog.Stores())
	assert.Empty(t, catalog.Items())
}

func TestRepositorySnapshotInvalidPrice(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.db.Create(&storeRecord{ID: 1, Name: "Corner Grocer", ZipCode: "10002"}).Error)
	require.NoError(t, repo.db.Create(&productRecord{StoreID: 1, Name: "milk", Price: "not-a-price"}).Error)

	_, err := repo.Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
}

func TestRepositorySnapshotSkipsOrphanedProducts(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.db.Create(&storeRecord{ID: 1, Name: "Corner Grocer", ZipCode: "10002"}).Error)
	require.NoError(t, repo.db.Create(&productRecord{StoreID: 1, Name: "milk", Price: "3.00"}).Error)
	require.NoError(t, repo.db.Create(&productRecord{StoreID: 99, Name: "ghost", Price: "1.00"}).Error)

	catalog, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, catalog.Items())
}

func TestRepositoryStoreDetail(t *testing.T) {
	repo := newTestRepository(t)
	seedTestCatalog(t, repo)

	detail, err := repo.StoreDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Corner Grocer", detail.Store.Name)

	// Products come back ordered by name.
	require.Len(t, detail.Products, 2)
	assert.Equal(t, "bread", detail.Products[0].Name)
	assert.Equal(t, "milk", detail.Products[1].Name)
	assert.Equal(t, "1 gal", detail.Products[1].Quantity)
}

func TestRepositoryStoreDetailNotFound(t *testing.T) {
	repo := newTestRepository(t)
	seedTestCatalog(t, repo)

	_, err := repo.StoreDetail(context.Background(), 42)
	assert.True(t, errors.Is(err, domain.ErrStoreNotFound))
}

func TestRepositoryReplaceAll(t *testing.T) {
	repo := newTestRepository(t)
	seedTestCatalog(t, repo)

	// A second sync fully replaces the previous contents.
	stores := []domain.Store{{ID: 3, Name: "Fresh Mart", ZipCode: "10001"}}
	offers := []domain.Offer{
		{Item: "eggs", StoreID: 3, Price: decimal.RequireFromString("2.25")},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), stores, offers))

	catalog, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Stores(), 1)
	assert.Equal(t, "Fresh Mart", catalog.Stores()[0].Name)
	assert.Equal(t, []string{"eggs"}, catalog.Items())
	assert.Empty(t, catalog.OffersFor("milk"))
}
