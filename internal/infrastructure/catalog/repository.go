package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartwise/backend/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storeRecord mirrors the stores table of the catalog writer.
type storeRecord struct {
	ID        uint     `gorm:"primarykey"`
	Name      string   `gorm:"size:200;not null;index"`
	ZipCode   string   `gorm:"size:10;not null"`
	Latitude  *float64
	Longitude *float64
}

func (storeRecord) TableName() string {
	return "stores"
}

// productRecord is one priced product row. Price is stored as text and
// parsed with shopspring/decimal so totals never accumulate float drift.
type productRecord struct {
	ID       uint   `gorm:"primarykey"`
	StoreID  uint   `gorm:"not null;index"`
	Name     string `gorm:"size:200;not null;index"`
	Price    string `gorm:"size:32;not null"`
	Quantity string `gorm:"size:64"`
}

func (productRecord) TableName() string {
	return "products"
}

// Repository provides read access to the store/offer catalog backed by
// SQLite through GORM. The engine only ever reads; ReplaceAll exists for
// directory sync and test seeding.
type Repository struct {
	db *gorm.DB
}

// Open opens (or creates) the catalog database at the given DSN.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	return db, nil
}

// NewRepository creates a catalog repository and migrates its schema.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&storeRecord{}, &productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Snapshot loads the full catalog into an immutable in-memory snapshot.
// Every request gets its own snapshot at entry, so a comparison never sees
// a price change itself mid-computation.
func (r *Repository) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	var storeRecords []storeRecord
	if err := r.db.WithContext(ctx).Find(&storeRecords).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	var productRecords []productRecord
	if err := r.db.WithContext(ctx).Find(&productRecords).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	stores := make([]domain.Store, 0, len(storeRecords))
	byID := make(map[uint]*storeRecord, len(storeRecords))
	for i := range storeRecords {
		rec := &storeRecords[i]
		byID[rec.ID] = rec
		stores = append(stores, domain.Store{
			ID:        rec.ID,
			Name:      rec.Name,
			ZipCode:   rec.ZipCode,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		})
	}

	offers := make([]domain.Offer, 0, len(productRecords))
	for _, rec := range productRecords {
		store, ok := byID[rec.StoreID]
		if !ok {
			// Orphaned product row; skip rather than invent a store.
			continue
		}
		price, err := decimal.NewFromString(rec.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: product %q has invalid price %q",
				domain.ErrInvalidRequest, rec.Name, rec.Price)
		}
		offers = append(offers, domain.Offer{
			Item:      rec.Name,
			StoreID:   rec.StoreID,
			StoreName: store.Name,
			StoreZip:  store.ZipCode,
			Price:     price,
			Quantity:  rec.Quantity,
		})
	}

	return domain.NewCatalog(stores, offers), nil
}

// StoreDetail returns a single store with everything it carries.
func (r *Repository) StoreDetail(ctx context.Context, storeID uint) (*domain.StoreDetail, error) {
	var rec storeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	var productRecords []productRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name asc").
		Find(&productRecords).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	products := make([]domain.StoreProduct, 0, len(productRecords))
	for _, p := range productRecords {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: product %q has invalid price %q",
				domain.ErrInvalidRequest, p.Name, p.Price)
		}
		products = append(products, domain.StoreProduct{Name: p.Name, Price: price, Quantity: p.Quantity})
	}

	return &domain.StoreDetail{
		Store: domain.Store{
			ID:        rec.ID,
			Name:      rec.Name,
			ZipCode:   rec.ZipCode,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		},
		Products: products,
	}, nil
}

// ReplaceAll swaps the entire catalog contents in one transaction. Used by
// the store-directory sync and by tests; request handlers never write.
func (r *Repository) ReplaceAll(ctx context.Context, stores []domain.Store, offers []domain.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&productRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&storeRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear stores: %w", err)
		}

		for _, s := range stores {
			rec := storeRecord{
				ID:        s.ID,
				Name:      s.Name,
				ZipCode:   s.ZipCode,
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to create store %q: %w", s.Name, err)
			}
		}

		for _, o := range offers {
			rec := productRecord{
				StoreID:  o.StoreID,
				Name:     o.Item,
				Price:    o.Price.String(),
				Quantity: o.Quantity,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to create product %q: %w", o.Item, err)
			}
		}

		return nil
	})
}
