package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/cartwise/backend/internal/domain"
)

// Sync refreshes the local catalog from the external store directory.
// It pulls the store list, then each store's product listing, and swaps
// the catalog contents in one transaction. Runs at startup (and from any
// scheduler the operator wires up); request handlers never trigger it.
func Sync(ctx context.Context, repo *Repository, dir domain.DirectoryClient) error {
	stores, err := dir.ListStores(ctx)
	if err != nil {
		return fmt.Errorf("directory sync: %w", err)
	}

	var offers []domain.Offer
	for _, store := range stores {
		detail, err := dir.GetStore(ctx, store.ID)
		if err != nil {
			return fmt.Errorf("directory sync: store %d: %w", store.ID, err)
		}
		for _, product := range detail.Products {
			offers = append(offers, domain.Offer{
				Item:      product.Name,
				StoreID:   store.ID,
				StoreName: store.Name,
				StoreZip:  store.ZipCode,
				Price:     product.Price,
				Quantity:  product.Quantity,
			})
		}
	}

	if err := repo.ReplaceAll(ctx, stores, offers); err != nil {
		return fmt.Errorf("directory sync: %w", err)
	}

	log.Printf("[CATALOG] synced %d stores, %d offers from directory", len(stores), len(offers))
	return nil
}
