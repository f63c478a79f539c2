package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Client reads the external store directory: the list of stores and the
// per-store product listings the engine compares prices over. The engine
// consumes this data read-only; uploads and flyers live in the directory
// service itself.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new store directory client. The directory tolerates
// about 2 requests per second from a single consumer.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// storePayload matches the directory's GET /stores rows.
type storePayload struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// storeDetailPayload matches GET /store/:id.
type storeDetailPayload struct {
	StoreName string `json:"store_name"`
	Products  []struct {
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity string      `json:"quantity,omitempty"`
	} `json:"products"`
}

// ListStores fetches every store in the directory.
func (c *Client) ListStores(ctx context.Context) ([]domain.Store, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/stores", c.baseURL))
	if err != nil {
		return nil, err
	}

	var payload []storePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode store list: %w", err)
	}

	stores := make([]domain.Store, 0, len(payload))
	for _, p := range payload {
		stores = append(stores, domain.Store{
			ID:        p.ID,
			Name:      p.Name,
			ZipCode:   p.ZipCode,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}

	if c.debug {
		log.Printf("[DIRECTORY] listed %d stores", len(stores))
	}
	return stores, nil
}

// GetStore fetches one store's product listing.
func (c *Client) GetStore(ctx context.Context, storeID uint) (*domain.StoreDetail, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/store/%d", c.baseURL, storeID))
	if err != nil {
		return nil, err
	}

	var payload storeDetailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode store detail: %w", err)
	}

	products := make([]domain.StoreProduct, 0, len(payload.Products))
	for _, p := range payload.Products {
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil {
			return nil, fmt.Errorf("%w: product %q has non-numeric price %q",
				domain.ErrDirectoryFailure, p.Name, p.Price.String())
		}
		products = append(products, domain.StoreProduct{Name: p.Name, Price: price, Quantity: p.Quantity})
	}

	return &domain.StoreDetail{
		Store:    domain.Store{ID: storeID, Name: payload.StoreName},
		Products: products,
	}, nil
}

// get executes a rate-limited GET with up to 3 attempts and exponential
// backoff on transient failures.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "Cartwise/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[DIRECTORY] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrDirectoryFailure, err)
			sleepBackoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrStoreNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[DIRECTORY] status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrDirectoryFailure, resp.StatusCode)
			sleepBackoff(ctx, attempt)
			continue
		}

		return body, nil
	}

	return nil, lastErr
}

// sleepBackoff waits 500ms, 1s, 2s between attempts, honoring cancellation.
func sleepBackoff(ctx context.Context, attempt int) {
	delay := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
