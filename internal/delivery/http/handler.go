package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison *usecase.ComparisonService
	optimizer  *usecase.OptimizerService
	lookup     *usecase.LookupService
	catalog    domain.CatalogRepository
	geo        domain.ZipResolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	comparison *usecase.ComparisonService,
	optimizer *usecase.OptimizerService,
	lookup *usecase.LookupService,
	catalog domain.CatalogRepository,
	geo domain.ZipResolver,
) *Handler {
	return &Handler{
		comparison: comparison,
		optimizer:  optimizer,
		lookup:     lookup,
		catalog:    catalog,
		geo:        geo,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartwise-backend",
		"version": "1.0.0",
	})
}

// basketRequest is the shared request body of the two optimization
// endpoints: the grocery list plus the shopper's origin ZIP.
type basketRequest struct {
	Items     []string `json:"items"`
	OriginZip string   `json:"userZip"`
}

// ComparePrices builds a per-item price comparison across all stores.
func (h *Handler) ComparePrices(c *gin.Context) {
	var req basketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.comparison.Compare(c.Request.Context(), req.Items, req.OriginZip)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCompareResponse(result))
}

// OptimizeStops builds the three alternative shopping plans for a basket.
func (h *Handler) OptimizeStops(c *gin.Context) {
	var req basketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.optimizer.Optimize(c.Request.Context(), req.Items, req.OriginZip)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOptimizeResponse(result))
}

// ListStores returns every store in the catalog.
func (h *Handler) ListStores(c *gin.Context) {
	catalog, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	stores := make([]storeResponse, 0, len(catalog.Stores()))
	for _, s := range catalog.Stores() {
		stores = append(stores, storeResponse{
			ID:      s.ID,
			Name:    s.Name,
			ZipCode: s.ZipCode,
		})
	}
	c.JSON(http.StatusOK, stores)
}

// StoresByDistance returns every store ordered by distance from the
// given ZIP. Stores whose own ZIP cannot be resolved sort last.
func (h *Handler) StoresByDistance(c *gin.Context) {
	originZip := c.Param("zip")
	ctx := c.Request.Context()

	if _, err := h.geo.Distance(ctx, originZip, originZip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown ZIP code: " + originZip,
		})
		return
	}

	catalog, err := h.catalog.Snapshot(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	stores := make([]storeResponse, 0, len(catalog.Stores()))
	for _, s := range catalog.Stores() {
		entry := storeResponse{ID: s.ID, Name: s.Name, ZipCode: s.ZipCode}
		if miles, err := h.geo.Distance(ctx, originZip, s.ZipCode); err == nil {
			d := miles
			entry.Distance = &d
		}
		stores = append(stores, entry)
	}

	sort.SliceStable(stores, func(i, j int) bool {
		di, dj := stores[i].Distance, stores[j].Distance
		if (di == nil) != (dj == nil) {
			return di != nil
		}
		if di == nil {
			return stores[i].Name < stores[j].Name
		}
		return *di < *dj
	})

	c.JSON(http.StatusOK, stores)
}

// StoreByID returns one store with its full product list.
func (h *Handler) StoreByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid store id: " + c.Param("id"),
		})
		return
	}

	detail, err := h.catalog.StoreDetail(c.Request.Context(), uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}

	products := make([]gin.H, 0, len(detail.Products))
	for _, p := range detail.Products {
		products = append(products, gin.H{
			"name":     p.Name,
			"price":    p.Price.InexactFloat64(),
			"quantity": p.Quantity,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       detail.Store.ID,
		"name":     detail.Store.Name,
		"zip_code": detail.Store.ZipCode,
		"products": products,
	})
}

// SearchProducts handles the legacy comma-separated product search. Every
// queried item appears in the result, with an empty store list when
// nobody carries it.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing query parameter",
		})
		return
	}

	catalog, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]legacyItemResult, 0)
	for _, raw := range strings.Split(query, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		results = append(results, legacyItemResult{
			Name:   name,
			Stores: h.legacyOffers(c, catalog, name),
		})
	}
	c.JSON(http.StatusOK, results)
}

type checkProductsRequest struct {
	Items []string `json:"items"`
}

// CheckProducts handles the legacy batch availability check. Unlike
// SearchProducts it omits items nobody carries.
func (h *Handler) CheckProducts(c *gin.Context) {
	var req checkProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	catalog, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]legacyItemResult, 0)
	for _, raw := range req.Items {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		stores := h.legacyOffers(c, catalog, name)
		if len(stores) == 0 {
			continue
		}
		results = append(results, legacyItemResult{Name: name, Stores: stores})
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) legacyOffers(c *gin.Context, catalog *domain.Catalog, name string) []legacyStorePrice {
	offers := h.lookup.OffersFor(c.Request.Context(), catalog, name)
	stores := make([]legacyStorePrice, 0, len(offers))
	for _, o := range offers {
		stores = append(stores, legacyStorePrice{
			Store: o.StoreName,
			Price: o.Price.InexactFloat64(),
			Zip:   o.StoreZip,
		})
	}
	return stores
}

// respondError maps domain errors to HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrMissingOrigin),
		errors.Is(err, domain.ErrUnresolvableOrigin):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
