package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/cartwise/backend/config"
	httpDelivery "github.com/cartwise/backend/internal/delivery/http"
	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/infrastructure/cache"
	"github.com/cartwise/backend/internal/infrastructure/catalog"
	"github.com/cartwise/backend/internal/infrastructure/directory"
	"github.com/cartwise/backend/internal/infrastructure/geo"
	"github.com/cartwise/backend/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Cartwise Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog DSN: %s", cfg.Catalog.DSN)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	var cacheRepo domain.CacheRepository
	var redisCache *cache.RedisCache
	if cfg.Cache.Type == "redis" {
		redisCache, err = cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cacheRepo = redisCache
		log.Printf("Redis cache connected: %s", cfg.Cache.RedisURL)
	} else {
		cacheRepo = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	db, err := catalog.Open(cfg.Catalog.DSN)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	catalogRepo, err := catalog.NewRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize catalog repository: %v", err)
	}

	// Pull the latest store data from the directory before serving
	if cfg.Catalog.SyncOnStart {
		dirClient := directory.NewClient(cfg.Catalog.DirectoryURL)
		if cfg.Server.Environment == "development" {
			dirClient.SetDebug(true)
			log.Printf("Directory client debug mode enabled")
		}
		syncCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := catalog.Sync(syncCtx, catalogRepo, dirClient); err != nil {
			log.Printf("WARNING: directory sync failed, serving existing catalog: %v", err)
		}
		cancel()
	}

	geoResolver := geo.NewResolver(cacheRepo)

	// Initialize usecase layer
	lookupService := usecase.NewLookupService(usecase.LookupConfig{
		EnableFuzzyMatching: cfg.Lookup.EnableFuzzyMatching,
		FuzzyEditDistance:   cfg.Lookup.FuzzyEditDistance,
		EnableDebugLogging:  cfg.Server.Environment == "development",
	})
	comparisonService := usecase.NewComparisonService(
		catalogRepo,
		lookupService,
		geoResolver,
		usecase.ComparisonConfig{
			LookupTimeout: cfg.Optimizer.LookupTimeout,
			MaxItems:      cfg.Optimizer.MaxItems,
		},
	)
	optimizerService := usecase.NewOptimizerService(
		catalogRepo,
		lookupService,
		geoResolver,
		usecase.OptimizerConfig{
			LookupTimeout: cfg.Optimizer.LookupTimeout,
			MaxItems:      cfg.Optimizer.MaxItems,
		},
	)

	log.Printf("Lookup: fuzzy=%v, edit_distance=%d",
		cfg.Lookup.EnableFuzzyMatching,
		cfg.Lookup.FuzzyEditDistance)
	log.Printf("Optimizer: lookup_timeout=%s, max_items=%d",
		cfg.Optimizer.LookupTimeout,
		cfg.Optimizer.MaxItems)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, optimizerService, lookupService, catalogRepo, geoResolver)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	ops := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.Println("Graceful shutdown initiated...")
			return server.Shutdown(ctx)
		},
	}
	if redisCache != nil {
		ops["redis"] = func(ctx context.Context) error {
			return redisCache.Close()
		}
	}
	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, ops)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
