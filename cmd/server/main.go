package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caretrials/trial-search-service/internal/adapter/googlemaps"
	"github.com/caretrials/trial-search-service/internal/adapter/httpapi"
	kafkaadapter "github.com/caretrials/trial-search-service/internal/adapter/kafka"
	"github.com/caretrials/trial-search-service/internal/adapter/registry"
	sqliteadapter "github.com/caretrials/trial-search-service/internal/adapter/sqlite"
	"github.com/caretrials/trial-search-service/internal/config"
	"github.com/caretrials/trial-search-service/internal/geocode"
	"github.com/caretrials/trial-search-service/internal/observability"
	"github.com/caretrials/trial-search-service/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Geocoding provider (feature-flagged via GOOGLE_MAPS_API_KEY). Without
	// it the resolver runs in offline-only mode.
	var provider geocode.Provider
	if cfg.GeocodeEnabled {
		provider = googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout, logger)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("google maps geocoding enabled", "timeout", cfg.GeocodeTimeout)
	} else {
		logger.Info("google maps geocoding disabled, offline resolver only")
	}

	geoCache := geocode.NewCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL)
	limiter := geocode.NewRateLimiter(cfg.GeocodeRateLimit, time.Second, nil)

	// Optional persistent geocode store; warms the in-memory cache at boot.
	var store geocode.Store
	if cfg.GeocodeCachePath != "" {
		geoStore, err := sqliteadapter.NewGeoStore(cfg.GeocodeCachePath)
		if err != nil {
			logger.Error("failed to open geocode store", "path", cfg.GeocodeCachePath, "error", err)
			os.Exit(1)
		}
		defer geoStore.Close()
		warmCache(geoStore, geoCache, logger)
		store = geoStore
	}

	resolver := geocode.NewResolver(provider, geoCache, limiter, store, metrics, logger)
	registryClient := registry.NewClient(cfg.RegistryBaseURL, cfg.RegistryTimeout, logger)
	searchCache := search.NewCache(cfg.SearchCacheSize, cfg.SearchCacheTTL, nil)

	var publisher search.Publisher
	if cfg.AuditEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("search audit stream enabled", "topic", cfg.KafkaAuditTopic)
	}

	pipeline := search.New(registryClient, resolver, searchCache, publisher, metrics, logger, search.Defaults{
		MaxResults:    cfg.DefaultMaxResults,
		DistanceLimit: cfg.DefaultDistanceLimit,
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, pipeline, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// warmCache loads persisted geocode results into the in-memory cache.
func warmCache(store *sqliteadapter.GeoStore, cache *geocode.Cache, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to warm geocode cache", "error", err)
		return
	}
	for key, result := range results {
		cache.Put(key, result)
	}
	logger.Info("geocode cache warmed", "entries", len(results))
}
