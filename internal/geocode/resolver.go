package geocode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/caretrials/trial-search-service/internal/domain"
	"github.com/caretrials/trial-search-service/internal/observability"
)

// Provider is an external geocoding API.
type Provider interface {
	Geocode(ctx context.Context, address string) (domain.GeocodeResult, error)
}

// Store persists geocode results across restarts. Implementations must be
// safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key string, result domain.GeocodeResult) error
}

// Resolver implements domain.Geocoder: cache first, then the rate-limited
// provider, then the deterministic offline fallback. Provider failures never
// reach the caller; every resolvable address gets coordinates one way or
// another.
type Resolver struct {
	provider Provider // nil in offline-only mode
	cache    *Cache
	limiter  *RateLimiter
	store    Store // optional write-through persistence
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewResolver wires a resolver. provider and store may be nil.
func NewResolver(provider Provider, cache *Cache, limiter *RateLimiter, store Store, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		cache:    cache,
		limiter:  limiter,
		store:    store,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve geocodes a free-text address. The second return value is false
// only for degenerate input; any real address resolves.
func (r *Resolver) Resolve(ctx context.Context, address string) (domain.GeocodeResult, bool) {
	trimmed := strings.TrimSpace(address)
	if strings.Trim(trimmed, ", ") == "" {
		return domain.GeocodeResult{}, false
	}

	key := NormalizeAddress(trimmed)
	if result, ok := r.cache.Get(key); ok {
		r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, true
	}
	r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	if r.provider != nil {
		if result, ok := r.resolveViaProvider(ctx, trimmed); ok {
			r.save(ctx, key, result)
			return result, true
		}
	}

	result := OfflineResolve(trimmed)
	r.metrics.GeocodeRequests.WithLabelValues("offline", "success").Inc()
	r.save(ctx, key, result)
	return result, true
}

func (r *Resolver) resolveViaProvider(ctx context.Context, address string) (domain.GeocodeResult, bool) {
	waitStart := time.Now()
	if err := r.limiter.Acquire(ctx); err != nil {
		r.logger.Warn("rate limiter wait aborted", "address", address, "error", err)
		return domain.GeocodeResult{}, false
	}
	r.metrics.GeocodeWait.Observe(time.Since(waitStart).Seconds())

	start := time.Now()
	result, err := r.provider.Geocode(ctx, address)
	r.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		r.logger.Warn("geocoding provider failed, using offline fallback",
			"address", address,
			"error", err,
		)
		r.metrics.GeocodeRequests.WithLabelValues("provider", "error").Inc()
		return domain.GeocodeResult{}, false
	}

	r.metrics.GeocodeRequests.WithLabelValues("provider", "success").Inc()
	return result, true
}

// save populates the in-memory cache and, when configured, the persistent
// store. Store failures are logged and otherwise ignored; the cache is the
// source of truth for this process.
func (r *Resolver) save(ctx context.Context, key string, result domain.GeocodeResult) {
	r.cache.Put(key, result)
	if r.store == nil {
		return
	}
	if err := r.store.Put(ctx, key, result); err != nil {
		r.logger.Warn("persist geocode result failed", "key", key, "error", err)
	}
}
