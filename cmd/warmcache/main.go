// Command warmcache resolves a newline-separated address list into the
// persistent geocode store so a fresh deployment starts with a full cache.
//
// Usage:
//
//	warmcache -store geocode.db -addresses addresses.txt
//
// With GOOGLE_MAPS_API_KEY set, addresses resolve through the provider at
// the configured rate limit; otherwise the offline resolver is used.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caretrials/trial-search-service/internal/adapter/googlemaps"
	sqliteadapter "github.com/caretrials/trial-search-service/internal/adapter/sqlite"
	"github.com/caretrials/trial-search-service/internal/config"
	"github.com/caretrials/trial-search-service/internal/geocode"
	"github.com/caretrials/trial-search-service/internal/observability"
)

func main() {
	storePath := flag.String("store", "", "path to the sqlite geocode store")
	addressFile := flag.String("addresses", "", "newline-separated address list")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	if *storePath == "" || *addressFile == "" {
		logger.Error("both -store and -addresses are required")
		os.Exit(1)
	}

	addresses, err := readAddresses(*addressFile)
	if err != nil {
		logger.Error("failed to read address list", "path", *addressFile, "error", err)
		os.Exit(1)
	}
	if len(addresses) == 0 {
		logger.Info("no addresses to resolve")
		return
	}

	store, err := sqliteadapter.NewGeoStore(*storePath)
	if err != nil {
		logger.Error("failed to open geocode store", "path", *storePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var provider geocode.Provider
	if cfg.GeocodeEnabled {
		provider = googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout, logger)
	}

	metrics := observability.NewMetrics()
	cache := geocode.NewCache(len(addresses), 0)
	limiter := geocode.NewRateLimiter(cfg.GeocodeRateLimit, time.Second, nil)
	resolver := geocode.NewResolver(provider, cache, limiter, store, metrics, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	resolved := 0
	for _, address := range addresses {
		if _, ok := resolver.Resolve(ctx, address); ok {
			resolved++
		}
	}
	logger.Info("warm complete", "addresses", len(addresses), "resolved", resolved)
}

func readAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	return addresses, scanner.Err()
}
