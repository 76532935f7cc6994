package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Trial registry (ClinicalTrials.gov v2).
	RegistryBaseURL string
	RegistryTimeout time.Duration

	// Geocoding provider configuration. An empty API key means offline-only
	// mode; the deterministic fallback resolver still answers every address.
	GoogleMapsAPIKey string
	GeocodeEnabled   bool
	GeocodeTimeout   time.Duration
	GeocodeRateLimit int
	GeocodeCacheSize int
	GeocodeCacheTTL  time.Duration
	GeocodeCachePath string

	// Search result cache.
	SearchCacheTTL  time.Duration
	SearchCacheSize int

	// Search defaults applied when the caller omits the parameters.
	DefaultMaxResults    int
	DefaultDistanceLimit float64

	// Optional search audit stream. Disabled when no brokers are set.
	KafkaBrokers    []string
	KafkaAuditTopic string
	AuditEnabled    bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	registryTimeout, err := parseDuration("REGISTRY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	searchCacheTTL, err := parseDuration("SEARCH_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	geocodeCacheTTL, err := parseOptionalDuration("GEOCODE_CACHE_TTL")
	if err != nil {
		return nil, err
	}

	rateLimit, err := parsePositiveInt("GEOCODE_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	geocodeCacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	searchCacheSize, err := parsePositiveInt("SEARCH_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	maxResults, err := parsePositiveInt("DEFAULT_MAX_RESULTS", 20)
	if err != nil {
		return nil, err
	}
	distanceLimit, err := parsePositiveFloat("DEFAULT_DISTANCE_LIMIT", 50)
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	geocodeEnabled := apiKey != ""
	if v := os.Getenv("GEOCODE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GEOCODE_ENABLED: must be a boolean")
		}
		geocodeEnabled = b
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RegistryBaseURL: envOrDefault("REGISTRY_BASE_URL", "https://clinicaltrials.gov/api/v2/studies"),
		RegistryTimeout: registryTimeout,

		GoogleMapsAPIKey: apiKey,
		GeocodeEnabled:   geocodeEnabled,
		GeocodeTimeout:   geocodeTimeout,
		GeocodeRateLimit: rateLimit,
		GeocodeCacheSize: geocodeCacheSize,
		GeocodeCacheTTL:  geocodeCacheTTL,
		GeocodeCachePath: os.Getenv("GEOCODE_CACHE_PATH"),

		SearchCacheTTL:  searchCacheTTL,
		SearchCacheSize: searchCacheSize,

		DefaultMaxResults:    maxResults,
		DefaultDistanceLimit: distanceLimit,

		KafkaBrokers:    brokers,
		KafkaAuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "trial-search-audit"),
		AuditEnabled:    len(brokers) > 0,
	}

	if cfg.RegistryBaseURL == "" {
		return nil, fmt.Errorf("REGISTRY_BASE_URL must not be empty")
	}
	if cfg.GeocodeEnabled && cfg.GoogleMapsAPIKey == "" {
		return nil, fmt.Errorf("GEOCODE_ENABLED is true but GOOGLE_MAPS_API_KEY is not set")
	}
	if cfg.AuditEnabled && cfg.KafkaAuditTopic == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS is set but KAFKA_AUDIT_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

// parseOptionalDuration treats unset or "0" as disabled (zero duration).
func parseOptionalDuration(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative duration", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return f, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
