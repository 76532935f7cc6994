package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caretrials/trial-search-service/internal/adapter/registry"
	"github.com/caretrials/trial-search-service/internal/domain"
	"github.com/caretrials/trial-search-service/internal/observability"
)

// ErrMissingCondition rejects a search with no condition before any
// external call is made.
var ErrMissingCondition = errors.New("condition is required")

// maxProcessedLocations caps per-trial geocoding work. Sites beyond the cap
// are summarized as a single "+N more locations" entry.
const maxProcessedLocations = 3

// RegistryClient queries the external trial registry.
type RegistryClient interface {
	Search(ctx context.Context, query registry.SearchQuery) ([]registry.Study, error)
}

// Publisher emits search audit events. Implementations must not block
// searches on delivery problems beyond returning an error.
type Publisher interface {
	Publish(ctx context.Context, event domain.SearchEvent) error
}

// Query is one search request. Zero MaxResults and DistanceLimit take the
// configured defaults.
type Query struct {
	Condition     string
	Location      string
	MaxResults    int
	DistanceLimit float64
}

// Defaults are applied to queries that omit optional parameters.
type Defaults struct {
	MaxResults    int
	DistanceLimit float64
}

// Pipeline orchestrates a trial search: result cache, user geocoding,
// registry query, per-study normalization and location enrichment,
// proximity filtering, and cache population.
type Pipeline struct {
	registry  RegistryClient
	geocoder  domain.Geocoder
	cache     *Cache
	publisher Publisher // nil disables auditing
	metrics   *observability.Metrics
	logger    *slog.Logger
	defaults  Defaults
}

// New creates a Pipeline with the given collaborators.
func New(reg RegistryClient, geocoder domain.Geocoder, cache *Cache, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger, defaults Defaults) *Pipeline {
	return &Pipeline{
		registry:  reg,
		geocoder:  geocoder,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		defaults:  defaults,
	}
}

// CheckReadiness reports whether the pipeline can serve searches. The
// pipeline is request-driven and fully wired at construction, so it is
// always ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	return nil
}

// Search runs one trial search. It returns ErrMissingCondition for empty
// conditions, *registry.UpstreamError when the registry answers non-200,
// and a wrapped error for anything else unexpected. Per-study failures are
// logged and skipped, never fatal.
func (p *Pipeline) Search(ctx context.Context, q Query) ([]domain.Trial, error) {
	start := time.Now()
	defer func() {
		p.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(q.Condition) == "" {
		p.metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrMissingCondition
	}
	if q.MaxResults <= 0 {
		q.MaxResults = p.defaults.MaxResults
	}
	if q.DistanceLimit <= 0 {
		q.DistanceLimit = p.defaults.DistanceLimit
	}

	key := Fingerprint(q)
	if results, ok := p.cache.Get(key); ok {
		p.metrics.SearchCache.WithLabelValues("hit").Inc()
		p.metrics.SearchesTotal.WithLabelValues("success").Inc()
		p.publish(ctx, q, len(results), true, start)
		return results, nil
	}
	p.metrics.SearchCache.WithLabelValues("miss").Inc()

	userCity, userCoord := p.resolveUserLocation(ctx, q.Location)

	registryStart := time.Now()
	studies, err := p.registry.Search(ctx, registry.SearchQuery{
		Condition: q.Condition,
		City:      userCity,
		// Over-fetch so proximity filtering still leaves enough results.
		PageSize: 2 * q.MaxResults,
	})
	p.metrics.RegistryDuration.Observe(time.Since(registryStart).Seconds())
	if err != nil {
		p.metrics.RegistryRequests.WithLabelValues("error").Inc()
		var upstream *registry.UpstreamError
		if errors.As(err, &upstream) {
			p.metrics.SearchesTotal.WithLabelValues("upstream_error").Inc()
			p.logger.Error("trial registry unavailable", "status", upstream.StatusCode)
			return nil, err
		}
		p.metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search trials: %w", err)
	}
	p.metrics.RegistryRequests.WithLabelValues("success").Inc()

	trials := make([]domain.Trial, 0, len(studies))
	for _, study := range studies {
		trial, err := p.processStudy(ctx, study, userCity, userCoord)
		if err != nil {
			p.logger.Warn("skipping study", "error", err)
			p.metrics.StudiesSkipped.Inc()
			continue
		}
		if includeTrial(trial, userCoord, q.DistanceLimit) {
			trials = append(trials, trial)
		}
	}

	p.cache.Put(key, trials)
	p.metrics.SearchesTotal.WithLabelValues("success").Inc()
	p.publish(ctx, q, len(trials), false, start)

	p.logger.Info("search completed",
		"condition", q.Condition,
		"location", q.Location,
		"studies", len(studies),
		"results", len(trials),
	)
	return trials, nil
}

// resolveUserLocation parses the city from a free-text location and resolves
// the full location to a coordinate. An unresolvable location is not fatal;
// the search proceeds without distance filtering.
func (p *Pipeline) resolveUserLocation(ctx context.Context, location string) (string, *domain.Coordinate) {
	if strings.TrimSpace(location) == "" {
		return "", nil
	}
	city := parseCity(location)
	result, ok := p.geocoder.Resolve(ctx, location)
	if !ok {
		return city, nil
	}
	coord := result.Coordinate
	return city, &coord
}

// processStudy normalizes one raw study and enriches its locations. A record
// that failed to decode, or a panic while picking apart a malformed one, is
// converted to an error so the study is skipped instead of aborting the
// whole search.
func (p *Pipeline) processStudy(ctx context.Context, study registry.Study, userCity string, userCoord *domain.Coordinate) (trial domain.Trial, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("process study %q: %v", trial.ID, r)
		}
	}()

	if study.DecodeErr != nil {
		return domain.Trial{}, fmt.Errorf("malformed study record: %w", study.DecodeErr)
	}

	trial = normalizeStudy(study)
	trial.Locations, trial.Distance = p.processLocations(ctx, study.ProtocolSection.Contacts.Locations, userCity, userCoord)
	return trial, nil
}

// processLocations enriches up to maxProcessedLocations sites with
// coordinates and distances, same-city sites first, and summarizes the
// rest. It returns the processed locations and the minimum distance across
// them, nil when none was computable.
func (p *Pipeline) processLocations(ctx context.Context, raw []registry.StudyLocation, userCity string, userCoord *domain.Coordinate) ([]domain.TrialLocation, *float64) {
	if len(raw) == 0 {
		return []domain.TrialLocation{{Facility: "Location not specified"}}, nil
	}

	ordered := orderByCity(raw, userCity)
	limit := len(ordered)
	if limit > maxProcessedLocations {
		limit = maxProcessedLocations
	}

	locations := make([]domain.TrialLocation, 0, limit+1)
	var minDistance *float64

	for _, site := range ordered[:limit] {
		loc := domain.TrialLocation{
			Facility: site.Facility.Name,
			City:     site.City,
			State:    site.State,
			Country:  site.Country,
			Zip:      site.Zip,
		}

		if address := joinAddress(site.City, site.State, site.Country); address != "" {
			if result, ok := p.geocoder.Resolve(ctx, address); ok {
				lat, lng := result.Coordinate.Lat, result.Coordinate.Lng
				loc.Latitude = &lat
				loc.Longitude = &lng

				if userCoord != nil {
					d := domain.Distance(*userCoord, result.Coordinate)
					loc.Distance = &d
					if minDistance == nil || d < *minDistance {
						v := d
						minDistance = &v
					}
				}
			}
		}

		locations = append(locations, loc)
	}

	if remaining := len(ordered) - limit; remaining > 0 {
		locations = append(locations, domain.TrialLocation{
			Facility: fmt.Sprintf("+%d more locations", remaining),
		})
	}

	return locations, minDistance
}

// includeTrial applies the proximity filter. The filter is deliberately
// inclusive: a trial is only dropped when distances WERE computable and all
// of them exceed the limit. Unresolvable user locations and trials with no
// geographic data pass through rather than being discarded on uncertainty.
func includeTrial(trial domain.Trial, userCoord *domain.Coordinate, distanceLimit float64) bool {
	if userCoord == nil {
		return true
	}
	if trial.Distance == nil {
		return true
	}
	for _, loc := range trial.Locations {
		if loc.Distance != nil && *loc.Distance <= distanceLimit {
			return true
		}
	}
	return false
}

// publish emits an audit event when a publisher is configured. Failures are
// logged and never affect the search result.
func (p *Pipeline) publish(ctx context.Context, q Query, results int, cacheHit bool, start time.Time) {
	if p.publisher == nil {
		return
	}
	event := domain.SearchEvent{
		ID:         uuid.NewString(),
		Condition:  q.Condition,
		Location:   q.Location,
		Results:    results,
		CacheHit:   cacheHit,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("publish search event failed", "error", err)
	}
}
