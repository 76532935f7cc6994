// Package httpapi exposes the trial search pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caretrials/trial-search-service/internal/adapter/registry"
	"github.com/caretrials/trial-search-service/internal/domain"
	"github.com/caretrials/trial-search-service/internal/search"
)

// TrialSearcher runs trial searches and reports readiness.
type TrialSearcher interface {
	Search(ctx context.Context, q search.Query) ([]domain.Trial, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the search API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	searcher   TrialSearcher
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, searcher TrialSearcher, logger *slog.Logger) *Server {
	s := &Server{
		searcher: searcher,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.Use(requestID, requestLogging(logger))

	router.HandleFunc("/api/trials/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	trials, err := s.searcher.Search(r.Context(), q)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trials)
}

// parseSearchQuery validates query parameters. Malformed numeric parameters
// are client errors; absent ones fall back to the pipeline defaults.
func parseSearchQuery(r *http.Request) (search.Query, error) {
	params := r.URL.Query()
	q := search.Query{
		Condition: params.Get("condition"),
		Location:  params.Get("location"),
	}
	if q.Condition == "" {
		return search.Query{}, errors.New("Condition parameter is required")
	}
	if v := params.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return search.Query{}, errors.New("max_results must be a positive integer")
		}
		q.MaxResults = n
	}
	if v := params.Get("distance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return search.Query{}, errors.New("distance must be a positive number")
		}
		q.DistanceLimit = f
	}
	return q, nil
}

func (s *Server) writeSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, search.ErrMissingCondition) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Condition parameter is required"})
		return
	}
	var upstream *registry.UpstreamError
	if errors.As(err, &upstream) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Failed to fetch trials from registry",
			"details": upstream.Error(),
		})
		return
	}
	s.logger.Error("search failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.searcher.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
