// Package sqlite persists geocode results so repeated deployments do not
// re-spend provider quota on addresses already resolved.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/caretrials/trial-search-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS geocode_results (
	address           TEXT PRIMARY KEY,
	lat               REAL NOT NULL,
	lng               REAL NOT NULL,
	formatted_address TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);`

// GeoStore is a sqlite-backed geocode result store keyed by normalized
// address. It implements geocode.Store.
type GeoStore struct {
	db *sql.DB
}

// NewGeoStore opens (creating if needed) the database at path and ensures
// the schema exists.
func NewGeoStore(path string) (*GeoStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open geocode store: %w", err)
	}
	// modernc sqlite serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent Puts.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create geocode schema: %w", err)
	}
	return &GeoStore{db: db}, nil
}

// Put upserts one geocode result under its normalized address key.
func (s *GeoStore) Put(ctx context.Context, key string, result domain.GeocodeResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_results(address, lat, lng, formatted_address, updated_at)
		 VALUES(?,?,?,?,?)
		 ON CONFLICT(address) DO UPDATE SET
		   lat=excluded.lat,
		   lng=excluded.lng,
		   formatted_address=excluded.formatted_address,
		   updated_at=excluded.updated_at`,
		key,
		result.Coordinate.Lat,
		result.Coordinate.Lng,
		result.FormattedAddress,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("persist geocode result: %w", err)
	}
	return nil
}

// Get returns the stored result for a normalized address key.
func (s *GeoStore) Get(ctx context.Context, key string) (domain.GeocodeResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT lat, lng, formatted_address FROM geocode_results WHERE address=?`, key)
	var result domain.GeocodeResult
	err := row.Scan(&result.Coordinate.Lat, &result.Coordinate.Lng, &result.FormattedAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeocodeResult{}, false, nil
	}
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("read geocode result: %w", err)
	}
	return result, true, nil
}

// Load returns every stored result, keyed by normalized address. It is used
// to warm the in-memory cache at startup.
func (s *GeoStore) Load(ctx context.Context) (map[string]domain.GeocodeResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address, lat, lng, formatted_address FROM geocode_results`)
	if err != nil {
		return nil, fmt.Errorf("load geocode results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]domain.GeocodeResult)
	for rows.Next() {
		var key string
		var result domain.GeocodeResult
		if err := rows.Scan(&key, &result.Coordinate.Lat, &result.Coordinate.Lng, &result.FormattedAddress); err != nil {
			return nil, fmt.Errorf("scan geocode result: %w", err)
		}
		results[key] = result
	}
	return results, rows.Err()
}

// Len reports the number of stored results.
func (s *GeoStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM geocode_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count geocode results: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *GeoStore) Close() error {
	return s.db.Close()
}
