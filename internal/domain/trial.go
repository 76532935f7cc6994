package domain

import "time"

// Coordinate is a WGS-84 latitude/longitude pair.
// Valid latitudes are [-90, 90] and longitudes [-180, 180].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeResult is a resolved address. Immutable once produced; cached by
// the normalized (lowercased, trimmed) input address.
type GeocodeResult struct {
	Coordinate       Coordinate `json:"coordinate"`
	FormattedAddress string     `json:"formatted_address"`
}

// TrialLocation is one study site. Latitude, Longitude, and Distance are nil
// when the site could not be geocoded or no user location was supplied.
type TrialLocation struct {
	Facility  string   `json:"facility"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Zip       string   `json:"zip"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Distance  *float64 `json:"distance"`
}

// AgeRange carries the registry's free-form age bounds, e.g. "18 Years".
type AgeRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Substance is an intervention relevant for allergy checking.
type Substance struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Compensation is the fabricated compensation summary for a trial.
// Amount is in whole US dollars.
type Compensation struct {
	HasCompensation bool   `json:"has_compensation"`
	Amount          int    `json:"amount,omitempty"`
	Currency        string `json:"currency,omitempty"`
	Details         string `json:"details,omitempty"`
}

// Trial is the normalized study record returned to callers. The JSON field
// names (including the camelCase eligibilityCriteria and substancesUsed)
// match the contract the web frontend consumes.
type Trial struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Conditions          []string        `json:"conditions"`
	Summary             string          `json:"summary"`
	Status              string          `json:"status"`
	Gender              string          `json:"gender"`
	AgeRange            AgeRange        `json:"age_range"`
	Locations           []TrialLocation `json:"locations"`
	Compensation        Compensation    `json:"compensation"`
	EligibilityCriteria string          `json:"eligibilityCriteria"`
	Substances          []Substance     `json:"substancesUsed"`

	// Distance is the minimum distance in miles across the trial's processed
	// locations, nil when none could be computed.
	Distance *float64 `json:"distance,omitempty"`
}

// SearchEvent is the audit record published after each completed search.
type SearchEvent struct {
	ID         string    `json:"id"`
	Condition  string    `json:"condition"`
	Location   string    `json:"location,omitempty"`
	Results    int       `json:"results"`
	CacheHit   bool      `json:"cache_hit"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
