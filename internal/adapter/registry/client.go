package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// recruitingStatuses restricts searches to trials still accepting
// participants.
const recruitingStatuses = "RECRUITING,NOT_YET_RECRUITING"

// UpstreamError reports a non-success response from the trial registry.
// It is surfaced to the caller as a structured error and never cached.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("trial registry error: status %d: %s", e.StatusCode, e.Body)
}

// SearchQuery describes one registry search.
type SearchQuery struct {
	Condition string
	City      string // optional; adds a LocationCity clause
	PageSize  int
}

// Client queries the ClinicalTrials.gov v2 studies endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a registry client against the given base URL
// (normally https://clinicaltrials.gov/api/v2/studies).
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Search fetches raw studies matching the query. A non-200 registry
// response comes back as *UpstreamError.
func (c *Client) Search(ctx context.Context, query SearchQuery) ([]Study, error) {
	term := query.Condition
	if query.City != "" {
		term = fmt.Sprintf("%s AND AREA[LocationCity]%s", query.Condition, query.City)
	}

	params := url.Values{
		"query.term":           {term},
		"filter.overallStatus": {recruitingStatuses},
		"pageSize":             {strconv.Itoa(query.PageSize)},
		"format":               {"json"},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("registry request", "url", c.baseURL, "term", term, "page_size", query.PageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}

	return searchResp.Studies, nil
}
