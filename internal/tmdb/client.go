// Package tmdb provides the external catalog lookup used for candidate
// matching. The Lookup interface has two implementations: the real
// TMDB-backed Client and a Noop client that always returns no candidates,
// selected by the caller when no API key is configured.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Nomadcxx/jellymatch/internal/matcher"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Lookup is the catalog search interface consumed by the pipeline.
// A nil error with an empty slice means the catalog had no candidates;
// transport and service failures are reported as *ServiceError.
type Lookup interface {
	Search(ctx context.Context, title string, year int) ([]matcher.CandidateRecord, error)
	Fetch(ctx context.Context, id int64) (*matcher.CandidateRecord, error)
}

// ServiceError is a transport or service failure during a lookup. It is a
// distinct type so callers can tell a failed search from an empty result.
type ServiceError struct {
	Status int // HTTP status, 0 for transport errors
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog lookup failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("catalog lookup failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// searchResponse models the TMDB paginated search payload.
type searchResponse struct {
	Page    int            `json:"page"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	ReleaseDate   string   `json:"release_date"`
	Popularity    *float64 `json:"popularity"`
}

// Client queries the TMDB API. Requests pass through a rate limiter so
// concurrent workers stay within the external service's limits.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Lookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit bounds outgoing requests per second.
func WithRateLimit(reqPerSec float64) Option {
	return func(c *Client) {
		if reqPerSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(reqPerSec), 5)
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(4), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search queries the movie search endpoint. Year 0 means unknown and is
// omitted from the query.
func (c *Client) Search(ctx context.Context, title string, year int) ([]matcher.CandidateRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}

	var payload searchResponse
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}

	records := make([]matcher.CandidateRecord, 0, len(payload.Results))
	for _, r := range payload.Results {
		records = append(records, matcher.CandidateRecord{
			ID:            r.ID,
			Title:         r.Title,
			OriginalTitle: r.OriginalTitle,
			ReleaseDate:   r.ReleaseDate,
			Popularity:    r.Popularity,
		})
	}
	return records, nil
}

// Fetch retrieves a single movie record by catalog ID.
func (c *Client) Fetch(ctx context.Context, id int64) (*matcher.CandidateRecord, error) {
	if id <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	var r searchResult
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), url.Values{}, &r); err != nil {
		return nil, err
	}
	return &matcher.CandidateRecord{
		ID:            r.ID,
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		ReleaseDate:   r.ReleaseDate,
		Popularity:    r.Popularity,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ServiceError{Err: err}
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return &ServiceError{Err: fmt.Errorf("parse catalog url: %w", err)}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return &ServiceError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Err: fmt.Errorf("decode catalog response: %w", err)}
	}
	return nil
}
