package couchpotato

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/domain"
	"github.com/reelvoice/reelvoice/internal/observability/telemetry"
)

// ServiceError wraps any transport, HTTP status or decoding failure of the
// movie manager API. Its message never carries the request URL: the URL path
// embeds the API key.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("moviemanager: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Config holds the movie manager client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig configures the optional circuit breaker around the HTTP
// round trip. The breaker only fails fast; it never retries and never
// substitutes a fallback result.
type BreakerConfig struct {
	Enabled     bool
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

const (
	defaultBaseURL = "http://localhost:5050"
	defaultTimeout = 10 * time.Second
)

// DefaultConfig returns the default movie manager configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: defaultBaseURL,
		Timeout: defaultTimeout,
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
		},
	}
}

// Client is a stateless facade over the CouchPotato-style movie manager API.
// Every operation is a single GET with the API key as a URL path segment.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
	breaker    *gobreaker.CircuitBreaker
}

// New creates a movie manager client. Zero-value BaseURL and Timeout fall
// back to the defaults.
func New(cfg *Config, log *zap.Logger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		log:     log,
	}

	if cfg.Breaker.Enabled {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "moviemanager",
			MaxRequests: cfg.Breaker.MaxRequests,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return c
}

// ListMovies returns the managed library, narrowed by search when non-empty.
// A response without a movies field is an empty library, not an error.
func (c *Client) ListMovies(ctx context.Context, search string) ([]domain.Movie, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}

	var out struct {
		Movies []domain.Movie `json:"movies"`
	}
	if err := c.get(ctx, "movie.list", params, &out); err != nil {
		return nil, err
	}
	return out.Movies, nil
}

// SearchProviders looks query up with the manager's search providers.
func (c *Client) SearchProviders(ctx context.Context, query string) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)

	var out struct {
		Movies []domain.Candidate `json:"movies"`
	}
	if err := c.get(ctx, "movie.search", params, &out); err != nil {
		return nil, err
	}
	return out.Movies, nil
}

// AddMovie queues the movie with the given IMDb identifier. A false result
// means the manager declined the add; that is not an error.
func (c *Client) AddMovie(ctx context.Context, imdbID string) (bool, error) {
	params := url.Values{}
	params.Set("identifier", imdbID)

	var out struct {
		Success bool `json:"success"`
	}
	if err := c.get(ctx, "movie.add", params, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// Available reports whether the manager API is up. Only the readiness probe
// calls it; the dialogue never does.
func (c *Client) Available(ctx context.Context) error {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.get(ctx, "app.available", url.Values{}, &out); err != nil {
		return err
	}
	if !out.Success {
		return &ServiceError{Op: "app.available", Err: errors.New("manager reported unavailable")}
	}
	return nil
}

// get performs one API call and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op string, p url.Values, out interface{}) error {
	start := time.Now()

	var err error
	if c.breaker != nil {
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return nil, c.roundTrip(ctx, op, p, out)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &ServiceError{Op: op, Err: err}
		}
	} else {
		err = c.roundTrip(ctx, op, p, out)
	}

	took := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	telemetry.MovieManagerRequests.WithLabelValues(op, status).Inc()
	telemetry.MovieManagerLatency.WithLabelValues(op).Observe(took.Seconds())

	c.log.Debug("Movie manager call completed",
		zap.String("op", op),
		zap.String("status", status),
		zap.Duration("took", took),
	)
	return err
}

func (c *Client) roundTrip(ctx context.Context, op string, p url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/api/%s/%s", c.baseURL, c.apiKey, op)
	if len(p) > 0 {
		endpoint += "?" + p.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error spells out the full request URL, which carries the
		// API key. Report only the underlying cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
