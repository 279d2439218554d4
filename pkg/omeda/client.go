// Package omeda provides the HTTP client for the Omeda public match API and
// the match record model it returns.
package omeda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/omeda-tools/match-backfill/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Prometheus metrics for API client operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omeda_requests_total",
		Help: "Total Omeda API requests by status",
	}, []string{"status"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "omeda_request_duration_seconds",
		Help:    "Omeda API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omeda_errors_total",
		Help: "Total Omeda API errors by kind",
	}, []string{"kind"})

	apiMatchesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omeda_matches_fetched_total",
		Help: "Total match records returned by the Omeda API",
	})
)

// Client fetches match pages from the Omeda public API. One call issues at
// most one network request; there is no retry.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the get-matches-since endpoint without the trailing epoch,
	// e.g. "https://backend.production.omeda-aws.com/api/public/get-matches-since".
	BaseURL string

	// UserAgent identifies this tool to the API operators.
	UserAgent string

	// Timeout bounds a single request round trip.
	Timeout time.Duration

	// RequestsPerSecond caps the aggregate request rate across all workers.
	// Zero disables pacing.
	RequestsPerSecond float64

	// Cache is an optional Redis page cache. Nil disables caching.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:           baseURL,
		UserAgent:         userAgent,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
	}
}

// New creates a new Omeda API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	logger := log.With().Str("component", "omeda-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		cache:   cfg.Cache,
		config:  cfg,
		logger:  logger,
	}, nil
}

// MatchesSince fetches all matches that ended after the given epoch. An
// empty slice is a valid result meaning "nothing new since this epoch".
//
// Non-2xx responses return *APIError; an undecodable 2xx body returns an
// error wrapping ErrMalformedResponse.
func (c *Client) MatchesSince(ctx context.Context, epoch uint64) ([]Match, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	cacheKey := cache.Key{Epoch: epoch}

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Uint64("epoch", epoch).Msg("Cache get error")
		}
		if entry != nil {
			matches, decodeErr := decodeMatches(entry.Body)
			if decodeErr == nil {
				c.logger.Debug().
					Uint64("epoch", epoch).
					Int("matches", len(matches)).
					Dur("age", entry.Age()).
					Msg("Page served from cache")
				return matches, nil
			}
			// Corrupt entry, drop it and go to the network.
			c.logger.Warn().Err(decodeErr).Uint64("epoch", epoch).Msg("Dropping corrupt cache entry")
			_ = c.cache.Delete(ctx, cacheKey)
		}
	}

	url := fmt.Sprintf("%s/%d", c.config.BaseURL, epoch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	apiRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		apiErrorsTotal.WithLabelValues("network").Inc()
		apiRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("request for epoch %d: %w", epoch, err)
	}
	defer resp.Body.Close()

	apiRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErrorsTotal.WithLabelValues("remote").Inc()
		c.logger.Warn().
			Uint64("epoch", epoch).
			Int("status", resp.StatusCode).
			Msg("API request error")
		return nil, &APIError{
			Epoch:      epoch,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("read body for epoch %d: %w", epoch, err)
	}

	matches, err := decodeMatches(body)
	if err != nil {
		apiErrorsTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w for epoch %d: %v", ErrMalformedResponse, epoch, err)
	}

	apiMatchesFetched.Add(float64(len(matches)))

	if c.cache != nil {
		entry := &cache.Entry{Body: body, FetchedAt: time.Now()}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Uint64("epoch", epoch).Msg("Failed to cache page")
		}
	}

	return matches, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func decodeMatches(body []byte) ([]Match, error) {
	var matches []Match
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
