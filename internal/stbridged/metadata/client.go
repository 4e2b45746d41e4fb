// Package metadata implements the HTTP lookup service for programme
// titles and artwork referenced by detailed status payloads.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 15 * time.Minute
	cacheSweep      = 5 * time.Minute
)

// Client resolves listing and recording metadata against the provider's
// listing service. Lookups are cached and rate limited; a miss on the
// remote side is reported as an empty string, not an error.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithCacheTTL overrides how long lookup results are retained
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache.New(ttl, cacheSweep)
	}
}

// WithRateLimit caps outgoing lookups at r requests per second with the
// given burst
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// NewClient creates a metadata client for the given listing service URL
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		cache:   cache.New(defaultCacheTTL, cacheSweep),
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listing is the subset of the listing service response we consume
type listing struct {
	Program struct {
		Title  string `json:"title"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"program"`
}

// RecordingTitle returns the programme title for a replay or recording
// event id, or "" when the service has no entry for it.
func (c *Client) RecordingTitle(ctx context.Context, id string) (string, error) {
	l, err := c.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	return l.Program.Title, nil
}

// RecordingImage returns the first programme image for a replay or
// recording event id, or "" when none is available.
func (c *Client) RecordingImage(ctx context.Context, id string) (string, error) {
	l, err := c.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	if len(l.Program.Images) == 0 {
		return "", nil
	}
	return l.Program.Images[0].URL, nil
}

// ListingTitle returns the current programme title for a live event id,
// or "" when the listing is unknown.
func (c *Client) ListingTitle(ctx context.Context, id string) (string, error) {
	l, err := c.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	return l.Program.Title, nil
}

func (c *Client) lookup(ctx context.Context, id string) (listing, error) {
	const op = "metadata.lookup"

	if cached, ok := c.cache.Get(id); ok {
		return cached.(listing), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return listing{}, errors.NewError("LOOKUP_FAILED", "rate limit wait aborted", op, err)
	}

	url := fmt.Sprintf("%s/listings/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return listing{}, errors.NewError("LOOKUP_FAILED", "building listing request", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return listing{}, errors.NewError("LOOKUP_FAILED", fmt.Sprintf("fetching listing %s", id), op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Unknown ids are a normal miss, not a failure
		c.logger.Debug("listing lookup miss", "id", id, "status", resp.StatusCode)
		c.cache.Set(id, listing{}, cache.DefaultExpiration)
		return listing{}, nil
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return listing{}, errors.NewError("LOOKUP_FAILED", fmt.Sprintf("decoding listing %s", id), op, err)
	}

	c.cache.Set(id, l, cache.DefaultExpiration)
	return l, nil
}
