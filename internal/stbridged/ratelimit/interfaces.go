// Package ratelimit guards the HTTP API against runaway callers,
// most importantly the control endpoints that fan out to the broker.
package ratelimit

import (
	"context"
	"time"
)

// LimitKey identifies a specific rate limit counter
type LimitKey struct {
	Type     string // e.g. "api_request", "box_control"
	RemoteIP string // caller address
	BoxID    string // target box for control limits
}

// Limit defines one rate limit configuration
type Limit struct {
	// Rate is the number of operations allowed per Period
	Rate int

	// Period is the time window for the rate
	Period time.Duration

	// BurstSize allows a short burst over the rate
	BurstSize int
}

// Store handles rate limit state persistence
type Store interface {
	// Increment bumps a counter and returns the current count.
	// Returns ErrLimitExceeded once the limit is passed.
	Increment(ctx context.Context, key LimitKey, limit Limit) (int, error)

	// Reset clears a rate limit counter
	Reset(ctx context.Context, key LimitKey) error
}

// Service manages rate limiting for the daemon
type Service interface {
	// Allow checks if an operation should be allowed
	Allow(ctx context.Context, key LimitKey) error

	// GetLimit returns the configured limit for a key type
	GetLimit(limitType string) Limit

	// RegisterLimit adds or updates a rate limit configuration
	RegisterLimit(limitType string, limit Limit) error

	// RegisterDefaultLimits configures the standard limits
	RegisterDefaultLimits()

	// Reset clears rate limit counters for a key
	Reset(ctx context.Context, key LimitKey) error
}

// Error types for rate limiting
var (
	ErrLimitExceeded = Error{Code: "RATE_LIMITED", Message: "rate limit exceeded"}
	ErrStoreError    = Error{Code: "STORE_ERROR", Message: "rate limit store error"}
	ErrInvalidLimit  = Error{Code: "INVALID_LIMIT", Message: "invalid rate limit configuration"}
	ErrInvalidKey    = Error{Code: "INVALID_KEY", Message: "invalid rate limit key"}
)

// Error represents a rate limiting error
type Error struct {
	Code    string
	Message string
}

func (e Error) Error() string {
	return e.Message
}
