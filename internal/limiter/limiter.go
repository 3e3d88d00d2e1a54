// Package limiter implements fixed-window request limits per client and action.
package limiter

import (
	"context"
	"fmt"
	"time"
)

// Actions guarded by the API
const (
	ActionTranslate  = "translate"
	ActionValidate   = "validate"
	ActionRAGSuggest = "rag_suggest"
	ActionDictionary = "dictionary"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

var DefaultLimits = map[string]ActionConfig{
	ActionTranslate:  {Limit: 120, Window: time.Minute},
	ActionValidate:   {Limit: 60, Window: time.Minute},
	ActionRAGSuggest: {Limit: 30, Window: time.Minute},
	ActionDictionary: {Limit: 30, Window: time.Minute},
}

// fallbackLimit applies to actions missing from the limits table
var fallbackLimit = ActionConfig{Limit: 100, Window: time.Minute}

// Counter stores per-key hit counts that expire after a window
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	counter Counter
	limits  map[string]ActionConfig
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(counter Counter) *Limiter {
	return NewLimiterWithLimits(counter, DefaultLimits)
}

func NewLimiterWithLimits(counter Counter, limits map[string]ActionConfig) *Limiter {
	return &Limiter{counter: counter, limits: limits, now: time.Now}
}

// Limits returns the configured per-action limits, or DefaultLimits on a
// nil Limiter
func (l *Limiter) Limits() map[string]ActionConfig {
	if l == nil {
		return DefaultLimits
	}
	return l.limits
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		config = fallbackLimit
	}

	key := Key(clientID, action)

	count, err := l.counter.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.counter.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	if ttl < 0 {
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl).Unix(),
		Limit:     config.Limit,
	}, nil
}

// Key is the counter key for a client and action
func Key(clientID, action string) string {
	return fmt.Sprintf("rate:%s:%s", clientID, action)
}
