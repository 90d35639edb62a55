// Package ratelimit counts requests against named fixed-window budgets.
package ratelimit

import (
	"context"
	"time"
)

// DefaultWindow applies to policies configured without a window.
const DefaultWindow = time.Minute

// Policy is a budget of Limit requests per Window. Name scopes the counters
// so different routes never share a bucket.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy restricts anything.
func (p Policy) Enabled() bool {
	return p.Limit > 0
}

func (p Policy) window() time.Duration {
	if p.Window <= 0 {
		return DefaultWindow
	}
	return p.Window
}

func (p Policy) bucket(key string) string {
	return p.Name + "|" + key
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

func decide(policy Policy, count int, resetAt time.Time) Decision {
	remaining := policy.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= policy.Limit,
		Limit:     policy.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Limiter decides whether a request identified by key fits its policy.
// Implementations return an allowing Decision together with any backend error.
type Limiter interface {
	Allow(ctx context.Context, key string, policy Policy) (Decision, error)
	Close() error
}
