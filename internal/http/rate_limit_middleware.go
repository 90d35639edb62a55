package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Adnan2-a11y/LearnCraft/internal/ratelimit"
)

// withRateLimit rejects requests over policy with 429. Limiter failures let
// the request through.
func (r *Router) withRateLimit(policy ratelimit.Policy, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := keyFn(req)
			if key == "" {
				key = r.rateLimitKeyIP(req)
			}
			decision, err := r.limiter.Allow(req.Context(), key, policy)
			if err != nil {
				r.logger.Warn("rate limiter unavailable", "policy", policy.Name, "error", err)
			}
			applyRateHeaders(w, decision)
			if !decision.Allowed {
				r.metrics.recordRateLimitHit(policy.Name, rateMetricKey(key))
				r.logger.Warn("rate limit exceeded", "policy", policy.Name, "key", key)
				writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *Router) rateLimitKeyUser(req *http.Request) string {
	if principal, ok := principalFromContext(req.Context()); ok {
		return "user:" + principal.ID
	}
	return ""
}

func (r *Router) rateLimitKeyIP(req *http.Request) string {
	ip := r.ips.clientIP(req)
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// rateMetricKey keeps only the key kind ("ip", "user") as a metric label.
func rateMetricKey(key string) string {
	if idx := strings.IndexByte(key, ':'); idx > 0 {
		return key[:idx]
	}
	return "unknown"
}

func applyRateHeaders(w http.ResponseWriter, decision ratelimit.Decision) {
	if decision.Limit <= 0 {
		return
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.ResetAt.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}
