package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix  = "learncraft:ratelimit:"
	defaultRedisTimeout = 250 * time.Millisecond
)

// incrWindow increments the bucket and starts its expiry on first use. It
// returns the new count and the remaining lifetime in milliseconds.
var incrWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Redis is a Limiter shared by every API replica pointing at the same server.
type Redis struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client:  client,
		prefix:  defaultRedisPrefix,
		timeout: defaultRedisTimeout,
		logger:  logger,
	}
}

// DialRedis connects to addr and verifies the connection before returning.
func DialRedis(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(client, logger), nil
}

// Allow counts the request in redis. When redis fails the request is allowed
// and the error returned.
func (r *Redis) Allow(ctx context.Context, key string, policy Policy) (Decision, error) {
	if !policy.Enabled() {
		return Decision{Allowed: true}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	window := policy.window()
	res, err := incrWindow.Run(ctx, r.client, []string{r.prefix + policy.bucket(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		r.logger.Error("redis rate limiter error", "policy", policy.Name, "error", err)
		return Decision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}, fmt.Errorf("rate limit %s: %w", policy.Name, err)
	}
	if len(res) != 2 {
		return Decision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}, fmt.Errorf("rate limit %s: unexpected script reply %v", policy.Name, res)
	}
	resetAt := time.Now().Add(time.Duration(res[1]) * time.Millisecond)
	return decide(policy, int(res[0]), resetAt), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
