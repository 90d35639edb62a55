package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

func TestRedisFailsOpenWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	limiter := NewRedis(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer limiter.Close()

	d, err := limiter.Allow(context.Background(), "ip:10.0.0.1", Policy{Name: "auth_login", Limit: 3})
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if !d.Allowed || d.Limit != 3 {
		t.Fatalf("expected fail-open decision, got %+v", d)
	}
}

func TestRedisSkipsDisabledPolicy(t *testing.T) {
	limiter := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), nil)
	defer limiter.Close()
	d, err := limiter.Allow(context.Background(), "k", Policy{Name: "off"})
	if err != nil || !d.Allowed {
		t.Fatalf("disabled policy must allow without touching redis, got %+v %v", d, err)
	}
}
