package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Adnan2-a11y/LearnCraft/db/migrations"
	"github.com/Adnan2-a11y/LearnCraft/internal/app/migrate"
	httpx "github.com/Adnan2-a11y/LearnCraft/internal/http"
	"github.com/Adnan2-a11y/LearnCraft/internal/ratelimit"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository/memory"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository/postgres"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/auth"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/course"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/event"
	"github.com/Adnan2-a11y/LearnCraft/pkg/config"
	"github.com/Adnan2-a11y/LearnCraft/pkg/crypto"
	jwtpkg "github.com/Adnan2-a11y/LearnCraft/pkg/jwt"
	"github.com/Adnan2-a11y/LearnCraft/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadAPIConfig()
	log := logger.New("api", logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("api server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.APIConfig, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	trustedProxies, err := config.ParsePrefixes(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		store = memory.New()
	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		runner, err := migrate.New(pool, migrations.FS, log)
		if err != nil {
			return fmt.Errorf("configure migrations: %w", err)
		}
		if err := runner.Ping(ctx); err != nil {
			return fmt.Errorf("database ping: %w", err)
		}
		if cfg.AutoMigrate {
			if err := runner.Ensure(ctx); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		store = postgres.New(pool)
	}

	tokens, err := jwtpkg.NewService(cfg.Token())
	if err != nil {
		return fmt.Errorf("configure token service: %w", err)
	}
	hasher, err := crypto.NewPasswordHasher(bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("configure password hasher: %w", err)
	}

	authSvc := auth.New(store, store, tokens, hasher, log)
	courseSvc := course.New(store, log)
	eventSvc := event.New(store, log)

	var limiter ratelimit.Limiter
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := ratelimit.DialRedis(ctx, addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable, counting in memory", "error", err)
		} else {
			limiter = redisLimiter
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewMemory()
	}

	router := httpx.NewRouter(httpx.Options{
		Logger:  log,
		Auth:    authSvc,
		Courses: courseSvc,
		Events:  eventSvc,
		Limiter: limiter,
		Limits: httpx.RateLimits{
			Register: cfg.RegisterRateLimit,
			Login:    cfg.LoginRateLimit,
			Write:    cfg.WriteRateLimit,
			Window:   cfg.RateLimitWindow,
		},
		Cookie:         httpx.CookieConfig{Secure: cfg.Production(), MaxAge: cfg.SessionTTL},
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: trustedProxies,
		DBHealth:       store.Ping,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr, "store", cfg.StoreDriver, "environment", cfg.Environment, "trusted_proxies", len(trustedProxies))
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
		return nil
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}
