// Package migrate applies the embedded SQL schema with goose.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const commandTimeout = time.Minute

// Runner applies schema migrations over an existing connection pool.
type Runner struct {
	pool       *pgxpool.Pool
	migrations fs.FS
	log        *slog.Logger
}

// New returns a runner reading migrations from the root of the given filesystem.
func New(pool *pgxpool.Pool, migrations fs.FS, log *slog.Logger) (Runner, error) {
	if pool == nil {
		return Runner{}, errors.New("nil pool provided")
	}
	if err := checkSources(migrations); err != nil {
		return Runner{}, err
	}
	if log == nil {
		log = slog.Default()
	}
	return Runner{pool: pool, migrations: migrations, log: log}, nil
}

// checkSources requires at least one .sql file at the root of migrations.
func checkSources(migrations fs.FS) error {
	if migrations == nil {
		return errors.New("nil migrations filesystem")
	}
	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("locate migrations: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no migrations found")
	}
	return nil
}

// Ensure applies pending migrations and logs the resulting schema version.
func (r Runner) Ensure(ctx context.Context) error {
	return r.withProvider(ctx, func(ctx context.Context, p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		for _, res := range results {
			r.log.Info("migration applied", "version", res.Source.Version, "file", res.Source.Path, "duration_ms", res.Duration.Milliseconds())
		}
		version, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		r.log.Info("schema up to date", "version", version, "applied", len(results))
		return nil
	})
}

// Status logs every known migration with its state.
func (r Runner) Status(ctx context.Context) error {
	return r.withProvider(ctx, func(ctx context.Context, p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, st := range statuses {
			fields := []any{"version", st.Source.Version, "file", st.Source.Path, "state", string(st.State)}
			if !st.AppliedAt.IsZero() {
				fields = append(fields, "applied_at", st.AppliedAt.UTC())
			}
			r.log.Info("migration", fields...)
		}
		return nil
	})
}

// Down rolls back the latest migration, or every migration above target when
// target is positive.
func (r Runner) Down(ctx context.Context, target int64) error {
	return r.withProvider(ctx, func(ctx context.Context, p *goose.Provider) error {
		if target <= 0 {
			res, err := p.Down(ctx)
			if err != nil {
				return fmt.Errorf("rollback latest migration: %w", err)
			}
			r.log.Info("migration rolled back", "version", res.Source.Version, "file", res.Source.Path)
			return nil
		}
		results, err := p.DownTo(ctx, target)
		if err != nil {
			return fmt.Errorf("rollback to version %d: %w", target, err)
		}
		r.log.Info("rollback complete", "target", target, "rolled_back", len(results))
		return nil
	})
}

// Ping ensures the database connection is alive.
func (r Runner) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r Runner) Close() {
	r.pool.Close()
}

func (r Runner) withProvider(ctx context.Context, fn func(context.Context, *goose.Provider) error) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, r.migrations)
	if err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return fn(ctx, provider)
}
