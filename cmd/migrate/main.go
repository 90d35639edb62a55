package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Adnan2-a11y/LearnCraft/db/migrations"
	"github.com/Adnan2-a11y/LearnCraft/internal/app/migrate"
	"github.com/Adnan2-a11y/LearnCraft/pkg/config"
	"github.com/Adnan2-a11y/LearnCraft/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadAPIConfig()
	log := logger.New("migrate", logger.ParseLevel(cfg.LogLevel))

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the LearnCraft database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection string",
				EnvVars: []string{"DATABASE_URL"},
				Value:   cfg.DatabaseURL,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "command timeout",
				Value: time.Minute,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withRunner(c, cfg, func(ctx context.Context, r migrate.Runner) error {
						return r.Ensure(ctx)
					})
				},
			},
			{
				Name:  "status",
				Usage: "print applied and pending migrations",
				Action: func(c *cli.Context) error {
					return withRunner(c, cfg, func(ctx context.Context, r migrate.Runner) error {
						return r.Status(ctx)
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the latest migration or down to --target",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "target", Usage: "version to roll back to"},
				},
				Action: func(c *cli.Context) error {
					target := c.Int64("target")
					return withRunner(c, cfg, func(ctx context.Context, r migrate.Runner) error {
						return r.Down(ctx, target)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("migration command failed", "error", err)
		os.Exit(1)
	}
}

func withRunner(c *cli.Context, cfg config.APIConfig, fn func(context.Context, migrate.Runner) error) error {
	log := logger.New("migrate", logger.ParseLevel(cfg.LogLevel))
	dsn := c.String("database-url")

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	runner, err := migrate.New(pool, migrations.FS, log)
	if err != nil {
		pool.Close()
		return fmt.Errorf("configure migration runner: %w", err)
	}
	defer runner.Close()

	if err := fn(ctx, runner); err != nil {
		return err
	}
	log.Info("migration command completed", "command", c.Command.Name)
	return nil
}
