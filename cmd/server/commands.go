package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"linkhub/internal/config"
	"linkhub/internal/db"
	"linkhub/internal/email"
	"linkhub/internal/metrics"
	"linkhub/internal/server"
)

// newRootCmd creates the linkhub command tree. Running it without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkhub",
		Short:         "LinkHub - share, like and bookmark links",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations, seed categories and start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			Args:  cobra.NoArgs,
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Seed categories (and the demo user when SEED_DEMO_USER is set) and exit",
			Args:  cobra.NoArgs,
			RunE:  runSeed,
		},
	)

	return root
}

// openDB connects to the configured database and applies migrations.
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations completed successfully")

	return database, nil
}

// seedData seeds categories from config.yaml (or the defaults) and, when enabled,
// the demo account. Both steps are idempotent.
func seedData(ctx context.Context, cfg *config.Config, database *db.DB) error {
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return fmt.Errorf("load config file: %w", err)
	}

	categories := yamlCfg.SeedCategories()
	if err := database.SeedCategories(ctx, categories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	slog.Info("categories seeded", "count", len(categories))

	if cfg.SeedDemoUser {
		demo := yamlCfg.SeedDemoUser()
		if err := database.SeedUser(ctx, demo.Username, demo.Email, demo.Password, demo.FullName); err != nil {
			return fmt.Errorf("seed demo user: %w", err)
		}
		slog.Info("demo user seeded", "username", demo.Username)
	}

	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	database, err := openDB(cmd.Context(), config.Load())
	if err != nil {
		return err
	}
	database.Close()
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	database, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return seedData(cmd.Context(), cfg, database)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := seedData(ctx, cfg, database); err != nil {
		return err
	}

	metrics.Init(database)
	notifier := email.NewNotifier(cfg)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, notifier); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server exited")
	return nil
}
