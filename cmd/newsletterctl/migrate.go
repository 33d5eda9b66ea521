package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/config"
)

var migrateCreateDB bool

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply the embedded schema migrations to the configured database.

Examples:
  # Apply pending migrations
  newsletterctl migrate

  # Create the database first if it does not exist
  newsletterctl migrate --create-db`,
		RunE: runMigrate,
	}

	cmd.Flags().BoolVar(&migrateCreateDB, "create-db", false, "Create the configured database if it does not exist")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	if migrateCreateDB {
		if err := ensureDatabase(ctx, cfg.Database, logger); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.ConnectionString().Expose(), postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	logger.Info("Migrations complete", zap.Strings("applied", applied))
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
	return nil
}

func ensureDatabase(ctx context.Context, db config.DatabaseSettings, logger *zap.Logger) error {
	if db.DatabaseName == "" {
		return fmt.Errorf("database.database_name is required for --create-db")
	}
	conn, err := pgx.Connect(ctx, db.ConnectionStringWithoutDB().Expose())
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, db.DatabaseName).Scan(&exists); err != nil {
		return fmt.Errorf("check database: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{db.DatabaseName}.Sanitize()); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	logger.Info("Created database", zap.String("database", db.DatabaseName))
	return nil
}
