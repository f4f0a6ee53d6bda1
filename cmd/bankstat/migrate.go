package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/config"
	"github.com/paperledger/bankstat/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates automatically on startup; this exists for
provisioning a database without running an import.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadImportConfig()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration", "database", cfg.DatabasePath)

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Database schema up to date", "version", storage.ExpectedSchemaVersion)
	return nil
}
