package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/paperledger/bankstat/internal/common"
	"github.com/paperledger/bankstat/internal/config"
	"github.com/paperledger/bankstat/internal/dedupe"
	"github.com/paperledger/bankstat/internal/engine"
	"github.com/paperledger/bankstat/internal/importer"
	"github.com/paperledger/bankstat/internal/mcc"
	"github.com/paperledger/bankstat/internal/merchant"
	"github.com/paperledger/bankstat/internal/service"
	"github.com/paperledger/bankstat/internal/storage"
)

// initStorage opens the database, retrying briefly in case another bankstat
// process holds the write lock, and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	cfg, err := config.LoadImportConfig()
	if err != nil {
		return nil, err
	}

	var store *storage.SQLiteStorage
	err = common.WithRetry(ctx, func() error {
		var openErr error
		store, openErr = storage.NewSQLiteStorage(cfg.DatabasePath)
		return openErr
	}, common.RetryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildPipeline wires the full import stack from config.
func buildPipeline(store service.Storage) (*importer.Pipeline, error) {
	cfg, err := config.LoadImportConfig()
	if err != nil {
		return nil, err
	}

	eng := engine.New(mcc.Default(), merchant.Default(), nil, engine.Config{
		PatternThreshold: cfg.FuzzyThreshold,
		HistoryThreshold: cfg.HistoryThreshold,
	})

	detector := dedupe.NewDetector(store, dedupe.Options{
		Window: cfg.DuplicateWindow,
	})

	return importer.NewPipeline(importer.DefaultRegistry(), eng, detector, store, slog.Default()), nil
}

func currentUser() string {
	user := viper.GetString("user")
	if user == "" {
		user = "default"
	}
	return user
}
