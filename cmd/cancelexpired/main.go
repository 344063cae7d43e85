package main

import (
	"context"
	"os"

	_ "github.com/lib/pq"

	"github.com/editionssen/bookstore/internal/config"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/editionssen/bookstore/internal/sweeper"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Batch entry point for the expired-order sweep, meant to be run hourly by
// an OS scheduler. Exit code 0 means the sweep completed, zero matches
// included; non-zero means the store could not be read at all.
func main() {
	os.Exit(start())
}

func start() int {
	logger, err := zap.NewProduction()
	if err != nil {
		return 1
	}

	zap.ReplaceGlobals(logger)
	defer zap.L().Sync()

	config, err := config.NewSweepConfig()
	if err != nil {
		zap.L().Error("error create config", zap.Error(err))
		return 1
	}

	db, err := sqlx.Connect("postgres", config.DatabaseURI)
	if err != nil {
		zap.L().Error("error failed to connect to db", zap.Error(err))
		return 1
	}

	defer db.Close()

	postgresStorage, err := storage.NewPostgresStorage(db)
	if err != nil {
		zap.L().Error("error failed to create postgres storage", zap.Error(err))
		return 1
	}

	count, err := sweeper.NewSweeper(postgresStorage).Sweep(context.Background(), config.Hours, config.DryRun)
	if err != nil {
		zap.L().Error("error sweep expired orders", zap.Error(err))
		return 1
	}

	zap.L().Info(
		"sweep completed",
		zap.Int("affected", count),
		zap.Int("threshold_hours", config.Hours),
		zap.Bool("dry_run", config.DryRun),
	)

	return 0
}
