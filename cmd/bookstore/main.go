package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/editionssen/bookstore/internal/config"
	"github.com/editionssen/bookstore/internal/payment"
	"github.com/editionssen/bookstore/internal/server"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/editionssen/bookstore/internal/sweeper"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

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

	config, err := config.NewConfig()
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

	var (
		orderSweeper = sweeper.NewSweeper(postgresStorage)
		payments     = payment.NewClient(
			config.PaymentAPIAddress,
			config.PaymentClientID,
			config.PaymentClientSecret,
		)
	)

	server := server.NewServer(config, postgresStorage, orderSweeper, payments)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := server.Start(); err != nil {
			zap.L().Error("error starting server", zap.Error(err))
			return err
		}

		return nil
	})

	eg.Go(func() error {
		if err := orderSweeper.Start(ctx); err != nil {
			zap.L().Error("error starting sweeper", zap.Error(err))
			return err
		}

		return nil
	})

	<-ctx.Done()

	eg.Go(func() error {
		if err := server.Stop(); err != nil {
			zap.L().Error("error stopping server", zap.Error(err))
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return 1
	}

	return 0
}
