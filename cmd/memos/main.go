package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	memosapi "github.com/evgeniy-krivenko/memos/internal/api/memos"
	"github.com/evgeniy-krivenko/memos/internal/config"
	"github.com/evgeniy-krivenko/memos/internal/repository"
	memosusecase "github.com/evgeniy-krivenko/memos/internal/usecase/memos"
	"github.com/evgeniy-krivenko/memos/pkg/database"
	"github.com/evgeniy-krivenko/memos/pkg/gwserver"
	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	sqlDB, err := database.NewSQLite(ctx, database.NewOptions(
		cfg.Database.Path,
		database.WithRetryAttempts(cfg.Database.RetryAttempts),
		database.WithBusyTimeout(cfg.Database.BusyTimeout),
		database.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("open database: %v", err)
	}

	db := database.NewDatabase(sqlDB)
	defer func() {
		if err := db.Close(); err != nil {
			slogx.Error(ctx, "close database", slogx.Err(err))
		}
	}()

	repo := repository.New(db)
	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("init memo store: %w", err)
	}

	uc, err := memosusecase.New(memosusecase.NewOptions(repo, db))
	if err != nil {
		return fmt.Errorf("init memos usecase: %v", err)
	}

	api, err := memosapi.New(uc)
	if err != nil {
		return fmt.Errorf("init memos api: %v", err)
	}

	srv, err := gwserver.New(gwserver.NewOptions(
		cfg.HTTP.Addr,
		api.Routes(),
		gwserver.WithLogger(slogx.Default()),
		gwserver.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	))
	if err != nil {
		return fmt.Errorf("init http server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	slogx.Info(ctx, "memos stopped")

	return nil
}
