package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/db/migrations"
	"seekit/internal/cli"
	"seekit/internal/config"
	"seekit/internal/logger"
	"seekit/internal/marketplace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seekit:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Меню пишет в stdout, поэтому лог по умолчанию уходит в stderr или файл.
	log, err := logger.New(cfg.Log.Level, cfg.Log.Output)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("cannot connect to DB: %w", err)
	}
	defer conn.Close()

	if err := migrations.Run(conn.DB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	svc := marketplace.NewService(db.NewStorage(conn), log)
	log.Info("cli session started")
	if err := cli.New(svc, os.Stdin, os.Stdout, log).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("cli stopped", zap.Error(err))
		return err
	}
	return nil
}
