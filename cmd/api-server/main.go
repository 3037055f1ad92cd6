package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/db/migrations"
	"seekit/internal/auth"
	"seekit/internal/config"
	"seekit/internal/handlers"
	"seekit/internal/logger"
	"seekit/internal/marketplace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Output)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("cannot connect to DB", zap.Error(err))
	}
	defer conn.Close()

	if err := migrations.Run(conn.DB); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	svc := marketplace.NewService(db.NewStorage(conn), log)
	h := handlers.NewHandler(svc, auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL), log)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
