package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/cache"
	"github.com/cooper-gadd/uno/internal/config"
	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/game"
	"github.com/cooper-gadd/uno/internal/handlers"
	"github.com/cooper-gadd/uno/internal/worker"
)

func main() {
	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database setup failed")
	}
	if err := database.SeedCardCatalog(db); err != nil {
		logrus.WithError(err).Fatal("card catalog seed failed")
	}
	store := database.NewGormStore(db)

	var historian *cache.Historian
	if redisClient, err := cache.Connect(ctx, cfg.RedisURL); err != nil {
		// Play continues without the Redis audit trail.
		logrus.WithError(err).Warn("redis unavailable, action history disabled")
		historian = cache.NewHistorian(nil)
	} else {
		historian = cache.NewHistorian(redisClient)
		defer redisClient.Close()
	}

	manager := game.NewManager(store, historian)
	manager.DefaultTurnTimeout = cfg.TurnTimeout
	manager.MaxPersistAttempts = cfg.MaxPersistAttempts

	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.SessionTTL)
	server := handlers.NewServer(cfg, authSvc, manager, historian)

	reaper, err := worker.NewReaper(store, manager, cfg.TeardownGrace)
	if err != nil {
		logrus.WithError(err).Fatal("reaper setup failed")
	}
	reaper.Start()
	defer reaper.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}
	go func() {
		logrus.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("server shutdown")
	}
}
