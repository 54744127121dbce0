package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno-game/internal/cache"
	"github.com/cooper-gadd/uno-game/internal/config"
	"github.com/cooper-gadd/uno-game/internal/database"
	"github.com/cooper-gadd/uno-game/internal/game"
	"github.com/cooper-gadd/uno-game/internal/server"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store game.Store
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		store = database.NewStore(pool)
		log.Info("using postgres store")
	} else {
		store = game.NewMemStore(cfg.LockTimeout)
		log.Warn("no DATABASE_URL set, using in-memory store")
	}

	var (
		notifier game.Notifier
		events   server.EventSource
	)
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer client.Close()
		notifier = client
		events = client
		log.WithField("addr", cfg.RedisAddr).Info("redis notifications enabled")
	}

	svc := game.NewService(store, notifier, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(svc, events, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
