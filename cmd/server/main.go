package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/tunecast/config"
	"github.com/spacesedan/tunecast/internal/cache"
	"github.com/spacesedan/tunecast/internal/clients"
	"github.com/spacesedan/tunecast/internal/handlers"
	"github.com/spacesedan/tunecast/internal/logging"
	"github.com/spacesedan/tunecast/internal/simulation"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	trackCache := buildTrackCache()
	engine := simulation.NewEngine(trackCache)
	handler := handlers.New(engine, clients.GetITunesClient(), trackCache)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("[Server] Listening", slog.String("addr", addr), slog.String("env", env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Server] Listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("[Server] Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("[Server] Shutdown failed", slog.String("error", err.Error()))
	}

	if vc, ok := trackCache.(*cache.ValkeyCache); ok {
		vc.Close()
	}
}

// buildTrackCache prefers the shared Valkey cache when an address is
// configured and falls back to the in-memory map otherwise.
func buildTrackCache() cache.TrackCache {
	if os.Getenv("VALKEY_INIT_ADDRESS") == "" {
		return cache.NewMemoryCache(cache.DefaultTTL)
	}

	vc, err := cache.NewValkeyCache()
	if err != nil {
		slog.Warn("[Server] Valkey unavailable, falling back to in-memory cache",
			slog.String("error", err.Error()))
		return cache.NewMemoryCache(cache.DefaultTTL)
	}
	return vc
}
