package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkoelzer/songbase/internal/app"
	"github.com/mkoelzer/songbase/internal/config"
	"github.com/mkoelzer/songbase/internal/constants"
	httpapp "github.com/mkoelzer/songbase/internal/http"
	"github.com/mkoelzer/songbase/internal/logger"
	"github.com/mkoelzer/songbase/internal/snapcache"
	"github.com/mkoelzer/songbase/internal/store"
)

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		if errors.Is(err, store.ErrIncompatibleVersion) {
			appLogger.Error("Store was created by a newer release, refusing to open", "path", cfg.DBPath)
		} else {
			appLogger.Error("Failed to open store", "error", err)
		}
		os.Exit(1)
	}
	defer db.Close()

	cache := snapcache.New(cfg.SnapshotCache)
	catalogService := app.NewCatalogService(db, cache, appLogger.WithComponent("catalog"))
	syncService := app.NewSyncService(db, appLogger.WithComponent("syncs"))

	if loaded, err := catalogService.Bootstrap(); err != nil {
		appLogger.Warn("Failed to bootstrap catalog from cache", "error", err)
	} else if loaded > 0 {
		appLogger.Info("Catalog bootstrapped", "songs", loaded)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(catalogService, syncService, appLogger.WithComponent("http"))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exiting")
}
