package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmcgann/stockdeck/internal/config"
	"github.com/tmcgann/stockdeck/internal/event"
	"github.com/tmcgann/stockdeck/internal/gateway"
	"github.com/tmcgann/stockdeck/internal/handler"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/notify"
	"github.com/tmcgann/stockdeck/internal/query"
	"github.com/tmcgann/stockdeck/internal/server"
	"github.com/tmcgann/stockdeck/internal/store"
	"github.com/tmcgann/stockdeck/internal/transfer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel, cfg.LogFormat, "stockdeck", cfg.Version, cfg.Environment, false))
	handler.InitValidator()

	slog.Info("Starting stockdeck",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"api_base_url", cfg.APIBaseURL,
		"port", cfg.Port)

	gw := gateway.NewClient(gateway.Options{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		CapacityCacheSize: cfg.CapacityCacheSize,
		CapacityCacheTTL:  time.Duration(cfg.CapacityCacheTTLSeconds) * time.Second,
	})

	bus := event.NewMemoryBus()
	st := store.New(gw, bus)
	engine := transfer.NewEngine(st, gw, bus)
	view := query.NewView(st)
	center := notify.NewCenter(bus, notify.DefaultCapacity)

	// Initial load. A failure is survivable: the collections stay empty and
	// the first successful refresh fills them.
	if err := st.Refresh(context.Background()); err != nil {
		slog.Warn("Initial refresh failed, starting with empty collections", "error", err)
	}

	srv := server.NewServer(cfg.Port, cfg.Version, cfg.Environment, st, engine, view, center)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}
	slog.Info("Server stopped")
}
