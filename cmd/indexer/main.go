package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/bootstrap"
	"github.com/dkoval/hotelreg-assistant/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewIndexer(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.IndexerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("indexer subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReindexRequested(ctx, func(handlerCtx context.Context, reason string) error {
		rebuildCtx, cancel := context.WithTimeout(handlerCtx, 10*time.Minute)
		defer cancel()

		app.Logger.Info("rebuild requested", "reason", reason)
		app.Metrics.StartRebuild()
		started := time.Now()
		rebuildErr := app.Rebuilder.Rebuild(rebuildCtx)
		app.Metrics.FinishRebuild("indexer", time.Since(started), rebuildErr)
		if rebuildErr != nil {
			app.Logger.Error("rebuild failed", "error", rebuildErr)
		}
		return rebuildErr
	})
	if err != nil {
		log.Fatalf("indexer subscribe error: %v", err)
	}
}
