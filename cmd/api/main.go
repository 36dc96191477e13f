package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flowpro/internal/api"
	"flowpro/internal/config"
	"flowpro/internal/workflows"
	"flowpro/internal/workflows/nodes"
	"flowpro/pkg/logger"
	"flowpro/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("flowpro-api").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig("flowpro-api", &logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stdout",
	})

	m := metrics.New(metrics.DefaultConfig())

	store := workflows.NewExecutionStore(cfg.Retention)
	defer store.Close()

	registry := nodes.NewRegistry(nodes.Options{
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     log,
	})

	engine := workflows.NewEngine(registry, store, log, m)

	handler := api.NewHandler(engine, log)
	router := api.NewRouter(cfg, handler, log, m)
	server := api.NewServer(cfg, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}
