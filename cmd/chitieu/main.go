package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"chitieu/internal/cache"
	"chitieu/internal/cli"
	"chitieu/internal/config"
	apphttp "chitieu/internal/http"
	"chitieu/internal/log"
	"chitieu/internal/metrics"
	"chitieu/internal/seed"
	"chitieu/internal/services"
	"chitieu/internal/store"
)

func main() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	cats, warnings, err := seed.NewLoader(logger).Load(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}
	snap, err := store.FromCategories(cats)
	if err != nil {
		return fmt.Errorf("build initial snapshot: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	svc := services.NewTrackerService(store.New(snap), services.Options{
		Years:     cfg.Years(),
		CacheSize: cfg.ViewCacheSize,
		CacheTTL:  cfg.ViewCacheTTL,
		Logger:    logger,
		Metrics:   m,
	})

	ctx, cancel := cli.SignalContext(context.Background())
	defer cancel()

	caches := cache.NewManager(logger)
	for _, c := range svc.Caches() {
		caches.Register(c)
	}
	caches.StartCleanup(ctx, cfg.ViewCacheTTL)

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		Metrics:            m,
		Gatherer:           reg,
	})

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting chitieu server",
			"port", cfg.Port,
			"categories", len(cats),
			"seed_warnings", len(warnings),
			"years", cfg.Years().Years())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownErr := cli.Shutdown(logger, 30*time.Second,
		cli.ShutdownStep{Name: "http", Fn: srv.Shutdown},
		cli.ShutdownStep{Name: "cache", Fn: func(context.Context) error {
			caches.Stop()
			return nil
		}},
	)
	return errors.Join(runErr, shutdownErr)
}
