package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"unitconv/internal/api"
	"unitconv/internal/config"
	"unitconv/internal/logging"
	"unitconv/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Flags and config
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	flags.String("address", ":8080", "listen address")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("allow-negative", false, "accept negative lengths, weights and volumes")
	flags.Int("workers", 0, "batch worker count (0 = number of CPUs)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// 2. Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}

	// 3. Handler + Echo
	h := api.NewHandler(
		api.WithLogger(logger),
		api.WithMetrics(rec),
		api.WithAllowNegative(cfg.AllowNegative),
		api.WithWorkers(cfg.Batch.Workers),
	)
	e := api.NewServer(h, api.ServerOptions{
		Logger:    logger,
		Gatherer:  reg,
		RateLimit: cfg.Server.RateLimit,
	})

	// 4. Start Server, stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server ready", zap.String("address", cfg.Server.Address))
		errCh <- e.Start(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
