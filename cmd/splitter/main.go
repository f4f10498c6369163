package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"splitter/internal/backend"
	"splitter/internal/cli"
	apphttp "splitter/internal/http"
	"splitter/internal/log"
	"splitter/internal/metrics"
	"splitter/internal/services"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err.Error(), log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to close storage", log.FieldError, err.Error())
		}
	}()

	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	opts := services.FinanceServiceOptions{Logger: logger, Metrics: m}
	notifier, err := backend.NewNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without notifications", log.FieldError, err.Error())
	} else if notifier != nil {
		opts.Notifier = notifier
		defer notifier.Close()
		logger.Info("Save notifications enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := services.NewFinanceService(res.Store, opts)
	if err := svc.Load(ctx); err != nil {
		logger.Warn("Starting with an empty ledger", log.FieldError, err.Error())
	}

	srvOpts := apphttp.Options{
		Addr:               ":" + cfg.Port,
		Service:            svc,
		Store:              res.Store,
		Logger:             logger,
		Metrics:            m,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}
	if reg != nil {
		srvOpts.Gatherer = reg
	}
	srv := apphttp.NewServer(srvOpts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting splitter server", log.FieldOperation, log.OpStartup, "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
