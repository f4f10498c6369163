package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"splitter/internal/amqp"
	"splitter/internal/backend"
	"splitter/internal/cli"
	"splitter/internal/log"
	"splitter/internal/metrics"
	"splitter/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	logger.Info("Starting splitter-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	exporter, err := backend.NewExporter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize exporter", log.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.SheetsExportEnabled() {
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	var m *metrics.Metrics
	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)

		srv := metrics.NewServer(":"+cfg.WorkerMetricsPort, reg)
		g.Go(func() error {
			logger.Info("Serving worker metrics", log.FieldOperation, log.OpStartup, "port", cfg.WorkerMetricsPort)
			return metrics.Serve(gctx, srv)
		})
	}

	w := worker.NewExportWorker(exporter, logger, m)
	g.Go(func() error {
		return w.Run(gctx, client, cfg.HeartbeatInterval)
	})
	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}

	exported, skipped, failed := w.Stats()
	logger.Info("Worker stopped gracefully", "exported", exported, "skipped", skipped, "failed", failed)
}
