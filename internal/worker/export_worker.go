// Package worker turns saved-ledger notifications into spreadsheet rows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"splitter/internal/amqp"
	"splitter/internal/cache"
	"splitter/internal/log"
	"splitter/internal/metrics"
	"splitter/internal/sheets"
)

// SnapshotSource delivers snapshot messages until ctx is done.
type SnapshotSource interface {
	ConsumeSnapshots(ctx context.Context, handler amqp.SnapshotHandler) error
}

// ExportWorker appends each saved snapshot to a SnapshotExporter.
// Redelivered snapshots already exported are acknowledged without being
// written twice.
type ExportWorker struct {
	exporter sheets.SnapshotExporter
	seen     *cache.RecentSet
	logger   *log.Logger
	metrics  *metrics.Metrics

	exported atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

func NewExportWorker(exporter sheets.SnapshotExporter, logger *log.Logger, m *metrics.Metrics) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		exporter: exporter,
		seen:     cache.NewRecentSet(1024, 24*time.Hour),
		logger:   logger.WithComponent(log.ComponentWorker),
		metrics:  m,
	}
}

// HandleSnapshot exports one snapshot message.
func (w *ExportWorker) HandleSnapshot(ctx context.Context, msg *amqp.SnapshotSavedMessage) error {
	if msg == nil {
		return errors.New("nil snapshot message")
	}
	id := msg.ID.String()
	if !w.seen.Claim(id) {
		w.skipped.Add(1)
		w.logger.InfoContext(ctx, "Skipping already exported snapshot", log.FieldSnapshotID, id)
		return nil
	}

	ref, err := w.exporter.Export(ctx, sheets.Snapshot{
		ID:      id,
		SavedAt: msg.SavedAt,
		Ledger:  msg.Ledger(),
		Summary: msg.Summary,
	})
	w.metrics.ObserveExport(err)
	if err != nil {
		w.seen.Forget(id)
		w.failed.Add(1)
		return fmt.Errorf("export snapshot %s: %w", id, err)
	}

	w.exported.Add(1)
	w.logger.InfoContext(ctx, "Snapshot exported",
		log.FieldSnapshotID, id,
		log.FieldOperation, log.OpExport,
		log.FieldTotalContrib, msg.Summary.TotalContribution,
		log.FieldTotalExpense, msg.Summary.TotalExpense,
		"ref", ref)
	return nil
}

// Stats reports exported, skipped and failed snapshot counts.
func (w *ExportWorker) Stats() (exported, skipped, failed int64) {
	return w.exported.Load(), w.skipped.Load(), w.failed.Load()
}

// Heartbeat logs progress every interval and prunes the dedupe set.
// It returns nil when ctx is done.
func (w *ExportWorker) Heartbeat(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pruned := w.seen.Prune()
			exported, skipped, failed := w.Stats()
			w.logger.InfoContext(ctx, "Worker heartbeat",
				"exported", exported,
				"skipped", skipped,
				"failed", failed,
				"pruned", pruned,
				"tracked", w.seen.Len())
		}
	}
}

// Run consumes from src and runs the heartbeat until ctx is cancelled or
// the consumer fails. Cancellation is a clean stop.
func (w *ExportWorker) Run(ctx context.Context, src SnapshotSource, heartbeat time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return src.ConsumeSnapshots(gctx, w.HandleSnapshot)
	})
	g.Go(func() error {
		return w.Heartbeat(gctx, heartbeat)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
