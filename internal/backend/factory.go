package backend

import (
	"context"
	"fmt"

	"splitter/internal/amqp"
	"splitter/internal/config"
	"splitter/internal/log"
	"splitter/internal/sheets"
	gsheet "splitter/internal/sheets/google"
	"splitter/internal/sheets/memory"
	"splitter/internal/storage"
)

// DefaultFactory opens the KV store named by Config.Type and wraps it in a
// storage.FinanceStore.
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		kv  storage.KV
		err error
	)
	switch cfg.Type {
	case SQLiteBackend:
		kv, err = storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case RedisBackend:
		kv, err = storage.NewRedisKV(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis backend: %w", err)
		}
		f.logger.Info("Initialized Redis backend", "addr", cfg.Redis.Addr, "key_prefix", cfg.Redis.KeyPrefix)
	default:
		kv = storage.NewMemoryKV()
		f.logger.Info("Initialized memory backend")
	}

	store := storage.NewFinanceStore(kv, storage.FinanceStoreOptions{
		ContributionsKey: cfg.ContributionsKey,
		SeedWithExamples: cfg.SeedWithExamples,
		Logger:           f.logger,
	})
	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

// NewNotifier connects the AMQP publisher when AMQP_URL is set. It returns
// nil, nil when notifications are disabled.
func NewNotifier(cfg *config.Config, logger *log.Logger) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize amqp client: %w", err)
	}
	return client, nil
}

// NewExporter returns the Google Sheets exporter when a spreadsheet is
// configured and the in-memory exporter otherwise.
func NewExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.SnapshotExporter, error) {
	if !cfg.SheetsExportEnabled() {
		logger.WithComponent(log.ComponentSheets).Warn("No spreadsheet configured, snapshots are kept in memory only")
		return memory.New(), nil
	}
	exp, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize google sheets exporter: %w", err)
	}
	return exp, nil
}
