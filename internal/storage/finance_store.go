package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"splitter/internal/core"
	"splitter/internal/log"
)

// Default storage keys.
const (
	DefaultContributionsKey = "contributions"
	ExpensesKey             = "expenses"
)

// FinanceStoreOptions configures a FinanceStore.
type FinanceStoreOptions struct {
	// ContributionsKey is the key the contributions list lives under.
	// Empty means DefaultContributionsKey.
	ContributionsKey string
	// SeedWithExamples makes a missing or unreadable list fall back to the
	// example data instead of an empty list.
	SeedWithExamples bool
	Logger           *log.Logger
}

// FinanceStore loads and saves a ledger as two JSON arrays in a KV.
type FinanceStore struct {
	kv               KV
	contributionsKey string
	seed             bool
	logger           *log.Logger
}

func NewFinanceStore(kv KV, opts FinanceStoreOptions) *FinanceStore {
	key := opts.ContributionsKey
	if key == "" {
		key = DefaultContributionsKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &FinanceStore{
		kv:               kv,
		contributionsKey: key,
		seed:             opts.SeedWithExamples,
		logger:           logger.WithComponent(log.ComponentStorage),
	}
}

// Load reads both lists. Each key falls back to its default on its own: a
// missing key or malformed JSON under one key leaves the other untouched.
// Only backend failures are returned.
func (s *FinanceStore) Load(ctx context.Context) (core.Ledger, error) {
	var defaults core.Ledger
	if s.seed {
		defaults = core.ExampleLedger()
	}

	contributions, err := s.loadList(ctx, s.contributionsKey, defaults.Contributions)
	if err != nil {
		return core.Ledger{}, err
	}
	expenses, err := s.loadList(ctx, ExpensesKey, defaults.Expenses)
	if err != nil {
		return core.Ledger{}, err
	}
	return core.Ledger{Contributions: contributions, Expenses: expenses}, nil
}

func (s *FinanceStore) loadList(ctx context.Context, key string, fallback core.ItemList) (core.ItemList, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return fallback.Clone(), nil
	}

	var list core.ItemList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.WarnContext(ctx, "Ignoring malformed stored list",
			log.FieldKey, key,
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpLoad)
		return fallback.Clone(), nil
	}
	// "null" decodes to a nil list; normalize so callers always see [].
	return list.Clone(), nil
}

// Save overwrites both keys. Empty lists are written as [].
func (s *FinanceStore) Save(ctx context.Context, lg core.Ledger) error {
	if err := s.saveList(ctx, s.contributionsKey, lg.Contributions); err != nil {
		return err
	}
	return s.saveList(ctx, ExpensesKey, lg.Expenses)
}

func (s *FinanceStore) saveList(ctx context.Context, key string, list core.ItemList) error {
	data, err := json.Marshal(list.Clone())
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Stored list",
		log.FieldKey, key,
		log.FieldItemCount, len(list),
		log.FieldOperation, log.OpSave)
	return nil
}

// Ping checks the underlying backend when it supports it.
func (s *FinanceStore) Ping(ctx context.Context) error {
	if p, ok := s.kv.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the underlying KV.
func (s *FinanceStore) Close() error {
	return s.kv.Close()
}
