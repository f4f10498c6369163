package services

import (
	"context"
	"fmt"
	"sync"

	"splitter/internal/core"
	"splitter/internal/log"
	"splitter/internal/metrics"
)

// LedgerStore persists a ledger between sessions.
type LedgerStore interface {
	Load(ctx context.Context) (core.Ledger, error)
	Save(ctx context.Context, lg core.Ledger) error
}

// Notifier is told about every successful save.
type Notifier interface {
	NotifySaved(ctx context.Context, lg core.Ledger, summary core.Summary) error
}

// FinanceServiceOptions holds the optional collaborators of a FinanceService.
type FinanceServiceOptions struct {
	Notifier Notifier
	Logger   *log.Logger
	Metrics  *metrics.Metrics
}

// FinanceService owns one ledger and serializes every access to it.
// Summaries are always derived from the current ledger on request.
type FinanceService struct {
	mu       sync.Mutex
	ledger   core.Ledger
	calc     core.Calculator
	store    LedgerStore
	notifier Notifier
	logger   *log.Logger
	events   *log.StructuredLogger
	metrics  *metrics.Metrics
}

func NewFinanceService(store LedgerStore, opts FinanceServiceOptions) *FinanceService {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &FinanceService{
		ledger:   core.Ledger{Contributions: core.ItemList{}, Expenses: core.ItemList{}},
		store:    store,
		notifier: opts.Notifier,
		logger:   logger.WithComponent(log.ComponentLedger),
		events:   log.NewStructuredLogger(logger),
		metrics:  opts.Metrics,
	}
}

// Load replaces the ledger with the stored one. On failure the ledger is
// emptied and the error returned for the caller to log.
func (s *FinanceService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lg, err := s.store.Load(ctx)
	if err != nil {
		s.ledger = core.Ledger{Contributions: core.ItemList{}, Expenses: core.ItemList{}}
		s.events.LogError(ctx, "Failed to load ledger", err, log.ComponentLedger, log.OpLoad, nil)
		return fmt.Errorf("load ledger: %w", err)
	}
	s.ledger = lg.Clone()
	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"contributions", len(lg.Contributions),
		"expenses", len(lg.Expenses))
	return nil
}

// Add appends an item to the list selected by kind.
func (s *FinanceService) Add(ctx context.Context, kind core.FinanceType, label, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger.List(kind) == nil {
		return core.ErrUnknownKind
	}
	s.ledger.Add(kind, label, value)
	s.metrics.ObserveMutation(string(kind), log.OpAdd)
	s.events.LogLedgerMutation(ctx, log.OpAdd, string(kind), -1, label)
	return nil
}

// EditLabel renames the item at index. An index outside the list changes
// nothing and is not an error.
func (s *FinanceService) EditLabel(ctx context.Context, kind core.FinanceType, index int, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.ledger.List(kind)
	if list == nil {
		return core.ErrUnknownKind
	}
	if index < 0 || index >= list.Len() {
		s.logger.DebugContext(ctx, "Ignoring edit of missing item", log.FieldKind, string(kind), log.FieldIndex, index)
		return nil
	}
	list.EditLabel(index, label)
	s.metrics.ObserveMutation(string(kind), log.OpEditLabel)
	s.events.LogLedgerMutation(ctx, log.OpEditLabel, string(kind), index, label)
	return nil
}

// Delete removes the item at index. An index outside the list changes
// nothing and is not an error.
func (s *FinanceService) Delete(ctx context.Context, kind core.FinanceType, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.ledger.List(kind)
	if list == nil {
		return core.ErrUnknownKind
	}
	if index < 0 || index >= list.Len() {
		s.logger.DebugContext(ctx, "Ignoring delete of missing item", log.FieldKind, string(kind), log.FieldIndex, index)
		return nil
	}
	list.DeleteAt(index)
	s.metrics.ObserveMutation(string(kind), log.OpDelete)
	s.events.LogLedgerMutation(ctx, log.OpDelete, string(kind), index, "")
	return nil
}

// Summary recomputes totals, shares and amounts owed from the current ledger.
func (s *FinanceService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute()
}

func (s *FinanceService) recompute() core.Summary {
	s.metrics.ObserveCalculation()
	return s.calc.Recompute(s.ledger)
}

// Ledger returns a copy of the current ledger.
func (s *FinanceService) Ledger() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// View returns a consistent ledger copy together with its summary.
func (s *FinanceService) View() (core.Ledger, core.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone(), s.recompute()
}

// Save persists the ledger and then notifies. A notification failure is
// logged and does not fail the save.
func (s *FinanceService) Save(ctx context.Context) error {
	s.mu.Lock()
	lg := s.ledger.Clone()
	summary := s.recompute()
	err := s.store.Save(ctx, lg)
	s.mu.Unlock()

	s.metrics.ObserveSave(err)
	if err != nil {
		s.events.LogError(ctx, "Failed to save ledger", err, log.ComponentLedger, log.OpSave,
			log.NewFields().WithTotals(summary.TotalContribution, summary.TotalExpense))
		return fmt.Errorf("save ledger: %w", err)
	}
	s.logger.InfoContext(ctx, "Ledger saved",
		log.FieldOperation, log.OpSave,
		log.FieldTotalContrib, summary.TotalContribution,
		log.FieldTotalExpense, summary.TotalExpense)

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.NotifySaved(ctx, lg, summary); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish save notification",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpPublish)
	}
	return nil
}
