package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitter/internal/core"
	"splitter/internal/log"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Close() error                                      { return nil }

func newStore(kv KV, opts FinanceStoreOptions) *FinanceStore {
	opts.Logger = log.Discard()
	return NewFinanceStore(kv, opts)
}

func TestFinanceStore_LoadEmpty(t *testing.T) {
	store := newStore(NewMemoryKV(), FinanceStoreOptions{})

	lg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lg.Contributions)
	assert.Empty(t, lg.Expenses)
	assert.NotNil(t, lg.Contributions)
}

func TestFinanceStore_LoadSeeded(t *testing.T) {
	store := newStore(NewMemoryKV(), FinanceStoreOptions{SeedWithExamples: true})

	lg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.ExampleLedger(), lg)
}

func TestFinanceStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := newStore(kv, FinanceStoreOptions{})

	want := core.Ledger{
		Contributions: core.ItemList{{Label: "Alice", Value: "100"}, {Label: "Bob", Value: "1,5"}},
		Expenses:      core.ItemList{},
	}
	require.NoError(t, store.Save(ctx, want))

	raw, _, err := kv.Get(ctx, ExpensesKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	raw, _, err = kv.Get(ctx, DefaultContributionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"Alice","value":"100"},{"label":"Bob","value":"1,5"}]`, raw)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFinanceStore_SaveNilListsWritesArrays(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := newStore(kv, FinanceStoreOptions{})

	require.NoError(t, store.Save(ctx, core.Ledger{}))

	for _, key := range []string{DefaultContributionsKey, ExpensesKey} {
		raw, found, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", raw, key)
	}
}

func TestFinanceStore_MalformedJSONFallsBackPerKey(t *testing.T) {
	tests := []struct {
		name              string
		contributions     string
		seed              bool
		wantContributions core.ItemList
	}{
		{name: "garbage", contributions: "{not json", wantContributions: core.ItemList{}},
		{name: "object instead of array", contributions: `{"label":"A"}`, wantContributions: core.ItemList{}},
		{name: "null", contributions: "null", wantContributions: core.ItemList{}},
		{name: "garbage with seeding", contributions: "{not json", seed: true, wantContributions: core.ExampleLedger().Contributions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, DefaultContributionsKey, tt.contributions))
			require.NoError(t, kv.Set(ctx, ExpensesKey, `[{"label":"Rent","value":"500"}]`))

			store := newStore(kv, FinanceStoreOptions{SeedWithExamples: tt.seed})
			lg, err := store.Load(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.wantContributions, lg.Contributions)
			assert.Equal(t, core.ItemList{{Label: "Rent", Value: "500"}}, lg.Expenses)
		})
	}
}

func TestFinanceStore_NumericValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, DefaultContributionsKey, `[{"label":"A","value":100},{"label":"B","value":"20.5"}]`))

	lg, err := newStore(kv, FinanceStoreOptions{}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ItemList{{Label: "A", Value: "100"}, {Label: "B", Value: "20.5"}}, lg.Contributions)
}

func TestFinanceStore_IncomesKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := newStore(kv, FinanceStoreOptions{ContributionsKey: "incomes"})

	require.NoError(t, store.Save(ctx, core.Ledger{Contributions: core.ItemList{{Label: "A", Value: "1"}}}))

	_, found, err := kv.Get(ctx, "incomes")
	require.NoError(t, err)
	assert.True(t, found)
	_, found, err = kv.Get(ctx, DefaultContributionsKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFinanceStore_BackendErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	store := newStore(failingKV{err: boom}, FinanceStoreOptions{})

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, boom)

	err = store.Save(context.Background(), core.Ledger{})
	assert.ErrorIs(t, err, boom)
}
