package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitter/internal/core"
	"splitter/internal/log"
	"splitter/internal/services"
	"splitter/internal/storage"
)

type testEnv struct {
	env   *Env
	out   *bytes.Buffer
	store *storage.FinanceStore
}

func newTestEnv(t *testing.T, stdin string) *testEnv {
	t.Helper()
	out := &bytes.Buffer{}
	store := storage.NewFinanceStore(storage.NewMemoryKV(), storage.FinanceStoreOptions{
		SeedWithExamples: true,
		Logger:           log.Discard(),
	})
	te := &testEnv{out: out, store: store}
	te.env = &Env{
		In:  strings.NewReader(stdin),
		Out: out,
		Open: func(ctx context.Context) (*services.FinanceService, func() error, error) {
			svc := services.NewFinanceService(store, services.FinanceServiceOptions{Logger: log.Discard()})
			if err := svc.Load(ctx); err != nil {
				return nil, nil, err
			}
			return svc, func() error { return nil }, nil
		},
	}
	return te
}

func (te *testEnv) run(args ...string) error {
	root := NewRootCommand(te.env)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestCalc_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"contributions": [{"label": "C1", "value": "100"}, {"label": "C2", "value": 200}],
		"expenses": [{"label": "E1", "value": "150"}]
	}`), 0o600))

	te := newTestEnv(t, "")
	require.NoError(t, te.run("calc", "--file", path))

	out := te.out.String()
	for _, want := range []string{"300.00", "150.00", "33.33 %", "66.67 %", "50.00", "100.00", "C2"} {
		assert.Contains(t, out, want)
	}
}

func TestCalc_StdinJSON(t *testing.T) {
	te := newTestEnv(t, `{"contributions":[{"label":"A","value":"-100"},{"label":"B","value":"-200"}],"expenses":[{"label":"E","value":"-50"}]}`)
	require.NoError(t, te.run("calc", "-f", "-", "--json"))

	var s core.Summary
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &s))
	assert.Equal(t, "-300.00", s.TotalContribution)
	assert.Equal(t, []core.DerivedAmount{{Label: "A", Value: "0.00 %"}, {Label: "B", Value: "0.00 %"}}, s.PercentShares)
	assert.Equal(t, []core.DerivedAmount{{Label: "A", Value: "0.00"}, {Label: "B", Value: "0.00"}}, s.ToPay)
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "missing flag", args: []string{"calc"}},
		{name: "missing file", args: []string{"calc", "-f", filepath.Join(t.TempDir(), "nope.json")}},
		{name: "empty stdin", args: []string{"calc", "-f", "-"}},
		{name: "bad json", stdin: "{", args: []string{"calc", "-f", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t, tt.stdin)
			assert.Error(t, te.run(tt.args...))
		})
	}
}

func TestShow(t *testing.T) {
	te := newTestEnv(t, "")
	require.NoError(t, te.run("show"))

	out := te.out.String()
	for _, want := range []string{"Contributions", "Person 1", "Expense 3", "-20", "220.00", "45.45 %", "163.64"} {
		assert.Contains(t, out, want)
	}
}

func TestAddEditDelete(t *testing.T) {
	te := newTestEnv(t, "")
	ctx := context.Background()

	require.NoError(t, te.run("add", "income", "Person 3", "80"))
	lg, err := te.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, lg.Contributions, 3)
	assert.Equal(t, core.FinanceItem{Label: "Person 3", Value: "80"}, lg.Contributions[2])

	require.NoError(t, te.run("edit", "contribution", "2", "Third"))
	require.NoError(t, te.run("rm", "expense", "0"))
	require.NoError(t, te.run("delete", "expense", "42"))

	lg, err = te.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Third", lg.Contributions[2].Label)
	assert.Equal(t, "80", lg.Contributions[2].Value)
	assert.Equal(t, core.ItemList{{Label: "Expense 2", Value: "290"}, {Label: "Expense 3", Value: "-20"}}, lg.Expenses)
}

func TestMutations_BadArgs(t *testing.T) {
	te := newTestEnv(t, "")

	assert.ErrorIs(t, te.run("add", "savings", "x", "1"), core.ErrUnknownKind)
	assert.Error(t, te.run("edit", "expense", "one", "x"))
	assert.Error(t, te.run("delete", "expense"))
	assert.ErrorIs(t, te.run("add", "expense", " ", "10"), errBlankItem)
	assert.ErrorIs(t, te.run("add", "expense", "Rent", ""), errBlankItem)
	assert.ErrorIs(t, te.run("edit", "expense", "0", "  "), errBlankLabel)

	lg, err := te.store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, lg.Expenses, 3)
	assert.Equal(t, "Expense 1", lg.Expenses[0].Label)
}
