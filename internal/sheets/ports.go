// Package sheets exports saved ledger snapshots as spreadsheet rows.
package sheets

import (
	"context"
	"time"

	"splitter/internal/core"
)

// Row kinds written in the third column.
const (
	KindContribution = "contribution"
	KindExpense      = "expense"
	KindTotal        = "total"
)

// Header names the columns of every exported row, in order.
var Header = []string{"saved_at", "snapshot_id", "kind", "label", "value", "percent_share", "to_pay"}

type (
	// Snapshot is one saved state of a ledger with the summary computed at save time.
	Snapshot struct {
		ID      string
		SavedAt time.Time
		Ledger  core.Ledger
		Summary core.Summary
	}

	// SnapshotExporter appends a snapshot somewhere durable and returns a
	// reference to what it wrote.
	SnapshotExporter interface {
		Export(ctx context.Context, s Snapshot) (ref string, err error)
	}
)

// SnapshotRows flattens s into rows laid out as Header. Contributions come
// first with their share and amount owed, then expenses, then one total row
// holding the contribution total under value and the expense total under
// to_pay.
func SnapshotRows(s Snapshot) [][]string {
	savedAt := s.SavedAt.UTC().Format(time.RFC3339)
	rows := make([][]string, 0, len(s.Ledger.Contributions)+len(s.Ledger.Expenses)+1)

	for i, it := range s.Ledger.Contributions {
		var share, pay string
		if i < len(s.Summary.PercentShares) {
			share = s.Summary.PercentShares[i].Value
		}
		if i < len(s.Summary.ToPay) {
			pay = s.Summary.ToPay[i].Value
		}
		rows = append(rows, []string{savedAt, s.ID, KindContribution, it.Label, it.Value, share, pay})
	}
	for _, it := range s.Ledger.Expenses {
		rows = append(rows, []string{savedAt, s.ID, KindExpense, it.Label, it.Value, "", ""})
	}
	rows = append(rows, []string{savedAt, s.ID, KindTotal, "", s.Summary.TotalContribution, "", s.Summary.TotalExpense})
	return rows
}
