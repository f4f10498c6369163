// Package memory is an in-process SnapshotExporter used when no
// spreadsheet is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"splitter/internal/sheets"
)

type Exporter struct {
	mu        sync.Mutex
	rows      [][]string
	snapshots []string
	failWith  error
}

var _ sheets.SnapshotExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Export stores the snapshot's rows and returns a synthetic range reference.
func (e *Exporter) Export(_ context.Context, s sheets.Snapshot) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failWith != nil {
		return "", e.failWith
	}
	first := len(e.rows) + 1
	e.rows = append(e.rows, sheets.SnapshotRows(s)...)
	e.snapshots = append(e.snapshots, s.ID)
	return fmt.Sprintf("mem!A%d:G%d", first, len(e.rows)), nil
}

// Rows returns a copy of everything exported so far.
func (e *Exporter) Rows() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]string, len(e.rows))
	for i, r := range e.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Snapshots returns the ids of exported snapshots in export order.
func (e *Exporter) Snapshots() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.snapshots...)
}

// FailWith makes every later Export return err. Pass nil to recover.
func (e *Exporter) FailWith(err error) {
	e.mu.Lock()
	e.failWith = err
	e.mu.Unlock()
}
