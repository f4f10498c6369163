package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitter/internal/amqp"
	"splitter/internal/core"
	"splitter/internal/log"
	"splitter/internal/metrics"
	"splitter/internal/sheets/memory"
)

func newMessage() *amqp.SnapshotSavedMessage {
	lg := core.ExampleLedger()
	return amqp.NewSnapshotSavedMessage(lg, core.Calculate(lg))
}

func TestExportWorker_HandleSnapshot(t *testing.T) {
	exporter := memory.New()
	m := metrics.New(prometheus.NewRegistry())
	w := NewExportWorker(exporter, log.Discard(), m)

	msg := newMessage()
	require.NoError(t, w.HandleSnapshot(context.Background(), msg))

	rows := exporter.Rows()
	require.Len(t, rows, 6)
	assert.Equal(t, msg.ID.String(), rows[0][1])
	assert.Equal(t, "Person 1", rows[0][3])
	assert.Equal(t, "45.45 %", rows[0][5])
	assert.Equal(t, "136.36", rows[0][6])
	assert.Equal(t, []string{"total", "", "220.00", "", "300.00"}, rows[5][2:])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotsExported.WithLabelValues("success")))
}

func TestExportWorker_RedeliveryIsIdempotent(t *testing.T) {
	exporter := memory.New()
	w := NewExportWorker(exporter, log.Discard(), nil)

	msg := newMessage()
	require.NoError(t, w.HandleSnapshot(context.Background(), msg))
	require.NoError(t, w.HandleSnapshot(context.Background(), msg))

	assert.Len(t, exporter.Snapshots(), 1)
	exported, skipped, failed := w.Stats()
	assert.Equal(t, int64(1), exported)
	assert.Equal(t, int64(1), skipped)
	assert.Equal(t, int64(0), failed)
}

func TestExportWorker_ExportFailureIsRetryable(t *testing.T) {
	exporter := memory.New()
	m := metrics.New(prometheus.NewRegistry())
	w := NewExportWorker(exporter, log.Discard(), m)
	msg := newMessage()

	exporter.FailWith(errors.New("quota exceeded"))
	err := w.HandleSnapshot(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msg.ID.String())

	exporter.FailWith(nil)
	require.NoError(t, w.HandleSnapshot(context.Background(), msg), "a failed snapshot must not be marked as seen")
	assert.Len(t, exporter.Snapshots(), 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotsExported.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotsExported.WithLabelValues("success")))
}

func TestExportWorker_NilMessage(t *testing.T) {
	w := NewExportWorker(memory.New(), log.Discard(), nil)
	assert.Error(t, w.HandleSnapshot(context.Background(), nil))
}

type fakeSource struct {
	messages []*amqp.SnapshotSavedMessage
	err      error
}

func (f *fakeSource) ConsumeSnapshots(ctx context.Context, handler amqp.SnapshotHandler) error {
	for _, m := range f.messages {
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestExportWorker_Run(t *testing.T) {
	exporter := memory.New()
	w := NewExportWorker(exporter, log.Discard(), nil)
	src := &fakeSource{messages: []*amqp.SnapshotSavedMessage{newMessage(), newMessage()}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, src, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(exporter.Snapshots()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestExportWorker_RunConsumerFailure(t *testing.T) {
	w := NewExportWorker(memory.New(), log.Discard(), nil)
	boom := errors.New("access refused")

	err := w.Run(context.Background(), &fakeSource{err: boom}, time.Hour)
	assert.ErrorIs(t, err, boom)
}
