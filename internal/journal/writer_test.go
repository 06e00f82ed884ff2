package journal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
	"github.com/Mr-Dark-debug/tabkeep/pkg/jsonutil"
)

func newTestWriter(t *testing.T, store Store, cfg Config) *Writer {
	t.Helper()
	w := NewWriter(store, cfg, log.New(&bytes.Buffer{}))
	var clock int64
	w.now = func() int64 {
		clock++
		return clock
	}
	return w
}

func TestWriterFlushesOnStop(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{BatchSize: 50, FlushInterval: time.Hour})
	require.NoError(t, w.Start(context.Background()))

	for i := 0; i < 10; i++ {
		w.Append(&Entry{Op: "create", TabKey: "t"})
	}
	require.NoError(t, w.Stop())

	entries, err := svc.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 10)
	m := w.Metrics()
	require.EqualValues(t, 10, m.Recorded)
	require.EqualValues(t, 10, m.Written)
	require.Zero(t, m.ErrorCount)
}

func TestWriterFlushesFullBatch(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{BatchSize: 3, FlushInterval: time.Hour})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 3; i++ {
		w.Append(&Entry{Op: "create", TabKey: "t"})
	}

	require.Eventually(t, func() bool {
		return w.Metrics().BatchesCommitted == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWriterFlushesOnInterval(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{BatchSize: 100, FlushInterval: 10 * time.Millisecond})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	w.Append(&Entry{Op: "switch", TabKey: "t"})

	require.Eventually(t, func() bool {
		return w.Metrics().Written == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWriterWritesDirectlyWhenBufferFull(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{BatchSize: 1, FlushInterval: time.Hour})

	// Not started: the buffer holds two entries.
	for i := 0; i < 3; i++ {
		w.Append(&Entry{Op: "create", TabKey: "t"})
	}

	entries, err := svc.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.EqualValues(t, 1, w.Metrics().Direct)

	require.NoError(t, w.Stop())
	entries, err = svc.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestWriterDropsAfterStop(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{})
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	w.Append(&Entry{Op: "create", TabKey: "late"})

	require.EqualValues(t, 1, w.Metrics().Dropped)
}

func TestWriterRecordsLifecycle(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{BatchSize: 10, FlushInterval: time.Hour})

	w.RecordLifecycle(tabs.Lifecycle{Op: tabs.OpCreate, Key: "n", Data: tabs.Data{"count": 0}})
	w.RecordLifecycle(tabs.Lifecycle{Op: tabs.OpSwitch, Key: "n", Active: "n", Previous: "m"})
	w.RecordLifecycle(tabs.Lifecycle{
		Op: tabs.OpUpdate, Key: "n", Active: "n",
		PriorData: tabs.Data{"count": 0}, Data: tabs.Data{"count": 1},
	})
	w.RecordLifecycle(tabs.Lifecycle{Op: tabs.OpDuplicate, Key: "n", Active: "n"})
	require.NoError(t, w.Stop())

	entries, err := svc.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byOp := map[string]*Entry{}
	for _, e := range entries {
		byOp[e.Op] = e
	}
	require.JSONEq(t, `{"data":{"count":0}}`, byOp[tabs.OpCreate].Detail)
	require.JSONEq(t, `{"previous":"m"}`, byOp[tabs.OpSwitch].Detail)
	require.Empty(t, byOp[tabs.OpDuplicate].Detail)
	require.Equal(t, "n", byOp[tabs.OpUpdate].ActiveKey)

	var detail struct {
		Diff []jsonutil.Diff `json:"diff"`
	}
	require.NoError(t, jsonUnmarshal(byOp[tabs.OpUpdate].Detail, &detail))
	require.Equal(t, []jsonutil.Diff{{Path: "count", Type: "update", OldValue: "0", NewValue: "1"}}, detail.Diff)
}

func TestWriterAsManagerRecorder(t *testing.T) {
	svc := newTestStore(t)
	w := newTestWriter(t, svc, Config{})
	require.NoError(t, w.Start(context.Background()))

	m := tabs.NewManager(nil, tabs.WithRecorder(w), tabs.WithLogger(log.New(&bytes.Buffer{})))
	m.SetContentContainer(nopContainer{})
	require.NoError(t, m.InitializeTabs([]tabs.Spec{
		{Key: "a", Component: nopComponent{}},
		{Key: "b", Component: nopComponent{}},
	}))
	m.DeleteTab("a")
	require.NoError(t, w.Stop())

	stats, err := svc.Stats()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"create": 2, "switch": 2, "delete": 1}, stats.ByOp, "deleting the active tab switches to the fallback")
}

type failingStore struct {
	Store
}

func (failingStore) Append(*Entry) error        { return errors.New("disk full") }
func (failingStore) BatchAppend([]*Entry) error { return errors.New("disk full") }

func TestWriterStopReportsFailedWrites(t *testing.T) {
	w := newTestWriter(t, failingStore{}, Config{BatchSize: 10, FlushInterval: time.Hour})
	require.NoError(t, w.Start(context.Background()))

	w.Append(&Entry{Op: "create", TabKey: "t"})

	err := w.Stop()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 failed writes")
	require.Zero(t, w.Metrics().Written)
}
