package journal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
	"github.com/Mr-Dark-debug/tabkeep/pkg/jsonutil"
	"github.com/Mr-Dark-debug/tabkeep/pkg/timeutil"
)

// Config holds writer batching parameters.
type Config struct {
	// BatchSize is the number of entries that triggers a flush.
	BatchSize int `json:"batch_size"`
	// FlushInterval is the maximum time an entry waits in the buffer.
	FlushInterval time.Duration `json:"flush_interval"`
}

// DefaultConfig returns the writer defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: 500 * time.Millisecond,
	}
}

// Metrics tracks writer throughput.
type Metrics struct {
	Recorded         int64 `json:"recorded"`
	Written          int64 `json:"written"`
	Direct           int64 `json:"direct"`
	Dropped          int64 `json:"dropped"`
	ErrorCount       int64 `json:"error_count"`
	BatchesCommitted int64 `json:"batches_committed"`
}

// Writer buffers entries on a channel and flushes them to a Store in
// batches from its own goroutine. It implements tabs.Recorder, so recording
// never blocks the UI goroutine: when the buffer is full the entry is
// written synchronously instead.
type Writer struct {
	config  Config
	store   Store
	logger  *log.Logger
	now     func() int64
	metrics Metrics

	entries chan *Entry

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
}

// NewWriter creates a writer for store. Zero config fields take defaults;
// a nil logger falls back to log.Default().
func NewWriter(store Store, config Config, logger *log.Logger) *Writer {
	def := DefaultConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = def.FlushInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{
		config:  config,
		store:   store,
		logger:  logger,
		now:     timeutil.NowNano,
		entries: make(chan *Entry, config.BatchSize*2),
	}
}

// Start launches the flush loop. Entries appended before Start stay
// buffered until it runs.
func (w *Writer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return nil
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.flushLoop(ctx)

	w.logger.Debug("journal writer started", "batch_size", w.config.BatchSize, "flush_interval", w.config.FlushInterval)
	return nil
}

// Stop closes the buffer, waits for the flush loop to write what is left
// and returns. Later entries are dropped. The error reports writes that
// failed over the writer's lifetime.
func (w *Writer) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.entries)
	started := w.started
	w.mu.Unlock()

	if started {
		w.wg.Wait()
		w.cancel()
	}
	// Whatever the loop did not take: never started, or its context ended
	// before Stop.
	var rest []*Entry
	for e := range w.entries {
		rest = append(rest, e)
	}
	w.flush(rest)

	m := w.Metrics()
	w.logger.Debug("journal writer stopped", "written", m.Written, "errors", m.ErrorCount)
	if m.ErrorCount > 0 {
		return fmt.Errorf("journal writer: %d failed writes", m.ErrorCount)
	}
	return nil
}

// Metrics returns a snapshot of the writer counters.
func (w *Writer) Metrics() Metrics {
	return Metrics{
		Recorded:         atomic.LoadInt64(&w.metrics.Recorded),
		Written:          atomic.LoadInt64(&w.metrics.Written),
		Direct:           atomic.LoadInt64(&w.metrics.Direct),
		Dropped:          atomic.LoadInt64(&w.metrics.Dropped),
		ErrorCount:       atomic.LoadInt64(&w.metrics.ErrorCount),
		BatchesCommitted: atomic.LoadInt64(&w.metrics.BatchesCommitted),
	}
}

// Append queues e. A zero timestamp is set to now.
func (w *Writer) Append(e *Entry) {
	if e.Timestamp == 0 {
		e.Timestamp = w.now()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		atomic.AddInt64(&w.metrics.Dropped, 1)
		return
	}
	atomic.AddInt64(&w.metrics.Recorded, 1)

	select {
	case w.entries <- e:
	default:
		atomic.AddInt64(&w.metrics.Direct, 1)
		if err := w.store.Append(e); err != nil {
			w.logger.Error("writing journal entry", "err", err)
			atomic.AddInt64(&w.metrics.ErrorCount, 1)
			return
		}
		atomic.AddInt64(&w.metrics.Written, 1)
	}
}

// RecordLifecycle converts a manager lifecycle record into an entry.
func (w *Writer) RecordLifecycle(rec tabs.Lifecycle) {
	w.Append(&Entry{
		Op:        rec.Op,
		TabKey:    rec.Key,
		ActiveKey: rec.Active,
		Detail:    w.detail(rec),
	})
}

// detail renders the op-specific JSON payload of an entry.
func (w *Writer) detail(rec tabs.Lifecycle) string {
	var payload map[string]any
	switch rec.Op {
	case tabs.OpCreate, tabs.OpDelete:
		payload = map[string]any{"data": rec.Data}
	case tabs.OpUpdate:
		diff, err := jsonutil.DiffValues(rec.PriorData, rec.Data)
		if err != nil {
			w.logger.Warn("cannot diff tab data", "tab", rec.Key, "err", err)
			return ""
		}
		payload = map[string]any{"diff": diff}
	case tabs.OpSwitch:
		payload = map[string]any{"previous": rec.Previous}
	default:
		return ""
	}

	s, err := jsonutil.Marshal(payload)
	if err != nil {
		w.logger.Warn("cannot encode journal detail", "tab", rec.Key, "op", rec.Op, "err", err)
		return ""
	}
	return s
}

// flushLoop commits when BatchSize entries accumulate, when FlushInterval
// elapses, and once more on shutdown.
func (w *Writer) flushLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	buf := make([]*Entry, 0, w.config.BatchSize)
	flush := func() {
		w.flush(buf)
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// Take whatever is already queued, then stop.
			for {
				select {
				case e, ok := <-w.entries:
					if !ok {
						flush()
						return
					}
					buf = append(buf, e)
				default:
					flush()
					return
				}
			}

		case e, ok := <-w.entries:
			if !ok {
				flush()
				return
			}
			buf = append(buf, e)
			if len(buf) >= w.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (w *Writer) flush(buf []*Entry) {
	if len(buf) == 0 {
		return
	}
	if err := w.store.BatchAppend(buf); err != nil {
		w.logger.Error("flushing journal batch", "entries", len(buf), "err", err)
		atomic.AddInt64(&w.metrics.ErrorCount, 1)
		return
	}
	atomic.AddInt64(&w.metrics.BatchesCommitted, 1)
	atomic.AddInt64(&w.metrics.Written, int64(len(buf)))
}
