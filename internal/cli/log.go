package cli

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ccreverse/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms"
// (e.g., "14:32:01.45"), filtering below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Reconstructed 42 assets (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// phaseHooks reports pipeline phases to the debug log and, when set, to a
// spinner. It counts completed phases, skipped records by reason and image
// cache lookups.
type phaseHooks struct {
	logger    *log.Logger
	spinner   *Spinner
	completed atomic.Int32
	hits      atomic.Int64
	misses    atomic.Int64

	mu    sync.Mutex
	skips map[observability.SkipReason]int
}

var (
	_ observability.PipelineHooks = (*phaseHooks)(nil)
	_ observability.RecordHooks   = (*phaseHooks)(nil)
	_ observability.CacheHooks    = (*phaseHooks)(nil)
)

func (h *phaseHooks) status(format string, args ...any) {
	if h.spinner != nil {
		h.spinner.Updatef(format, args...)
	}
}

func (h *phaseHooks) OnScanStart(_ context.Context, documents int) {
	h.status("Scanning %d documents", documents)
}

func (h *phaseHooks) OnScanComplete(_ context.Context, documents, records int, d time.Duration, err error) {
	h.completed.Add(1)
	h.logger.Debug("scan finished", "documents", documents, "records", records, "duration", d, "err", err)
}

func (h *phaseHooks) OnResolveStart(context.Context) {
	h.status("Resolving sprite sheets and fonts")
}

func (h *phaseHooks) OnResolveComplete(_ context.Context, writes, copies int, d time.Duration, err error) {
	h.completed.Add(1)
	h.logger.Debug("resolve finished", "writes", writes, "copies", copies, "duration", d, "err", err)
}

func (h *phaseHooks) OnFlushStart(_ context.Context, writes, copies int) {
	h.status("Writing %d files", writes+copies)
}

func (h *phaseHooks) OnFlushComplete(_ context.Context, writes, copies int, d time.Duration, err error) {
	h.completed.Add(1)
	h.logger.Debug("flush finished", "writes", writes, "copies", copies, "duration", d, "err", err)
}

func (h *phaseHooks) OnCacheHit(context.Context, string) {
	h.hits.Add(1)
}

func (h *phaseHooks) OnCacheMiss(context.Context, string) {
	h.misses.Add(1)
}

func (h *phaseHooks) OnCacheSet(context.Context, string, int) {}

func (h *phaseHooks) OnRecordSkipped(_ context.Context, kind, name string, reason observability.SkipReason) {
	h.mu.Lock()
	if h.skips == nil {
		h.skips = make(map[observability.SkipReason]int)
	}
	h.skips[reason]++
	h.mu.Unlock()
	h.logger.Debug("record skipped", "kind", kind, "name", name, "reason", reason)
}

// skipped returns the number of records skipped for reason.
func (h *phaseHooks) skipped(reason observability.SkipReason) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.skips[reason]
}

// logCounters writes the skip and image cache counters at debug level.
func (h *phaseHooks) logCounters() {
	h.mu.Lock()
	for reason, n := range h.skips {
		h.logger.Debug("skipped records", "reason", reason, "count", n)
	}
	h.mu.Unlock()
	h.logger.Debug("image size cache", "hits", h.hits.Load(), "misses", h.misses.Load())
}
