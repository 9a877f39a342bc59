// Package observability provides hooks into a reconstruction run.
//
// Libraries emit events through the package-level registry; the CLI
// registers implementations that drive its spinner and debug log. Nothing
// is registered by default, so library users pay for no-op calls only.
//
// Three event families exist:
//   - pipeline phases (scan, resolve, flush) with counts and durations
//   - records that produced no output, with the reason
//   - in-process cache lookups (image dimensions)
//
// # Usage
//
// Register hooks before starting a run and reset them afterwards:
//
//	observability.SetPipelineHooks(hooks)
//	observability.SetRecordHooks(hooks)
//	defer observability.Reset()
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnScanStart(ctx, len(docs))
//	// ... first pass ...
//	observability.Pipeline().OnScanComplete(ctx, len(docs), records, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the reconstruction pipeline.
type PipelineHooks interface {
	// Scan events (first pass over import documents)
	OnScanStart(ctx context.Context, documents int)
	OnScanComplete(ctx context.Context, documents, records int, duration time.Duration, err error)

	// Resolve events (second pass)
	OnResolveStart(ctx context.Context)
	OnResolveComplete(ctx context.Context, writes, copies int, duration time.Duration, err error)

	// Flush events
	OnFlushStart(ctx context.Context, writes, copies int)
	OnFlushComplete(ctx context.Context, writes, copies int, duration time.Duration, err error)
}

// =============================================================================
// Record Hooks
// =============================================================================

// SkipReason says why a record produced no output.
type SkipReason string

// Skip reasons.
const (
	SkipMalformed     SkipReason = "malformed"      // known tag, missing fields
	SkipMissingNative SkipReason = "missing_native" // raw file absent from the build
	SkipDroppedFont   SkipReason = "dropped_font"   // bitmap font without a usable frame
	SkipEmitFailed    SkipReason = "emit_failed"    // output could not be encoded
)

// RecordHooks receives events about individual asset records.
type RecordHooks interface {
	// OnRecordSkipped is called once per record left out of the project.
	// kind is the record kind or, for malformed records, the type tag.
	OnRecordSkipped(ctx context.Context, kind, name string, reason SkipReason)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from in-process caches.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnScanStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnScanComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnResolveStart(context.Context)                                    {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnFlushStart(context.Context, int, int)                            {}
func (NoopPipelineHooks) OnFlushComplete(context.Context, int, int, time.Duration, error)   {}

// NoopRecordHooks is a no-op implementation of RecordHooks.
type NoopRecordHooks struct{}

func (NoopRecordHooks) OnRecordSkipped(context.Context, string, string, SkipReason) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	recordHooks   RecordHooks   = NoopRecordHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetRecordHooks registers record hooks. A nil h is ignored.
func SetRecordHooks(h RecordHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		recordHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Records returns the registered record hooks.
func Records() RecordHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return recordHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	recordHooks = NoopRecordHooks{}
	cacheHooks = NoopCacheHooks{}
}
