// Package observability provides hooks for metrics, tracing, and logging.
//
// The compiler packages emit events through hook interfaces without depending
// on any observability backend. Commands register implementations at startup;
// until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetReductionHooks(&myReductionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Reduction().OnReductionStart(ctx, termSize)
//	// ... explore ...
//	observability.Reduction().OnReductionComplete(ctx, vertices, edges, duration, err)
//
// [NewLogHooks] returns an implementation of every hook interface that writes
// debug records to a charm logger, which is what the CLI installs for
// --verbose.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the parse and render stages.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, sourceLen int)
	OnParseComplete(ctx context.Context, termSize int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Map Hooks
// =============================================================================

// MapHooks receives events from term map compilation.
type MapHooks interface {
	OnMapStart(ctx context.Context, termSize int)
	OnMapComplete(ctx context.Context, nodes, edges, redexes int, duration time.Duration, err error)
}

// =============================================================================
// Reduction Hooks
// =============================================================================

// ReductionHooks receives events from reduction graph exploration.
type ReductionHooks interface {
	OnReductionStart(ctx context.Context, termSize int)
	OnReductionComplete(ctx context.Context, vertices, edges int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives lookups and writes of a cache. keyType names the
// cache; the reduction successor memo reports "reduction".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives every request of the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// The Noop types are the defaults. Embed one to implement part of an
// interface.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type NoopMapHooks struct{}

func (NoopMapHooks) OnMapStart(context.Context, int)                                   {}
func (NoopMapHooks) OnMapComplete(context.Context, int, int, int, time.Duration, error) {}

type NoopReductionHooks struct{}

func (NoopReductionHooks) OnReductionStart(context.Context, int)                              {}
func (NoopReductionHooks) OnReductionComplete(context.Context, int, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	cur  atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if h := s.cur.Load(); h != nil {
		return *h
	}
	return s.noop
}

// set ignores nil so a missing implementation keeps the previous one.
func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.cur.Store(&h)
	}
}

var (
	pipelineSlot  = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	mapSlot       = slot[MapHooks]{noop: NoopMapHooks{}}
	reductionSlot = slot[ReductionHooks]{noop: NoopReductionHooks{}}
	cacheSlot     = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot      = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks registers the parse and render hooks. Commands call the
// setters once during startup.
func SetPipelineHooks(h PipelineHooks)   { pipelineSlot.set(h) }
func SetMapHooks(h MapHooks)             { mapSlot.set(h) }
func SetReductionHooks(h ReductionHooks) { reductionSlot.set(h) }
func SetCacheHooks(h CacheHooks)         { cacheSlot.set(h) }
func SetHTTPHooks(h HTTPHooks)           { httpSlot.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Map returns the registered term map hooks.
func Map() MapHooks { return mapSlot.get() }

// Reduction returns the registered reduction hooks.
func Reduction() ReductionHooks { return reductionSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores every hook to its no-op. Tests that install hooks defer it.
func Reset() {
	pipelineSlot.cur.Store(nil)
	mapSlot.cur.Store(nil)
	reductionSlot.cur.Store(nil)
	cacheSlot.cur.Store(nil)
	httpSlot.cur.Store(nil)
}
