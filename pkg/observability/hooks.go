// Package observability lets a program watch chart renders, exports and
// artifact cache traffic without this module depending on a metrics or
// tracing backend.
//
// Three hook sets exist: [RenderHooks], [ExportHooks] and [CacheHooks].
// Each starts as a no-op and is replaced with SetRenderHooks,
// SetExportHooks or SetCacheHooks. Only main registers hooks; packages
// just emit through [Render], [Export] and [Cache]:
//
//	observability.Export().OnExportStart(ctx, "xlsx")
//	// write the workbook
//	observability.Export().OnExportComplete(ctx, "xlsx", size, elapsed, err)
//
// The wastechart CLI installs hooks that log every event at debug level,
// so running with --verbose shows render timings, skipped captures and
// cache hits.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the render session.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, chartType string, seriesCount, labelCount int)
	OnRenderComplete(ctx context.Context, chartType string, duration time.Duration, err error)

	// OnTeardown records the release of a superseded chart.
	OnTeardown(ctx context.Context, chartID string)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the export coordinator.
type ExportHooks interface {
	OnExportStart(ctx context.Context, kind string)
	OnExportComplete(ctx context.Context, kind string, size int, duration time.Duration, err error)

	// OnExportSkipped records a raster request dropped because another
	// capture was still in flight.
	OnExportSkipped(ctx context.Context, kind string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
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

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int, int)                  {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}
func (NoopRenderHooks) OnTeardown(context.Context, string)                              {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, string)                               {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}
func (NoopExportHooks) OnExportSkipped(context.Context, string)                             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	exportHooks ExportHooks = NoopExportHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any export.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	exportHooks = NoopExportHooks{}
	cacheHooks = NoopCacheHooks{}
}
