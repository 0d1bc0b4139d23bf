package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/observability"
)

// newLogger creates a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Exported 3 files (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports render, export and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

// InstallLogHooks routes observability events to l.
func InstallLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetRenderHooks(h)
	observability.SetExportHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnRenderStart(_ context.Context, chartType string, seriesCount, labelCount int) {
	h.logger.Debug("render start", "type", chartType, "series", seriesCount, "labels", labelCount)
}

func (h logHooks) OnRenderComplete(_ context.Context, chartType string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "type", chartType, "err", err)
		return
	}
	h.logger.Debug("render done", "type", chartType, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnTeardown(_ context.Context, chartID string) {
	h.logger.Debug("chart released", "id", chartID)
}

func (h logHooks) OnExportStart(_ context.Context, kind string) {
	h.logger.Debug("export start", "kind", kind)
}

func (h logHooks) OnExportComplete(_ context.Context, kind string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "kind", kind, "err", err)
		return
	}
	h.logger.Debug("export done", "kind", kind, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnExportSkipped(_ context.Context, kind string) {
	h.logger.Debug("export skipped, capture in flight", "kind", kind)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
