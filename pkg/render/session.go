package render

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/observability"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/scale"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// Chart is one rendered dataset. All fields are read-only after Build.
type Chart struct {
	ID         string
	Dataset    *dataset.Dataset
	Options    *Options
	Table      *table.Table
	Axis       scale.Axis
	HasAxis    bool
	Mode       units.ModeInfo
	GrandTotal float64
	Target     Target

	mu       sync.Mutex
	hooks    []func()
	released bool
}

// OnRelease registers fn to run when the chart is superseded or the
// session is closed. Hooks run in reverse registration order. Registering
// on an already released chart runs fn immediately.
func (c *Chart) OnRelease(fn func()) {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		fn()
		return
	}
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

// Released reports whether the chart has been torn down.
func (c *Chart) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

func (c *Chart) release() {
	c.mu.Lock()
	hooks := c.hooks
	c.hooks = nil
	c.released = true
	c.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Session owns the current chart of one viewer.
type Session struct {
	Logger *log.Logger

	renderMu sync.Mutex // serialises Render and Close

	mu      sync.RWMutex
	current *Chart
}

// NewSession returns an empty session. A nil logger discards output.
func NewSession(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{Logger: logger}
}

// Current returns the current chart, or nil when nothing is rendered.
func (s *Session) Current() *Chart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Render replaces the current chart with one built from req.
//
// The previous chart is unpublished and fully released before the new one
// is built. If building fails the session is left empty and the error is
// returned.
func (s *Session) Render(ctx context.Context, req Request) (*Chart, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.teardown(ctx)

	chartType := ""
	nSeries, nLabels := 0, 0
	if req.Dataset != nil {
		chartType = string(req.Dataset.ChartType)
		nSeries, nLabels = len(req.Dataset.Series), len(req.Dataset.XAxisLabels)
	}
	observability.Render().OnRenderStart(ctx, chartType, nSeries, nLabels)
	start := time.Now()

	chart, err := Build(req, s.Logger)
	observability.Render().OnRenderComplete(ctx, chartType, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	chart.ID = uuid.NewString()

	s.mu.Lock()
	s.current = chart
	s.mu.Unlock()

	s.Logger.Debug("rendered chart", "id", chart.ID, "type", chartType,
		"series", nSeries, "labels", nLabels, "duration", time.Since(start))
	return chart, nil
}

// Close releases the current chart, leaving the session empty.
func (s *Session) Close(ctx context.Context) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.teardown(ctx)
}

// teardown must be called with renderMu held.
func (s *Session) teardown(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	if prev == nil {
		return
	}
	prev.release()
	observability.Render().OnTeardown(ctx, prev.ID)
	s.Logger.Debug("released chart", "id", prev.ID)
}
