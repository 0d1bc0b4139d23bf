package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/observability"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

// Kind identifies an export format.
type Kind string

const (
	KindWorkbook Kind = "xlsx"
	KindDocument Kind = "pdf"
	KindRaster   Kind = "png"
	KindPrint    Kind = "print"
)

// Kinds lists every export kind.
var Kinds = []Kind{KindWorkbook, KindDocument, KindRaster, KindPrint}

// ValidKinds is used for flag and route validation.
var ValidKinds = map[Kind]bool{
	KindWorkbook: true,
	KindDocument: true,
	KindRaster:   true,
	KindPrint:    true,
}

// ContentTypes maps export kinds to MIME types.
var ContentTypes = map[Kind]string{
	KindWorkbook: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	KindDocument: "application/pdf",
	KindRaster:   "image/png",
	KindPrint:    "application/pdf",
}

// DefaultRasterScale is the device pixel ratio of PNG snapshots.
const DefaultRasterScale = 2.0

// =============================================================================
// Capabilities
// =============================================================================

// Snapshot is the immutable view of a chart handed to writers.
type Snapshot struct {
	Options       *render.Options // themed copy of the chart options
	Table         *table.Table
	Target        render.Target
	Title         string
	SheetName     string
	SeparateUnits bool   // workbook: units in their own header row
	ChartImage    string // document: path of a PNG capture, if one was taken
}

// WorkbookWriter writes a spreadsheet workbook.
type WorkbookWriter interface {
	WriteWorkbook(ctx context.Context, w io.Writer, s *Snapshot) error
}

// DocumentWriter writes a paginated document.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, w io.Writer, s *Snapshot) error
}

// RasterCapture draws the chart as a PNG at the given device pixel ratio.
type RasterCapture interface {
	Capture(ctx context.Context, w io.Writer, s *Snapshot, scale float64) error
}

// Printer sends a document file to a printer.
type Printer interface {
	Print(ctx context.Context, path string) error
}

// Capabilities are the collaborators a Coordinator delegates to. Any of
// them may be nil; the matching export then fails with MISSING_CAPABILITY.
type Capabilities struct {
	Workbook WorkbookWriter
	Document DocumentWriter
	Raster   RasterCapture
	Printer  Printer
}

func (c Capabilities) empty() bool {
	return c.Workbook == nil && c.Document == nil && c.Raster == nil && c.Printer == nil
}

// =============================================================================
// Requests and results
// =============================================================================

// Period names the reporting month used for worksheet names.
type Period struct {
	Year  int
	Month int
}

// Request asks for one export of a chart.
type Request struct {
	Chart         *render.Chart // the current chart
	Theme         theme.Theme   // empty uses the chart's own theme
	Period        *Period
	ExportType    string // worksheet name suffix, e.g. "清運量"
	SeparateUnits bool
}

// Artifact is a finished export.
type Artifact struct {
	Kind        Kind
	Filename    string
	ContentType string
	Data        []byte
	Skipped     bool // a raster capture was already in flight
}

// State is a step of the export pipeline.
type State string

const (
	StateValidating State = "validating"
	StateBuilding   State = "building"
	StateDelegating State = "delegating"
	StateCleaningUp State = "cleaning-up"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// =============================================================================
// Coordinator
// =============================================================================

// Coordinator runs exports against injected capabilities.
//
// A Coordinator is safe for concurrent use. Workbook and document exports
// run unguarded; raster captures are limited to one at a time.
type Coordinator struct {
	caps        Capabilities
	Logger      *log.Logger
	scratchRoot string
	rasterScale float64
	fontPath    string
	now         func() time.Time
	onState     func(Kind, State)

	rasterBusy atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithScratchDir sets the parent directory of scratch files. The default
// is os.TempDir().
func WithScratchDir(dir string) Option {
	return func(c *Coordinator) { c.scratchRoot = dir }
}

// WithRasterScale sets the device pixel ratio of PNG captures.
func WithRasterScale(scale float64) Option {
	return func(c *Coordinator) {
		if scale > 0 {
			c.rasterScale = scale
		}
	}
}

// WithFontPath records the font file the writers draw with. It only
// identifies the font; the writers are handed the loaded face directly.
func WithFontPath(path string) Option {
	return func(c *Coordinator) { c.fontPath = path }
}

// WithClock sets the time source used in file names.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithStateHook observes every pipeline state transition.
func WithStateHook(fn func(Kind, State)) Option {
	return func(c *Coordinator) { c.onState = fn }
}

// New returns a Coordinator. It fails with MISSING_CAPABILITY only when no
// capability at all is supplied.
func New(caps Capabilities, opts ...Option) (*Coordinator, error) {
	if caps.empty() {
		return nil, errs.MissingCapability("export writer")
	}
	c := &Coordinator{
		caps:        caps,
		Logger:      log.Default(),
		rasterScale: DefaultRasterScale,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RasterScale returns the device pixel ratio of PNG captures.
func (c *Coordinator) RasterScale() float64 { return c.rasterScale }

// FontPath returns the font recorded with WithFontPath.
func (c *Coordinator) FontPath() string { return c.fontPath }

// Has reports whether the coordinator can produce kind.
func (c *Coordinator) Has(kind Kind) bool {
	switch kind {
	case KindWorkbook:
		return c.caps.Workbook != nil
	case KindDocument:
		return c.caps.Document != nil
	case KindRaster:
		return c.caps.Raster != nil
	case KindPrint:
		return c.caps.Printer != nil && c.caps.Document != nil
	}
	return false
}

// Export dispatches to the operation for kind.
func (c *Coordinator) Export(ctx context.Context, kind Kind, req Request) (*Artifact, error) {
	switch kind {
	case KindWorkbook:
		return c.ToWorkbook(ctx, req)
	case KindDocument:
		return c.ToDocument(ctx, req)
	case KindRaster:
		return c.ToRaster(ctx, req)
	case KindPrint:
		return c.Print(ctx, req)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported export format: %q", kind)
}

// ToWorkbook exports the chart's table as a spreadsheet workbook.
func (c *Coordinator) ToWorkbook(ctx context.Context, req Request) (*Artifact, error) {
	return c.run(ctx, KindWorkbook, req, c.caps.Workbook != nil,
		func(ctx context.Context, w io.Writer, snap *Snapshot, _ *scratch) error {
			return c.caps.Workbook.WriteWorkbook(ctx, w, snap)
		})
}

// ToDocument exports the chart and its table as a PDF document. When a
// raster capability is present the chart image is embedded.
func (c *Coordinator) ToDocument(ctx context.Context, req Request) (*Artifact, error) {
	return c.run(ctx, KindDocument, req, c.caps.Document != nil, c.writeDocument)
}

// ToRaster exports the chart as a PNG at twice the target size. A request
// made while another capture is running returns a skipped artifact.
func (c *Coordinator) ToRaster(ctx context.Context, req Request) (*Artifact, error) {
	if c.caps.Raster != nil {
		if !c.rasterBusy.CompareAndSwap(false, true) {
			observability.Export().OnExportSkipped(ctx, string(KindRaster))
			c.Logger.Debug("raster capture already in flight, skipping")
			return &Artifact{Kind: KindRaster, Skipped: true}, nil
		}
		defer c.rasterBusy.Store(false)
	}
	return c.run(ctx, KindRaster, req, c.caps.Raster != nil,
		func(ctx context.Context, w io.Writer, snap *Snapshot, _ *scratch) error {
			return c.caps.Raster.Capture(ctx, w, snap, c.rasterScale)
		})
}

// Print renders the chart as a document and sends it to the printer. The
// returned artifact carries the printed document.
func (c *Coordinator) Print(ctx context.Context, req Request) (*Artifact, error) {
	return c.run(ctx, KindPrint, req, c.Has(KindPrint),
		func(ctx context.Context, w io.Writer, snap *Snapshot, sc *scratch) error {
			var buf bytes.Buffer
			if err := c.writeDocument(ctx, &buf, snap, sc); err != nil {
				return err
			}
			dir, err := sc.dir()
			if err != nil {
				return err
			}
			path := filepath.Join(dir, "print.pdf")
			if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
				return err
			}
			if err := c.caps.Printer.Print(ctx, path); err != nil {
				return err
			}
			_, err = w.Write(buf.Bytes())
			return err
		})
}

func (c *Coordinator) writeDocument(ctx context.Context, w io.Writer, snap *Snapshot, sc *scratch) error {
	if c.caps.Raster != nil {
		dir, err := sc.dir()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, "chart.png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = c.caps.Raster.Capture(ctx, f, snap, c.rasterScale)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		snap.ChartImage = path
	}
	return c.caps.Document.WriteDocument(ctx, w, snap)
}

type delegateFunc func(ctx context.Context, w io.Writer, snap *Snapshot, sc *scratch) error

// run executes the export pipeline for one request.
func (c *Coordinator) run(ctx context.Context, kind Kind, req Request, capable bool, delegate delegateFunc) (art *Artifact, err error) {
	c.state(kind, StateValidating)
	if err := c.validate(req, capable, kind); err != nil {
		c.state(kind, StateFailed)
		c.Logger.Warn("export rejected", "kind", kind, "error", err)
		return nil, err
	}

	observability.Export().OnExportStart(ctx, string(kind))
	start := time.Now()
	sc := &scratch{root: c.scratchRoot}
	defer func() {
		c.state(kind, StateCleaningUp)
		if cerr := sc.cleanup(); cerr != nil {
			c.Logger.Warn("remove scratch files", "dir", sc.path, "error", cerr)
		}
		size := 0
		if art != nil {
			size = len(art.Data)
		}
		observability.Export().OnExportComplete(ctx, string(kind), size, time.Since(start), err)
		if err != nil {
			c.state(kind, StateFailed)
			return
		}
		c.state(kind, StateDone)
	}()

	c.state(kind, StateBuilding)
	snap := c.snapshot(req)

	c.state(kind, StateDelegating)
	var buf bytes.Buffer
	if derr := delegate(ctx, &buf, snap, sc); derr != nil {
		c.Logger.Error("export failed", "kind", kind, "error", derr)
		return nil, errs.ExportFailed(derr)
	}

	ext := string(kind)
	if kind == KindPrint {
		ext = string(KindDocument)
	}
	art = &Artifact{
		Kind:        kind,
		Filename:    Filename(snap.Title, c.now(), ext),
		ContentType: ContentTypes[kind],
		Data:        buf.Bytes(),
	}
	c.Logger.Info("exported chart",
		"kind", kind,
		"file", art.Filename,
		"bytes", len(art.Data),
		"duration", time.Since(start))
	return art, nil
}

func (c *Coordinator) validate(req Request, capable bool, kind Kind) error {
	if !capable {
		return errs.MissingCapability(string(kind) + " writer")
	}
	ch := req.Chart
	if ch == nil || ch.Released() || ch.Options == nil || ch.Target.Empty() {
		return errs.MissingRenderTarget()
	}
	if ch.Dataset.Empty() || ch.Table == nil {
		return errs.New(errs.ErrCodeMissingDataset, "chart has no data")
	}
	return nil
}

func (c *Coordinator) snapshot(req Request) *Snapshot {
	ch := req.Chart
	th := req.Theme
	if th.Name == "" {
		th = ch.Options.Theme
	}
	return &Snapshot{
		Options:       ch.Options.WithTheme(th),
		Table:         ch.Table,
		Target:        ch.Target,
		Title:         ch.Dataset.Title,
		SheetName:     SheetName(req.Period, req.ExportType, ch.Dataset.Title),
		SeparateUnits: req.SeparateUnits,
	}
}

func (c *Coordinator) state(kind Kind, s State) {
	c.Logger.Debug("export state", "kind", kind, "state", s)
	if c.onState != nil {
		c.onState(kind, s)
	}
}

// scratch is a lazily created temporary directory.
type scratch struct {
	root string
	path string
}

func (s *scratch) dir() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	p, err := os.MkdirTemp(s.root, "wastechart-export-*")
	if err != nil {
		return "", err
	}
	s.path = p
	return p, nil
}

func (s *scratch) cleanup() error {
	if s.path == "" {
		return nil
	}
	return os.RemoveAll(s.path)
}
