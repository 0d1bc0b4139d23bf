// Package pipeline runs the render → export sequence shared by the CLI and
// the HTTP server.
//
// A [Runner] renders a dataset into a session and produces the requested
// export artifacts, serving repeats from an artifact cache. Printing has a
// side effect and always runs.
//
//	runner := pipeline.NewRunner(cache, nil, exporter, logger)
//	result, err := runner.Execute(ctx, session, pipeline.Options{
//	    Render:  render.Request{Dataset: ds},
//	    Formats: []export.Kind{export.KindWorkbook, export.KindRaster},
//	})
//	for _, out := range result.Outputs {
//	    os.WriteFile(out.Artifact.Filename, out.Artifact.Data, 0o644)
//	}
package pipeline

import (
	"strings"
	"time"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

// DefaultFormat is exported when no format is requested.
const DefaultFormat = export.KindWorkbook

// Options describes one pipeline execution.
type Options struct {
	Render  render.Request
	Formats []export.Kind

	// Export parameters, applied to every format.
	Theme         theme.Theme
	Period        *export.Period
	ExportType    string
	SeparateUnits bool
}

// ExportRequest returns the export request for chart.
func (o *Options) ExportRequest(chart *render.Chart) export.Request {
	return export.Request{
		Chart:         chart,
		Theme:         o.Theme,
		Period:        o.Period,
		ExportType:    o.ExportType,
		SeparateUnits: o.SeparateUnits,
	}
}

// ValidateAndSetDefaults checks the formats, defaulting to a workbook.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []export.Kind{DefaultFormat}
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormats rejects unknown or repeated formats.
func ValidateFormats(formats []export.Kind) error {
	seen := make(map[export.Kind]bool, len(formats))
	for _, f := range formats {
		if !export.ValidKinds[f] {
			return errs.New(errs.ErrCodeInvalidFormat, "unsupported export format: %q", f)
		}
		if seen[f] {
			return errs.New(errs.ErrCodeInvalidFormat, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ParseFormats parses a comma-separated format list such as "xlsx,png".
func ParseFormats(s string) ([]export.Kind, error) {
	if strings.TrimSpace(s) == "" {
		return []export.Kind{DefaultFormat}, nil
	}
	var out []export.Kind
	for _, part := range strings.Split(s, ",") {
		k, err := export.ParseKind(part)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ArtifactKeyOpts returns the cache key options for one export of req.
// Settings of the exporter itself, such as the raster scale and font, are
// filled in by Runner.ArtifactKey.
func ArtifactKeyOpts(kind export.Kind, req export.Request) cache.ArtifactKeyOpts {
	th := req.Theme
	if th.Name == "" && req.Chart != nil && req.Chart.Options != nil {
		th = req.Chart.Options.Theme
	}
	opts := cache.ArtifactKeyOpts{
		Kind:          string(kind),
		Theme:         th.Name,
		Palette:       []string{th.Background, th.Text, th.Grid, th.Header},
		SeparateUnits: req.SeparateUnits,
		ExportType:    req.ExportType,
	}
	if req.Period != nil {
		opts.Period = req.Period.String()
	}
	return opts
}

// chartIdentity is what a chart's artifacts depend on.
type chartIdentity struct {
	Options *render.Options `json:"options"`
	Table   *table.Table    `json:"table"`
}

// Output is one produced artifact.
type Output struct {
	Artifact *export.Artifact
	Cached   bool
}

// Result is the outcome of Execute.
type Result struct {
	Chart   *render.Chart
	Outputs []Output // in the order of Options.Formats
	Stats   Stats
}

// Stats records stage durations.
type Stats struct {
	RenderTime time.Duration
	ExportTime time.Duration
}

// CacheHits counts outputs served from the cache.
func (r *Result) CacheHits() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Cached {
			n++
		}
	}
	return n
}
