// Package raster draws charts as PNG images with go-chart.
//
// The image uses the same axis maximum, tick positions and tick labels as
// the interactive chart, so a captured PNG and the on-screen chart agree.
package raster

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

const (
	titleFontSize = 14
	axisFontSize  = 10
	barSpacing    = 4
)

// Capture renders snapshots to PNG.
type Capture struct {
	font *truetype.Font
}

// New returns a Capture drawing text in font. A nil font uses go-chart's
// built-in face, which cannot draw CJK glyphs.
func New(font *truetype.Font) *Capture {
	return &Capture{font: font}
}

var _ export.RasterCapture = (*Capture)(nil)

// Capture implements export.RasterCapture.
func (c *Capture) Capture(ctx context.Context, w io.Writer, s *export.Snapshot, scale float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if scale <= 0 {
		scale = 1
	}
	o := s.Options
	width := int(float64(s.Target.Width) * scale)
	height := int(float64(s.Target.Height) * scale)
	dpi := chart.DefaultDPI * scale
	p := newPalette(o.Theme)

	var r interface {
		Render(chart.RendererProvider, io.Writer) error
	}
	switch o.Chart.Type {
	case dataset.Pie, dataset.Donut:
		r = c.pie(o, p, width, height, dpi)
	case dataset.StackedBar:
		r = c.stacked(o, p, width, height, dpi)
	case dataset.Line:
		r = c.line(o, p, width, height, dpi)
	default:
		r = c.bar(o, p, width, height, dpi)
	}
	if err := r.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", o.Chart.Type, err)
	}
	return nil
}

type palette struct {
	background, text, grid drawing.Color
}

func newPalette(t theme.Theme) palette {
	return palette{
		background: color(t.Background),
		text:       color(t.Text),
		grid:       color(t.Grid),
	}
}

func color(hex string) drawing.Color {
	r, g, b := theme.RGB(hex)
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

func (c *Capture) background(p palette) chart.Style {
	return chart.Style{
		FillColor:   p.background,
		StrokeColor: p.background,
		Padding:     chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
	}
}

func (c *Capture) yAxis(o *render.Options, p palette) chart.YAxis {
	y := chart.YAxis{
		Name:      o.YAxis.Unit,
		NameStyle: chart.Style{FontColor: p.text},
		Style:     chart.Style{FontSize: axisFontSize, FontColor: p.text, StrokeColor: p.grid},
		Range:     &chart.ContinuousRange{Min: o.YAxis.Min, Max: o.YAxis.Max},
		GridMajorStyle: chart.Style{
			StrokeColor: p.grid,
			StrokeWidth: 1,
		},
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return o.YAxis.Format(f)
			}
			return ""
		},
	}
	for i, v := range o.YAxis.Ticks {
		y.Ticks = append(y.Ticks, chart.Tick{Value: v, Label: o.YAxis.Labels[i]})
		y.GridLines = append(y.GridLines, chart.GridLine{Value: v})
	}
	return y
}

// bar draws grouped bars: one bar per series in each category, with the
// category label under the first bar of its group.
func (c *Capture) bar(o *render.Options, p palette, width, height int, dpi float64) *chart.BarChart {
	var bars []chart.Value
	for i, cat := range o.XAxis.Categories {
		for si, s := range o.Series {
			label := ""
			if si == 0 {
				label = cat
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: s.Data[i],
				Style: chart.Style{FillColor: color(s.Color), StrokeColor: color(s.Color)},
			})
		}
	}
	barWidth := width / (len(bars)*2 + 1)
	if barWidth < 4 {
		barWidth = 4
	}
	return &chart.BarChart{
		Title:      o.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize, FontColor: p.text},
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Font:       c.font,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: c.background(p),
		Canvas:     chart.Style{FillColor: p.background},
		XAxis:      chart.Style{FontSize: axisFontSize, FontColor: p.text, StrokeColor: p.grid},
		YAxis:      c.yAxis(o, p),
		Bars:       bars,
	}
}

// stacked draws one stacked bar per category against the computed value
// axis. go-chart's StackedBarChart normalises every bar to 100%, so the
// segments are drawn as series on a plain chart instead.
func (c *Capture) stacked(o *render.Options, p palette, width, height int, dpi float64) *chart.Chart {
	n := len(o.XAxis.Categories)
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, cat := range o.XAxis.Categories {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: cat})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	base := make([]float64, n)
	series := make([]chart.Series, len(o.Series))
	for si, s := range o.Series {
		seg := stackSegments{
			name:   s.Name,
			color:  color(s.Color),
			bottom: append([]float64(nil), base...),
			values: s.Data,
		}
		for i := range base {
			if i < len(s.Data) && s.Data[i] > 0 {
				base[i] += s.Data[i]
			}
		}
		series[si] = seg
	}

	ch := &chart.Chart{
		Title:      o.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize, FontColor: p.text},
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Font:       c.font,
		Background: c.background(p),
		Canvas:     chart.Style{FillColor: p.background},
		XAxis: chart.XAxis{
			Style:        chart.Style{FontSize: axisFontSize, FontColor: p.text, StrokeColor: p.grid},
			Range:        &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks:        ticks,
			TickPosition: chart.TickPositionUnderTick,
		},
		YAxis:  c.yAxis(o, p),
		Series: series,
	}
	if len(o.Series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(ch, chart.Style{FontColor: p.text, FillColor: p.background})}
	}
	return ch
}

// stackWidth is the share of a category slot covered by its bar.
const stackWidth = 0.6

// stackSegments is one series of a stacked bar chart: a box per category
// from bottom[i] to bottom[i]+values[i].
type stackSegments struct {
	name   string
	color  drawing.Color
	bottom []float64
	values []float64
}

var _ chart.Series = stackSegments{}

func (s stackSegments) GetName() string           { return s.name }
func (s stackSegments) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s stackSegments) Validate() error           { return nil }

func (s stackSegments) GetStyle() chart.Style {
	return chart.Style{FillColor: s.color, StrokeColor: s.color, StrokeWidth: 2}
}

func (s stackSegments) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	slot := float64(xr.Translate(1) - xr.Translate(0))
	half := int(slot * stackWidth / 2)
	if half < 1 {
		half = 1
	}
	style := chart.Style{FillColor: s.color, StrokeColor: s.color, StrokeWidth: 0.5}
	for i, v := range s.values {
		if !(v > 0) || i >= len(s.bottom) {
			continue
		}
		x := canvas.Left + xr.Translate(float64(i))
		bottom := canvas.Bottom - yr.Translate(s.bottom[i])
		top := canvas.Bottom - yr.Translate(s.bottom[i]+v)
		if top < canvas.Top {
			top = canvas.Top
		}
		if top >= bottom {
			continue
		}
		chart.Draw.Box(r, chart.Box{Top: top, Left: x - half, Right: x + half, Bottom: bottom}, style)
	}
}

// line plots each series against the category index.
func (c *Capture) line(o *render.Options, p palette, width, height int, dpi float64) *chart.Chart {
	xs := make([]float64, len(o.XAxis.Categories))
	ticks := make([]chart.Tick, len(xs))
	for i, cat := range o.XAxis.Categories {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: cat}
	}
	series := make([]chart.Series, len(o.Series))
	for si, s := range o.Series {
		col := color(s.Color)
		series[si] = chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Data,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		}
	}
	ch := &chart.Chart{
		Title:      o.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize, FontColor: p.text},
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Font:       c.font,
		Background: c.background(p),
		Canvas:     chart.Style{FillColor: p.background},
		XAxis: chart.XAxis{
			Style:        chart.Style{FontSize: axisFontSize, FontColor: p.text, StrokeColor: p.grid},
			Ticks:        ticks,
			TickPosition: chart.TickPositionUnderTick,
		},
		YAxis:  c.yAxis(o, p),
		Series: series,
	}
	if len(o.Series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(ch, chart.Style{FontColor: p.text, FillColor: p.background})}
	}
	return ch
}

// pie draws one slice per series total. Donut charts are drawn as pies.
func (c *Capture) pie(o *render.Options, p palette, width, height int, dpi float64) *chart.PieChart {
	values := make([]chart.Value, len(o.Slices))
	for i, v := range o.Slices {
		label := o.Labels[i]
		if t := o.DataLabels.At(0, i); t != "" {
			label += " " + t
		}
		col := color(o.Colors[i%len(o.Colors)])
		values[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: col, FontColor: p.text},
		}
	}
	return &chart.PieChart{
		Title:      o.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize, FontColor: p.text},
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Font:       c.font,
		Background: c.background(p),
		Canvas:     chart.Style{FillColor: p.background},
		SliceStyle: chart.Style{StrokeColor: p.background, StrokeWidth: 1},
		Values:     values,
	}
}
