package render

import (
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/format"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

// Options is the full, serialisable description of a chart.
type Options struct {
	Chart      ChartOptions    `json:"chart"`
	Title      string          `json:"title"`
	XAxis      XAxisOptions    `json:"xaxis"`
	YAxis      *YAxisOptions   `json:"yaxis,omitempty"`
	Series     []SeriesOptions `json:"series,omitempty"`
	Slices     []float64       `json:"slices,omitempty"`
	Labels     []string        `json:"labels,omitempty"`
	Colors     []string        `json:"colors"`
	DataLabels DataLabels      `json:"dataLabels"`
	Tooltip    Tooltip         `json:"tooltip"`
	Theme      theme.Theme     `json:"theme"`
}

// ChartOptions describes the drawing surface.
type ChartOptions struct {
	Type    dataset.ChartType `json:"type"`
	Stacked bool              `json:"stacked"`
	Width   int               `json:"width"`
	Height  int               `json:"height"`
}

// XAxisOptions lists the category labels.
type XAxisOptions struct {
	Categories []string `json:"categories"`
}

// YAxisOptions is the value axis. Min is always 0.
type YAxisOptions struct {
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	TickAmount int       `json:"tickAmount"`
	Interval   float64   `json:"interval"`
	Ticks      []float64 `json:"ticks"`
	Labels     []string  `json:"labels"`
	Unit       string    `json:"unit"`
	Percentage bool      `json:"percentage"`

	formatter *format.Axis
}

// Format formats an arbitrary value with the axis precision.
func (y *YAxisOptions) Format(v float64) string {
	if y.formatter == nil {
		return format.Tick(v, y.Interval)
	}
	return y.formatter.Format(v)
}

// SeriesOptions is one plotted series.
type SeriesOptions struct {
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
	Color string    `json:"color"`
}

// DataLabels holds the text drawn on each point, indexed [series][category]
// for axis charts and [slice] for pie and donut charts.
type DataLabels struct {
	Enabled bool       `json:"enabled"`
	Texts   [][]string `json:"texts"`
}

// At returns the data label of series s at category i.
func (d DataLabels) At(s, i int) string {
	if s < 0 || s >= len(d.Texts) || i < 0 || i >= len(d.Texts[s]) {
		return ""
	}
	return d.Texts[s][i]
}

// Tooltip holds hover texts, indexed like DataLabels.
type Tooltip struct {
	Texts [][]string `json:"texts"`
}

// WithTheme returns a deep copy of o drawn in t. The receiver is not
// modified.
func (o *Options) WithTheme(t theme.Theme) *Options {
	c := o.clone()
	c.Theme = t
	return c
}

func (o *Options) clone() *Options {
	c := *o
	c.XAxis.Categories = append([]string(nil), o.XAxis.Categories...)
	if o.YAxis != nil {
		y := *o.YAxis
		y.Ticks = append([]float64(nil), o.YAxis.Ticks...)
		y.Labels = append([]string(nil), o.YAxis.Labels...)
		c.YAxis = &y
	}
	c.Series = make([]SeriesOptions, len(o.Series))
	for i, s := range o.Series {
		s.Data = append([]float64(nil), s.Data...)
		c.Series[i] = s
	}
	c.Slices = append([]float64(nil), o.Slices...)
	c.Labels = append([]string(nil), o.Labels...)
	c.Colors = append([]string(nil), o.Colors...)
	c.DataLabels.Texts = cloneTexts(o.DataLabels.Texts)
	c.Tooltip.Texts = cloneTexts(o.Tooltip.Texts)
	return &c
}

func cloneTexts(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Radial reports whether the chart is drawn as pie or donut slices.
func (o *Options) Radial() bool { return o.Chart.Type.IsRadial() }
