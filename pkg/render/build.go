package render

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/aggregate"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/format"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/scale"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// Default drawing surface, in CSS pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

// Target is the pixel size of the surface a chart is drawn on.
type Target struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether t has no drawable area.
func (t Target) Empty() bool { return t.Width <= 0 || t.Height <= 0 }

// Request describes one render.
type Request struct {
	Dataset *dataset.Dataset

	// Mode is the y-axis mode. Empty uses the dataset's own y_axis, then
	// metric tons.
	Mode string

	// Normalize recomputes percentage-mode data from raw values instead of
	// trusting the backend's pre-computed shares.
	Normalize bool

	TickCount       int  // ideal tick count, 5 or 10
	FineGrid        bool // 10 percentage ticks instead of 5
	Target          Target
	Theme           theme.Theme
	CategoryCaption string
}

// Build computes the chart for req. The dataset is never modified.
func Build(req Request, logger *log.Logger) (*Chart, error) {
	ds := req.Dataset
	if ds == nil {
		return nil, errs.New(errs.ErrCodeMissingDataset, "no dataset to render")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = ds.YAxis
	}
	mode, err := units.ParseMode(modeName)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid y-axis mode")
	}
	radial := ds.ChartType.IsRadial()
	percentage := mode.Percentage && !radial

	engine := aggregate.New(logger)
	engine.CheckUnits(ds.Series, mode.Unit)
	if percentage && req.Normalize {
		ds = engine.NormalizePercentages(ds, mode.Unit)
	}

	target := req.Target
	if target.Width <= 0 {
		target.Width = DefaultWidth
	}
	if target.Height <= 0 {
		target.Height = DefaultHeight
	}
	th := req.Theme
	if th.Name == "" {
		th = theme.Light
	}

	axis, hasAxis := scale.ForDataset(engine, ds, scale.Options{
		Target:     mode.Unit,
		TickCount:  req.TickCount,
		Percentage: percentage,
		FineGrid:   req.FineGrid,
	})

	var grandTotal float64
	if radial {
		grandTotal = engine.GrandTotal(ds.Series, mode.Unit)
	}
	tbl := table.Build(ds, table.Options{
		Target:          mode.Unit,
		PercentageMode:  percentage,
		PieOrDonut:      radial,
		GrandTotal:      grandTotal,
		CategoryCaption: req.CategoryCaption,
	})

	opts := &Options{
		Chart: ChartOptions{
			Type:    ds.ChartType,
			Stacked: ds.ChartType == dataset.StackedBar,
			Width:   target.Width,
			Height:  target.Height,
		},
		Title:      ds.Title,
		Colors:     ds.Colors(),
		DataLabels: DataLabels{Enabled: ds.ShowValues},
		Theme:      th,
	}
	if radial {
		buildSlices(opts, engine, ds, mode.Unit, grandTotal)
	} else {
		buildAxisChart(opts, ds, tbl, axis, mode, percentage)
	}

	return &Chart{
		Dataset:    ds,
		Options:    opts,
		Table:      tbl,
		Axis:       axis,
		HasAxis:    hasAxis,
		Mode:       mode,
		GrandTotal: grandTotal,
		Target:     target,
	}, nil
}

func buildAxisChart(o *Options, ds *dataset.Dataset, tbl *table.Table, axis scale.Axis, mode units.ModeInfo, percentage bool) {
	kind := format.Plain
	switch {
	case percentage:
		kind = format.Percentage
	case mode.Unit == units.NewTaiwanDollar:
		kind = format.Currency
	}
	fa := format.NewAxis(axis.Interval, kind)
	ticks := axis.Ticks()
	o.XAxis.Categories = append([]string(nil), ds.XAxisLabels...)
	o.YAxis = &YAxisOptions{
		Min:        0,
		Max:        axis.Max,
		TickAmount: axis.TickCount,
		Interval:   axis.Interval,
		Ticks:      ticks,
		Labels:     fa.Labels(ticks),
		Unit:       units.Label(mode.Unit),
		Percentage: percentage,
		formatter:  fa,
	}

	o.Series = make([]SeriesOptions, len(ds.Series))
	o.DataLabels.Texts = make([][]string, len(ds.Series))
	o.Tooltip.Texts = make([][]string, len(ds.Series))
	for si, s := range ds.Series {
		data := make([]float64, len(ds.XAxisLabels))
		labels := make([]string, len(data))
		tips := make([]string, len(data))
		for i := range data {
			if percentage {
				data[i] = s.Plotted(i)
				labels[i] = format.Percent(data[i]) + "%"
			} else {
				data[i] = units.Convert(s.Raw(i), s.Unit, mode.Unit)
				labels[i] = format.Number(data[i])
			}
			tips[i] = fmt.Sprintf("%s: %s", s.Name, tbl.Rows[i].Cells[si].Text())
		}
		o.Series[si] = SeriesOptions{Name: s.Name, Data: data, Color: o.Colors[si]}
		o.DataLabels.Texts[si] = labels
		o.Tooltip.Texts[si] = tips
	}
}

// buildSlices draws one slice per series, sized by the series total.
func buildSlices(o *Options, e *aggregate.Engine, ds *dataset.Dataset, target units.Unit, grandTotal float64) {
	totals := e.SeriesTotals(ds.Series, target)
	o.Slices = totals
	o.Labels = make([]string, len(ds.Series))
	labels := make([]string, len(totals))
	tips := make([]string, len(totals))
	for i, s := range ds.Series {
		o.Labels[i] = s.Name
		display := format.Number(totals[i]) + " " + units.Label(target)
		if grandTotal > 0 {
			labels[i] = format.Percent(totals[i]/grandTotal*100) + "%"
			tips[i] = fmt.Sprintf("%s: %s%% (%s)", s.Name, format.Percent(totals[i]/grandTotal*100), display)
		} else {
			labels[i] = format.Number(totals[i])
			tips[i] = fmt.Sprintf("%s: %s", s.Name, display)
		}
	}
	o.DataLabels.Texts = [][]string{labels}
	o.Tooltip.Texts = [][]string{tips}
}
