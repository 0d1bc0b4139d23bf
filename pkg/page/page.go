// Package page renders a chart and its table as a standalone HTML page
// with go-echarts.
//
// Y-axis tick labels, data labels and tooltips are not computed by the
// browser: they are looked up from the texts in render.Options, so the
// page shows the same strings as the exported workbook and document.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/table"
)

// Chart converts options into a go-echarts chart.
func Chart(o *render.Options) components.Charter {
	switch o.Chart.Type {
	case dataset.Pie, dataset.Donut:
		return pie(o)
	case dataset.Line:
		return line(o)
	default:
		return bar(o)
	}
}

// Write renders a full HTML page: the chart followed by its table.
func Write(w io.Writer, o *render.Options, t *table.Table) error {
	p := components.NewPage()
	p.PageTitle = o.Title
	if p.PageTitle == "" {
		p.PageTitle = "chart"
	}
	p.AddCharts(Chart(o))

	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	html := buf.Bytes()
	if t != nil {
		tbl, err := t.HTML()
		if err != nil {
			return err
		}
		section := []byte(`<div class="chart-table">` + string(tbl) + "</div>\n")
		if i := bytes.LastIndex(html, []byte("</body>")); i >= 0 {
			html = append(html[:i:i], append(section, html[i:]...)...)
		} else {
			html = append(html, section...)
		}
	}
	_, err := w.Write(html)
	return err
}

func size(px int) string { return strconv.Itoa(px) + "px" }

func globals(o *render.Options, trigger string, tooltip [][]string) []charts.GlobalOpts {
	th := o.Theme
	g := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:           size(o.Chart.Width),
			Height:          size(o.Chart.Height),
			BackgroundColor: th.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      o.Title,
			TitleStyle: &opts.TextStyle{Color: th.Text},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   trigger,
			Formatter: opts.FuncOpts(tooltipFunc(trigger, tooltip)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			TextStyle: &opts.TextStyle{Color: th.Text},
		}),
	}
	if o.YAxis != nil {
		g = append(g,
			charts.WithXAxisOpts(opts.XAxis{
				AxisLabel: &opts.AxisLabel{Color: th.Text},
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Name:        o.YAxis.Unit,
				Min:         o.YAxis.Min,
				Max:         o.YAxis.Max,
				SplitNumber: o.YAxis.TickAmount,
				// Equal bounds pin the computed interval.
				MinInterval: o.YAxis.Interval,
				MaxInterval: o.YAxis.Interval,
				AxisLabel: &opts.AxisLabel{
					Color:     th.Text,
					Formatter: opts.FuncOpts(lookupFunc(o.YAxis)),
				},
				SplitLine: &opts.SplitLine{
					Show:      opts.Bool(true),
					LineStyle: &opts.LineStyle{Color: th.Grid},
				},
			}),
		)
	}
	return g
}

func bar(o *render.Options) *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(globals(o, "axis", o.Tooltip.Texts)...)
	b.SetXAxis(o.XAxis.Categories)
	for si, s := range o.Series {
		data := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.BarData{Value: v}
		}
		so := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLabelOpts(dataLabel(o, si)),
		}
		if o.Chart.Stacked {
			so = append(so, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		b.AddSeries(s.Name, data, so...)
	}
	return b
}

func line(o *render.Options) *charts.Line {
	l := charts.NewLine()
	l.SetGlobalOptions(globals(o, "axis", o.Tooltip.Texts)...)
	l.SetXAxis(o.XAxis.Categories)
	for si, s := range o.Series {
		data := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.LineData{Value: v}
		}
		l.AddSeries(s.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithLabelOpts(dataLabel(o, si)),
		)
	}
	return l
}

func pie(o *render.Options) *charts.Pie {
	p := charts.NewPie()
	p.SetGlobalOptions(globals(o, "item", o.Tooltip.Texts)...)
	data := make([]opts.PieData, len(o.Slices))
	for i, v := range o.Slices {
		data[i] = opts.PieData{
			Name:      o.Labels[i],
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: o.Colors[i%len(o.Colors)]},
		}
	}
	radius := []string{"0%", "70%"}
	if o.Chart.Type == dataset.Donut {
		radius = []string{"40%", "70%"}
	}
	p.AddSeries(o.Title, data).SetSeriesOptions(
		charts.WithLabelOpts(dataLabel(o, 0)),
		charts.WithPieChartOpts(opts.PieChart{Radius: radius}),
	)
	return p
}

// dataLabel shows the precomputed label of each point in series s.
func dataLabel(o *render.Options, s int) opts.Label {
	if !o.DataLabels.Enabled || s >= len(o.DataLabels.Texts) {
		return opts.Label{Show: opts.Bool(false)}
	}
	return opts.Label{
		Show:      opts.Bool(true),
		Color:     o.Theme.Text,
		Formatter: opts.FuncOpts(fmt.Sprintf("function(p){var t=%s;return t[p.dataIndex];}", jsList(o.DataLabels.Texts[s]))),
	}
}

// lookupFunc maps each tick value to its formatted label.
func lookupFunc(y *render.YAxisOptions) string {
	pairs := make([]string, len(y.Ticks))
	for i, v := range y.Ticks {
		pairs[i] = jsQuote(strconv.FormatFloat(v, 'f', -1, 64)) + ":" + jsQuote(y.Labels[i])
	}
	return fmt.Sprintf("function(v){var m={%s};var k=String(v);return m.hasOwnProperty(k)?m[k]:k;}", strings.Join(pairs, ","))
}

func tooltipFunc(trigger string, texts [][]string) string {
	if trigger == "item" {
		var slices []string
		if len(texts) > 0 {
			slices = texts[0]
		}
		return fmt.Sprintf("function(p){var t=%s;return p.marker+t[p.dataIndex];}", jsList(slices))
	}
	return fmt.Sprintf(
		"function(ps){var t=%s;ps=[].concat(ps);var out=ps.length?ps[0].name:'';"+
			"for(var i=0;i<ps.length;i++){var s=t[ps[i].seriesIndex]||[];out+='<br/>'+ps[i].marker+(s[ps[i].dataIndex]||'');}"+
			"return out;}", jsTable(texts))
}

// jsQuote renders s as a single-quoted JS literal. Function bodies are
// inlined into the option JSON unescaped, so they must not contain double
// quotes or backslashes.
func jsQuote(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

var jsEscaper = strings.NewReplacer(
	`\`, "&#92;",
	`'`, "&#39;",
	`"`, "&quot;",
	"\n", " ",
	"\r", " ",
)

func jsList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = jsQuote(s)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func jsTable(rows [][]string) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = jsList(r)
	}
	return "[" + strings.Join(out, ",") + "]"
}
