package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

func build(t *testing.T, ct dataset.ChartType) *render.Chart {
	t.Helper()
	ds := &dataset.Dataset{
		Title:       "清運量",
		ChartType:   ct,
		ShowValues:  true,
		XAxisLabels: []string{"2024-01", "2024-02"},
		Series: []dataset.Series{
			{Name: "一般", Unit: units.MetricTon, Data: dataset.Values{10, 20}, RawData: dataset.Values{10, 20}},
			{Name: "回收", Unit: units.MetricTon, Data: dataset.Values{5, 15}, RawData: dataset.Values{5, 15}},
		},
	}
	c, err := render.Build(render.Request{Dataset: ds}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestChartKinds(t *testing.T) {
	tests := []struct {
		ct   dataset.ChartType
		want string
	}{
		{dataset.Bar, "*charts.Bar"},
		{dataset.StackedBar, "*charts.Bar"},
		{dataset.Line, "*charts.Line"},
		{dataset.Pie, "*charts.Pie"},
		{dataset.Donut, "*charts.Pie"},
	}
	for _, tt := range tests {
		c := Chart(build(t, tt.ct).Options)
		var got string
		switch c.(type) {
		case *charts.Bar:
			got = "*charts.Bar"
		case *charts.Line:
			got = "*charts.Line"
		case *charts.Pie:
			got = "*charts.Pie"
		}
		if got != tt.want {
			t.Errorf("Chart(%s) = %T, want %s", tt.ct, c, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	c := build(t, dataset.StackedBar)
	var buf bytes.Buffer
	if err := Write(&buf, c.Options, c.Table); err != nil {
		t.Fatalf("Write: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"清運量", "chart-table", "<table", "10 公噸"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Index(html, "chart-table") > strings.LastIndex(html, "</body>") {
		t.Error("table placed after </body>")
	}
}

func TestWritePinsAxisInterval(t *testing.T) {
	c := build(t, dataset.StackedBar)
	if c.Axis.Interval != 10 || c.Axis.Max != 40 {
		t.Fatalf("axis = %+v, want interval 10 up to 40", c.Axis)
	}
	var buf bytes.Buffer
	if err := Write(&buf, c.Options, c.Table); err != nil {
		t.Fatalf("Write: %v", err)
	}
	html := buf.String()
	for _, want := range []string{`"minInterval":10`, `"maxInterval":10`, `"max":40`} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

func TestJSQuote(t *testing.T) {
	got := jsQuote(`it's "x"\y`)
	if strings.ContainsAny(got[1:len(got)-1], `'"\`) {
		t.Errorf("jsQuote left unsafe characters: %s", got)
	}
}

func TestLookupFunc(t *testing.T) {
	y := &render.YAxisOptions{Ticks: []float64{0, 0.5, 1}, Labels: []string{"0.0", "0.5", "1.0"}}
	got := lookupFunc(y)
	for _, want := range []string{`'0':'0.0'`, `'0.5':'0.5'`, `'1':'1.0'`} {
		if !strings.Contains(got, want) {
			t.Errorf("lookupFunc missing %s in %s", want, got)
		}
	}
}
