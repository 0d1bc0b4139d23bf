package aggregate

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

func series(name string, u units.Unit, raw ...float64) dataset.Series {
	return dataset.Series{Name: name, Unit: u, Data: raw, RawData: raw}
}

func TestStackSums(t *testing.T) {
	s := []dataset.Series{
		series("A", units.MetricTon, 10, 20),
		series("B", units.MetricTon, 5, 15),
	}
	e := New(nil)

	got := e.StackSums(s, 2, units.MetricTon)
	if got[0] != 15 || got[1] != 35 {
		t.Errorf("StackSums = %v, want [15 35]", got)
	}
	if m := e.MaxStackSum(s, 2, units.MetricTon); m != 35 {
		t.Errorf("MaxStackSum = %v, want 35", m)
	}
	if m := e.MaxPoint(s, units.MetricTon, false); m != 20 {
		t.Errorf("MaxPoint = %v, want 20", m)
	}
}

func TestStackSumConvertsUnits(t *testing.T) {
	s := []dataset.Series{
		series("A", units.MetricTon, 1),
		series("B", units.Kilogram, 500),
	}
	e := New(nil)
	if got := e.StackSum(s, 0, units.Kilogram); got != 1500 {
		t.Errorf("StackSum kg = %v, want 1500", got)
	}
	if got := e.StackSum(s, 0, units.MetricTon); got != 1.5 {
		t.Errorf("StackSum ton = %v, want 1.5", got)
	}
	if got := e.StackSum(s, 7, units.MetricTon); got != 0 {
		t.Errorf("StackSum out of range = %v, want 0", got)
	}
}

func TestGrandTotalAndSeriesTotals(t *testing.T) {
	s := []dataset.Series{
		series("A", units.MetricTon, 10, 20),
		series("B", units.MetricTon, 30, 40),
	}
	if got := GrandTotal(s, units.MetricTon); got != 100 {
		t.Errorf("GrandTotal = %v, want 100", got)
	}
	totals := New(nil).SeriesTotals(s, units.MetricTon)
	if totals[0] != 30 || totals[1] != 70 {
		t.Errorf("SeriesTotals = %v, want [30 70]", totals)
	}
}

func TestMaxPointPlotted(t *testing.T) {
	s := []dataset.Series{{Name: "A", Unit: units.MetricTon, Data: dataset.Values{33.33, 66.67}, RawData: dataset.Values{10, 20}}}
	if got := New(nil).MaxPoint(s, units.Kilogram, true); got != 66.67 {
		t.Errorf("MaxPoint plotted = %v, want 66.67", got)
	}
	if got := New(nil).MaxPoint(s, units.Kilogram, false); got != 20000 {
		t.Errorf("MaxPoint raw = %v, want 20000", got)
	}
}

func TestNormalizePercentages(t *testing.T) {
	ds := &dataset.Dataset{
		XAxisLabels: []string{"Jan", "Feb"},
		Series: []dataset.Series{
			series("A", units.MetricTon, 10, 0),
			series("B", units.MetricTon, 20, 0),
		},
	}
	out := New(nil).NormalizePercentages(ds, units.MetricTon)

	if got := out.Series[0].Data[0]; got != 33.33 {
		t.Errorf("A share = %v, want 33.33", got)
	}
	if got := out.Series[1].Data[0]; got != 66.67 {
		t.Errorf("B share = %v, want 66.67", got)
	}
	if out.Series[0].Data[1] != 0 || out.Series[1].Data[1] != 0 {
		t.Errorf("zero total category should plot 0, got %v %v", out.Series[0].Data[1], out.Series[1].Data[1])
	}
	if ds.Series[0].Data[0] != 10 {
		t.Error("NormalizePercentages mutated its input")
	}
	if out.Series[0].RawData[0] != 10 {
		t.Error("raw values must be preserved")
	}
}

func TestPieSharesSumToHundred(t *testing.T) {
	s := []dataset.Series{
		series("A", units.MetricTon, 1, 2, 3),
		series("B", units.Kilogram, 1234, 50, 7),
		series("C", units.MetricTon, 0.333, 0, 9.9),
	}
	e := New(nil)
	total := e.GrandTotal(s, units.MetricTon)
	var sum float64
	for _, st := range s {
		for i := range st.RawData {
			sum += units.Convert(st.RawData[i], st.Unit, units.MetricTon) / total * 100
		}
	}
	if math.Abs(sum-100) > 0.1 {
		t.Errorf("slice shares sum to %v, want 100", sum)
	}
}

func TestCheckUnitsLogs(t *testing.T) {
	var buf bytes.Buffer
	e := New(log.New(&buf))
	s := []dataset.Series{
		series("A", units.MetricTon, 1),
		series("cost", units.NewTaiwanDollar, 1),
	}
	if n := e.CheckUnits(s, units.Kilogram); n != 1 {
		t.Errorf("CheckUnits = %d, want 1", n)
	}
	out := buf.String()
	if !strings.Contains(out, "UNKNOWN_UNIT_PAIR") {
		t.Errorf("log output missing code: %q", out)
	}
	if !strings.Contains(out, "no conversion from new_taiwan_dollar to kilogram") {
		t.Errorf("log output missing pair: %q", out)
	}
}
