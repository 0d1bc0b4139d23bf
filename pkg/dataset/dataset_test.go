package dataset

import (
	"strings"
	"testing"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

func TestDecode(t *testing.T) {
	doc := `{
		"success": true,
		"title": "一般事業廢棄物",
		"chart_type": "stacked_bar",
		"x_axis_labels": ["2024-01", "2024-02"],
		"series": [
			{"name": "A", "unit": "metric_ton", "data": [1, null], "raw_data": [1, null], "color": "#1f77b4"},
			{"name": "B", "unit": "kilogram", "data": [500, 250], "rawData": [500, 250]}
		]
	}`

	ds, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ds.ChartType != StackedBar {
		t.Errorf("ChartType = %q, want %q", ds.ChartType, StackedBar)
	}
	if len(ds.Series) != 2 {
		t.Fatalf("series = %d, want 2", len(ds.Series))
	}
	if got := ds.Series[0].Raw(1); got != 0 {
		t.Errorf("null raw value = %v, want 0", got)
	}
	if got := ds.Series[1].Raw(0); got != 500 {
		t.Errorf("camelCase raw value = %v, want 500", got)
	}
	if ds.Series[1].Unit != units.Kilogram {
		t.Errorf("unit = %q, want kilogram", ds.Series[1].Unit)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"malformed json", `{"series": [`, errs.ErrCodeInvalidDataset},
		{"backend failure", `{"success": false, "error": "查無資料"}`, errs.ErrCodeMissingDataset},
		{"no series", `{"x_axis_labels": ["a"], "series": []}`, errs.ErrCodeMissingDataset},
		{"no labels", `{"x_axis_labels": [], "series": [{"name": "A", "data": []}]}`, errs.ErrCodeMissingDataset},
		{"misaligned", `{"x_axis_labels": ["a", "b"], "series": [{"name": "A", "data": [1]}]}`, errs.ErrCodeInvalidDataset},
		{"bad color", `{"x_axis_labels": ["a"], "series": [{"name": "A", "data": [1], "color": "blue"}]}`, errs.ErrCodeInvalidDataset},
		{"bad chart type", `{"chart_type": "radar", "x_axis_labels": ["a"], "series": [{"name": "A", "data": [1]}]}`, errs.ErrCodeInvalidDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Decode succeeded, want error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errs.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	ds, err := DecodeBytes([]byte(`{"x_axis_labels": ["a"], "series": [{"name": "A", "raw_data": [3]}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ds.ChartType != Bar {
		t.Errorf("ChartType = %q, want bar", ds.ChartType)
	}
	s := ds.Series[0]
	if s.Unit != units.MetricTon {
		t.Errorf("Unit = %q, want metric_ton", s.Unit)
	}
	if s.Plotted(0) != 3 {
		t.Errorf("Data defaults to raw values, got %v", s.Data)
	}
}

func TestParseChartType(t *testing.T) {
	tests := map[string]ChartType{
		"bar":         Bar,
		"stackedBar":  StackedBar,
		"stacked_bar": StackedBar,
		"line":        Line,
		"area":        Line,
		"pie":         Pie,
		"donut":       Donut,
	}
	for in, want := range tests {
		got, err := ParseChartType(in)
		if err != nil || got != want {
			t.Errorf("ParseChartType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if !Pie.IsRadial() || !Donut.IsRadial() || Bar.IsRadial() {
		t.Error("IsRadial mismatch")
	}
}

func TestValuesAt(t *testing.T) {
	v := Values{1, 2}
	if v.At(-1) != 0 || v.At(2) != 0 || v.At(1) != 2 {
		t.Errorf("At out of range handling wrong: %v %v %v", v.At(-1), v.At(2), v.At(1))
	}
}

func TestClone(t *testing.T) {
	ds := &Dataset{
		XAxisLabels: []string{"a"},
		Series:      []Series{{Name: "A", Data: Values{1}, RawData: Values{1}}},
	}
	c := ds.Clone()
	c.Series[0].RawData[0] = 99
	c.XAxisLabels[0] = "z"
	if ds.Series[0].RawData[0] != 1 || ds.XAxisLabels[0] != "a" {
		t.Error("Clone shares backing arrays with the original")
	}
}

func TestColors(t *testing.T) {
	ds := &Dataset{Series: []Series{{Color: "#000000"}, {}}}
	got := ds.Colors()
	if got[0] != "#000000" || got[1] != DefaultPalette[1] {
		t.Errorf("Colors() = %v", got)
	}
}
