package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// ChartType selects how a dataset is drawn.
type ChartType string

const (
	Bar        ChartType = "bar"
	StackedBar ChartType = "stackedBar"
	Line       ChartType = "line"
	Pie        ChartType = "pie"
	Donut      ChartType = "donut"
)

// ChartTypes lists every chart type in display order.
var ChartTypes = []ChartType{Bar, StackedBar, Line, Pie, Donut}

// ParseChartType resolves a chart type name. The backend aliases
// "stacked_bar" and "area" are accepted.
func ParseChartType(s string) (ChartType, error) {
	switch strings.TrimSpace(s) {
	case "bar", "":
		return Bar, nil
	case "stackedBar", "stacked_bar", "stacked":
		return StackedBar, nil
	case "line", "area":
		return Line, nil
	case "pie":
		return Pie, nil
	case "donut":
		return Donut, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDataset, "unsupported chart type: %q", s)
}

// IsRadial reports whether t is drawn as slices of a whole.
func (t ChartType) IsRadial() bool { return t == Pie || t == Donut }

// UnmarshalJSON accepts any name ParseChartType does.
func (t *ChartType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ct, err := ParseChartType(s)
	if err != nil {
		return err
	}
	*t = ct
	return nil
}

// Values is a slice of data points where JSON null decodes to 0.
type Values []float64

// UnmarshalJSON decodes a JSON array whose entries may be null.
func (v *Values) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Values, len(raw))
	for i, p := range raw {
		if p != nil {
			out[i] = *p
		}
	}
	*v = out
	return nil
}

// At returns the value at i, or 0 when i is out of range.
func (v Values) At(i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

// Series is one named measurement sequence aligned with the dataset's
// category labels.
type Series struct {
	Name    string     `json:"name"`
	Unit    units.Unit `json:"unit"`
	Data    Values     `json:"data"`
	RawData Values     `json:"raw_data"`
	Color   string     `json:"color,omitempty"`
}

// UnmarshalJSON accepts both "raw_data" and "rawData". When no raw values
// are sent the plotted values double as raw values.
func (s *Series) UnmarshalJSON(b []byte) error {
	type plain Series
	var aux struct {
		plain
		RawDataCamel Values `json:"rawData"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Series(aux.plain)
	if s.RawData == nil {
		s.RawData = aux.RawDataCamel
	}
	if s.RawData == nil {
		s.RawData = append(Values(nil), s.Data...)
	}
	if s.Data == nil {
		s.Data = append(Values(nil), s.RawData...)
	}
	if s.Unit == "" {
		s.Unit = units.MetricTon
	}
	return nil
}

// Raw returns the raw value at category index i.
func (s Series) Raw(i int) float64 { return s.RawData.At(i) }

// Plotted returns the plotted value at category index i.
func (s Series) Plotted(i int) float64 { return s.Data.At(i) }

// Dataset is everything needed to draw one chart.
type Dataset struct {
	XAxisLabels []string  `json:"x_axis_labels"`
	Series      []Series  `json:"series"`
	ChartType   ChartType `json:"chart_type"`
	Title       string    `json:"title"`

	// YAxis is the requested y-axis mode, if the backend sent one.
	YAxis string `json:"y_axis,omitempty"`

	// ShowValues asks for data labels on the chart.
	ShowValues bool `json:"show_values,omitempty"`
}

// Empty reports whether d has nothing to draw.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Series) == 0 || len(d.XAxisLabels) == 0
}

// Validate checks the structural invariants of a dataset.
//
// A nil or empty dataset is reported as MISSING_DATASET. Series whose value
// slices do not line up with the labels, and malformed colours, are
// INVALID_DATASET.
func (d *Dataset) Validate() error {
	if d.Empty() {
		return errs.New(errs.ErrCodeMissingDataset, "dataset has no series or labels")
	}
	n := len(d.XAxisLabels)
	for i, s := range d.Series {
		if len(s.RawData) != n {
			return errs.New(errs.ErrCodeInvalidDataset,
				"series %d (%s): %d raw values for %d labels", i, s.Name, len(s.RawData), n)
		}
		if len(s.Data) != n {
			return errs.New(errs.ErrCodeInvalidDataset,
				"series %d (%s): %d values for %d labels", i, s.Name, len(s.Data), n)
		}
		if s.Color != "" {
			if err := errs.ValidateHexColor(s.Color); err != nil {
				return err
			}
		}
	}
	return errs.ValidateTitle(d.Title)
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.XAxisLabels = append([]string(nil), d.XAxisLabels...)
	out.Series = make([]Series, len(d.Series))
	for i, s := range d.Series {
		s.Data = append(Values(nil), s.Data...)
		s.RawData = append(Values(nil), s.RawData...)
		out.Series[i] = s
	}
	return &out
}

// Colors returns the series colours, falling back to the default palette
// for series without one.
func (d *Dataset) Colors() []string {
	out := make([]string, len(d.Series))
	for i, s := range d.Series {
		if s.Color != "" {
			out[i] = s.Color
			continue
		}
		out[i] = DefaultPalette[i%len(DefaultPalette)]
	}
	return out
}

// DefaultPalette is used for series that do not specify a colour.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// envelope is the response shape of the structure-data endpoint.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Dataset
}

// Decode reads a dataset from JSON. Both a bare dataset and the backend
// envelope {"success": ..., "error": ..., ...} are accepted. A failed
// envelope is reported as MISSING_DATASET with the backend's message.
func Decode(r io.Reader) (*Dataset, error) {
	var env envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDataset, err, "decode dataset")
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "backend returned no data"
		}
		return nil, errs.New(errs.ErrCodeMissingDataset, "%s", msg)
	}
	ds := env.Dataset
	if ds.ChartType == "" {
		ds.ChartType = Bar
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(b []byte) (*Dataset, error) {
	return Decode(bytes.NewReader(b))
}

// String implements fmt.Stringer.
func (d *Dataset) String() string {
	if d == nil {
		return "<nil dataset>"
	}
	return fmt.Sprintf("%s (%s, %d series x %d labels)", d.Title, d.ChartType, len(d.Series), len(d.XAxisLabels))
}
