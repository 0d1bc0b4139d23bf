// Package aggregate computes the sums a chart is scaled by: per-category
// stack sums, the grand total used for pie and donut percentages, and the
// largest plotted point.
//
// All values are converted into the display unit with [units.Convert]
// before they are summed. A series whose unit has no conversion into the
// display unit is summed unconverted and reported once through the
// engine's logger as UNKNOWN_UNIT_PAIR; it never fails the render.
package aggregate

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// Engine aggregates series values in a target unit.
type Engine struct {
	Logger *log.Logger
}

// New returns an Engine logging to logger. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Logger: logger}
}

var quiet = New(nil)

// CheckUnits logs every series whose unit cannot be converted into target
// and returns how many were found.
func (e *Engine) CheckUnits(series []dataset.Series, target units.Unit) int {
	n := 0
	for _, s := range series {
		_, err := units.ConvertStrict(0, s.Unit, target)
		if err == nil {
			continue
		}
		n++
		e.Logger.Warn("values used as-is", "code", errs.ErrCodeUnknownUnitPair,
			"series", s.Name, "error", err)
	}
	return n
}

// StackSum returns the sum over all series of the raw value at category
// index idx, converted into target.
func (e *Engine) StackSum(series []dataset.Series, idx int, target units.Unit) float64 {
	var sum float64
	for _, s := range series {
		sum += units.Convert(s.Raw(idx), s.Unit, target)
	}
	return sum
}

// StackSums returns StackSum for every category index below n.
func (e *Engine) StackSums(series []dataset.Series, n int, target units.Unit) []float64 {
	sums := make([]float64, n)
	for i := range sums {
		sums[i] = e.StackSum(series, i, target)
	}
	return sums
}

// GrandTotal returns the sum of every raw value of every series, converted
// into target.
func (e *Engine) GrandTotal(series []dataset.Series, target units.Unit) float64 {
	var total float64
	for _, s := range series {
		for i := range s.RawData {
			total += units.Convert(s.RawData[i], s.Unit, target)
		}
	}
	return total
}

// SeriesTotals returns each series' converted raw total, in series order.
func (e *Engine) SeriesTotals(series []dataset.Series, target units.Unit) []float64 {
	out := make([]float64, len(series))
	for i, s := range series {
		for j := range s.RawData {
			out[i] += units.Convert(s.RawData[j], s.Unit, target)
		}
	}
	return out
}

// MaxPoint returns the largest individual value across all series. With
// plotted set the pre-computed Data values are used as they are, otherwise
// raw values are converted into target. An empty input yields 0.
func (e *Engine) MaxPoint(series []dataset.Series, target units.Unit, plotted bool) float64 {
	maxV := 0.0
	for _, s := range series {
		vals := s.RawData
		if plotted {
			vals = s.Data
		}
		for _, v := range vals {
			if !plotted {
				v = units.Convert(v, s.Unit, target)
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	return maxV
}

// MaxStackSum returns the largest stack sum over the first n categories.
func (e *Engine) MaxStackSum(series []dataset.Series, n int, target units.Unit) float64 {
	maxV := 0.0
	for _, v := range e.StackSums(series, n, target) {
		if v > maxV {
			maxV = v
		}
	}
	return maxV
}

// NormalizePercentages returns a copy of ds whose plotted values are each
// series' share of its category total in target units, rounded to two
// decimals. Categories with a zero total plot 0 for every series. Raw
// values are copied unchanged.
func (e *Engine) NormalizePercentages(ds *dataset.Dataset, target units.Unit) *dataset.Dataset {
	out := ds.Clone()
	n := len(out.XAxisLabels)
	totals := e.StackSums(out.Series, n, target)
	for si := range out.Series {
		s := &out.Series[si]
		data := make(dataset.Values, n)
		for i := 0; i < n; i++ {
			if totals[i] == 0 {
				continue
			}
			v := units.Convert(s.Raw(i), s.Unit, target)
			data[i] = math.Round(v/totals[i]*100*100) / 100
		}
		s.Data = data
	}
	return out
}

// GrandTotal is Engine.GrandTotal without logging.
func GrandTotal(series []dataset.Series, target units.Unit) float64 {
	return quiet.GrandTotal(series, target)
}
