package scale

import (
	"math"
	"strconv"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/aggregate"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

// DefaultTickCount is used when a caller asks for fewer than two ticks.
const DefaultTickCount = 5

// ceilTolerance absorbs float noise when rounding up to whole intervals.
// Compute still adds a step whenever the rounded axis would end below the
// data maximum.
const ceilTolerance = 1e-9

// niceSteps are the multipliers of a power of ten an interval may use.
var niceSteps = []float64{1, 2, 5, 10}

// Axis describes a value axis starting at 0.
type Axis struct {
	Interval  float64 `json:"interval"`
	Max       float64 `json:"max"`
	TickCount int     `json:"tick_count"`
}

// Ticks returns the TickCount+1 tick positions from 0 to Max.
func (a Axis) Ticks() []float64 {
	out := make([]float64, a.TickCount+1)
	for i := range out {
		out[i] = clean(float64(i) * a.Interval)
	}
	return out
}

// Compute returns the nice axis for data whose largest value is maxValue.
func Compute(maxValue float64, idealTickCount int) Axis {
	if idealTickCount < 2 {
		idealTickCount = DefaultTickCount
	}
	if !(maxValue > 0) || math.IsInf(maxValue, 1) {
		return Axis{Interval: 1, Max: float64(idealTickCount), TickCount: idealTickCount}
	}

	rough := maxValue / float64(idealTickCount)
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))
	interval := 10 * magnitude
	for _, m := range niceSteps {
		if c := m * magnitude; c >= rough*(1-ceilTolerance) {
			interval = c
			break
		}
	}
	interval = clean(interval)

	steps := int(math.Ceil(maxValue/interval - ceilTolerance))
	if steps < 2 {
		steps = 2
	}
	top := roundedMax(steps, interval, maxValue)
	for top < maxValue {
		steps++
		top = roundedMax(steps, interval, maxValue)
	}
	return Axis{
		Interval:  interval,
		Max:       top,
		TickCount: steps,
	}
}

// roundedMax returns steps*interval with float noise removed, unless
// removing it would drop the axis below maxValue.
func roundedMax(steps int, interval, maxValue float64) float64 {
	raw := float64(steps) * interval
	if c := clean(raw); c >= maxValue {
		return c
	}
	return raw
}

// Percentage returns the fixed 0-100 axis.
func Percentage(fineGrid bool) Axis {
	ticks := 5
	if fineGrid {
		ticks = 10
	}
	return Axis{Interval: 100 / float64(ticks), Max: 100, TickCount: ticks}
}

// Options controls ForDataset.
type Options struct {
	Target     units.Unit // display unit raw values are converted into
	TickCount  int        // ideal tick count, 5 or 10
	Percentage bool       // plot pre-computed percentages on a 0-100 axis
	FineGrid   bool       // 10 percentage ticks instead of 5
}

// ForDataset returns the value axis for ds. The second result is false for
// pie and donut charts, which have no value axis.
func ForDataset(e *aggregate.Engine, ds *dataset.Dataset, opts Options) (Axis, bool) {
	if ds == nil || ds.ChartType.IsRadial() {
		return Axis{}, false
	}
	if opts.Percentage {
		return Percentage(opts.FineGrid), true
	}
	var maxValue float64
	if ds.ChartType == dataset.StackedBar {
		maxValue = e.MaxStackSum(ds.Series, len(ds.XAxisLabels), opts.Target)
	} else {
		maxValue = e.MaxPoint(ds.Series, opts.Target, false)
	}
	return Compute(maxValue, opts.TickCount), true
}

// clean trims float noise such as 0.30000000000000004 to 12 significant
// digits.
func clean(v float64) float64 {
	c, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return c
}
