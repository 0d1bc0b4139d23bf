package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// decimalTolerance keeps -log10(0.001) = 2.9999999999999996 at 3 decimals.
const decimalTolerance = 1e-9

// zeroThreshold is the magnitude below which Number prints "0".
const zeroThreshold = 0.001

// maxSmallDecimals caps the precision of values below 1.
const maxSmallDecimals = 4

// Kind selects the decoration applied to axis labels.
type Kind int

const (
	Plain Kind = iota
	Currency
	Percentage
)

// Locale is the language used for thousands grouping.
var Locale = language.TraditionalChinese

// Decimals returns how many decimals ticks of an axis with the given
// interval need: 0 for intervals of at least 1, otherwise enough to show
// the interval's first significant digit.
func Decimals(interval float64) int {
	if !(interval > 0) || interval >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(interval) - decimalTolerance))
}

// Tick formats value with the decimals of interval, dropping trailing
// zeros.
func Tick(value, interval float64) string {
	return fixed(value, Decimals(interval))
}

// Axis formats every tick of one axis with the same precision.
type Axis struct {
	decimals int
	kind     Kind
	printer  *message.Printer
}

// NewAxis returns the formatter for an axis with the given interval.
func NewAxis(interval float64, kind Kind) *Axis {
	a := &Axis{decimals: Decimals(interval), kind: kind}
	if kind == Currency {
		a.printer = message.NewPrinter(Locale)
	}
	return a
}

// Decimals returns the precision shared by every tick of the axis.
func (a *Axis) Decimals() int { return a.decimals }

// Format formats one tick value.
func (a *Axis) Format(value float64) string {
	s := fixed(value, a.decimals)
	switch a.kind {
	case Currency:
		return group(a.printer, s)
	case Percentage:
		return s + "%"
	}
	return s
}

// Labels formats every tick value.
func (a *Axis) Labels(ticks []float64) []string {
	out := make([]string, len(ticks))
	for i, v := range ticks {
		out[i] = a.Format(v)
	}
	return out
}

// Number formats a table value with magnitude-adaptive precision:
//
//	|v| < 0.001      "0"
//	|v| >= 10        at most 1 decimal
//	1 <= |v| < 10    at most 2 decimals
//	|v| < 1          up to 4 decimals, one past the first significant digit
//
// Trailing zeros are always removed.
func Number(v float64) string {
	abs := math.Abs(v)
	switch {
	case math.IsNaN(v) || abs < zeroThreshold:
		return "0"
	case abs >= 10:
		return fixed(v, 1)
	case abs >= 1:
		return fixed(v, 2)
	}
	d := int(-math.Floor(math.Log10(abs))) + 1
	if d > maxSmallDecimals {
		d = maxSmallDecimals
	}
	return fixed(v, d)
}

// Percent formats a percentage with exactly two decimals, without a sign.
func Percent(v float64) string {
	if math.IsNaN(v) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Grouped formats v like Number and adds thousands separators.
func Grouped(v float64) string {
	return group(message.NewPrinter(Locale), Number(v))
}

// fixed formats v with d decimals and strips trailing zeros and a dangling
// decimal point. An empty result, or a negative zero, becomes "0".
func fixed(v float64, d int) string {
	s := strconv.FormatFloat(v, 'f', d, 64)
	if d > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}

// group re-prints an already rounded decimal string with locale grouping,
// keeping its number of decimals.
func group(p *message.Printer, s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	d := 0
	if i := strings.IndexByte(s, '.'); i >= 0 {
		d = len(s) - i - 1
	}
	return p.Sprint(number.Decimal(v, number.MinFractionDigits(d), number.MaxFractionDigits(d)))
}
