package units

import (
	"fmt"
	"math"
	"strings"
)

// Unit identifies a measurement unit.
type Unit string

const (
	MetricTon       Unit = "metric_ton"
	Kilogram        Unit = "kilogram"
	NewTaiwanDollar Unit = "new_taiwan_dollar"
)

// kilogramsPerTon is the mass conversion factor between the two mass units.
const kilogramsPerTon = 1000.0

// All lists every supported unit in display order.
var All = []Unit{MetricTon, Kilogram, NewTaiwanDollar}

var labels = map[Unit]string{
	MetricTon:       "公噸",
	Kilogram:        "公斤",
	NewTaiwanDollar: "新台幣",
}

// Label returns the display label of u. Unknown units are returned verbatim.
func Label(u Unit) string {
	if l, ok := labels[u]; ok {
		return l
	}
	return string(u)
}

// IsMass reports whether u measures mass.
func IsMass(u Unit) bool {
	return u == MetricTon || u == Kilogram
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	_, ok := labels[u]
	return ok
}

// String implements fmt.Stringer.
func (u Unit) String() string { return string(u) }

// Parse resolves a unit name. Besides the canonical names it accepts the
// short forms "ton", "kg" and "twd".
func Parse(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric_ton", "ton", "tons", "t":
		return MetricTon, nil
	case "kilogram", "kg", "kilograms":
		return Kilogram, nil
	case "new_taiwan_dollar", "twd", "ntd":
		return NewTaiwanDollar, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Convert expresses value, measured in from, in the unit to.
//
// Converting into the same unit returns value. Metric tons and kilograms
// convert with a factor of 1000. Every other pair returns value unchanged.
// NaN inputs are treated as 0 so a single bad point cannot poison a sum.
func Convert(value float64, from, to Unit) float64 {
	if math.IsNaN(value) {
		return 0
	}
	if from == to {
		return value
	}
	switch {
	case from == MetricTon && to == Kilogram:
		return value * kilogramsPerTon
	case from == Kilogram && to == MetricTon:
		return value / kilogramsPerTon
	}
	return value
}

// Compatible reports whether Convert has a defined conversion for the pair.
func Compatible(from, to Unit) bool {
	if from == to {
		return true
	}
	return IsMass(from) && IsMass(to)
}

// ConvertStrict is Convert that reports incompatible pairs instead of
// passing the value through.
func ConvertStrict(value float64, from, to Unit) (float64, error) {
	if !Compatible(from, to) {
		return value, &PairError{From: from, To: to}
	}
	return Convert(value, from, to), nil
}

// PairError describes a unit pair without a defined conversion.
type PairError struct {
	From Unit
	To   Unit
}

func (e *PairError) Error() string {
	return fmt.Sprintf("no conversion from %s to %s", e.From, e.To)
}
