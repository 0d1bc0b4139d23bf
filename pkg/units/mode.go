package units

import (
	"fmt"
	"strings"
)

// Mode names the y-axis a report is drawn against.
type Mode string

const (
	ModeMetricTon                  Mode = "metric_ton"
	ModeKilogram                   Mode = "kilogram"
	ModeNewTaiwanDollar            Mode = "new_taiwan_dollar"
	ModeMetricTonPercentage        Mode = "metric_ton_percentage"
	ModeKilogramPercentage         Mode = "kilogram_percentage"
	ModeNewTaiwanDollarPercentage  Mode = "new_taiwan_dollar_percentage"
	ModeWeightPercentage           Mode = "weight_percentage"
	ModeWeightPercentageMetricTon  Mode = "weight_percentage_metric_ton"
	ModeWeightPercentageKilogram   Mode = "weight_percentage_kilogram"
	ModeCostPercentageTaiwanDollar Mode = "cost_percentage_new_taiwan_dollar"
)

// ModeInfo is the resolved form of a Mode.
type ModeInfo struct {
	Unit       Unit // unit values are converted into for display
	Percentage bool // values are shares of the category total
}

var modes = map[Mode]ModeInfo{
	ModeMetricTon:                  {Unit: MetricTon},
	ModeKilogram:                   {Unit: Kilogram},
	ModeNewTaiwanDollar:            {Unit: NewTaiwanDollar},
	ModeMetricTonPercentage:        {Unit: MetricTon, Percentage: true},
	ModeKilogramPercentage:         {Unit: Kilogram, Percentage: true},
	ModeNewTaiwanDollarPercentage:  {Unit: NewTaiwanDollar, Percentage: true},
	ModeWeightPercentage:           {Unit: Kilogram, Percentage: true},
	ModeWeightPercentageMetricTon:  {Unit: MetricTon, Percentage: true},
	ModeWeightPercentageKilogram:   {Unit: Kilogram, Percentage: true},
	ModeCostPercentageTaiwanDollar: {Unit: NewTaiwanDollar, Percentage: true},
}

// ParseMode resolves a y-axis mode name. An empty name means metric tons.
func ParseMode(s string) (ModeInfo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return modes[ModeMetricTon], nil
	}
	info, ok := modes[Mode(s)]
	if !ok {
		return ModeInfo{}, fmt.Errorf("unknown y-axis mode %q", s)
	}
	return info, nil
}

// Modes returns every accepted mode name.
func Modes() []Mode {
	return []Mode{
		ModeMetricTon, ModeKilogram, ModeNewTaiwanDollar,
		ModeMetricTonPercentage, ModeKilogramPercentage, ModeNewTaiwanDollarPercentage,
		ModeWeightPercentage, ModeWeightPercentageMetricTon, ModeWeightPercentageKilogram,
		ModeCostPercentageTaiwanDollar,
	}
}
