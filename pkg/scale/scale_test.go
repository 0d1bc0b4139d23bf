package scale

import (
	"math"
	"math/rand"
	"testing"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/aggregate"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/dataset"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/units"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		max      float64
		ideal    int
		interval float64
		axisMax  float64
		ticks    int
	}{
		{"47 over 5", 47, 5, 10, 50, 5},
		{"3 over 5", 3, 5, 1, 3, 3},
		{"exact 50 over 5", 50, 5, 10, 50, 5},
		{"100 over 10", 100, 10, 10, 100, 10},
		{"small values", 0.47, 5, 0.1, 0.5, 5},
		{"tiny max", 0.003, 5, 0.001, 0.003, 3},
		{"large values", 12345, 5, 5000, 15000, 3},
		{"1 over 5", 1, 5, 0.2, 1, 5},
		{"ideal below two uses default", 47, 0, 10, 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.max, tt.ideal)
			if got.Interval != tt.interval || got.Max != tt.axisMax || got.TickCount != tt.ticks {
				t.Errorf("Compute(%v, %d) = %+v, want {Interval:%v Max:%v TickCount:%d}",
					tt.max, tt.ideal, got, tt.interval, tt.axisMax, tt.ticks)
			}
		})
	}
}

func TestComputeDegenerate(t *testing.T) {
	for _, v := range []float64{0, -5, math.NaN()} {
		got := Compute(v, 5)
		want := Axis{Interval: 1, Max: 5, TickCount: 5}
		if got != want {
			t.Errorf("Compute(%v, 5) = %+v, want %+v", v, got, want)
		}
	}
}

func TestComputeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, ideal := range []int{5, 10} {
		for i := 0; i < 2000; i++ {
			maxValue := math.Pow(10, rng.Float64()*12-6) * (1 + rng.Float64())
			a := Compute(maxValue, ideal)

			if a.TickCount < 2 {
				t.Fatalf("Compute(%v, %d): TickCount %d < 2", maxValue, ideal, a.TickCount)
			}
			if a.Interval <= 0 {
				t.Fatalf("Compute(%v, %d): Interval %v <= 0", maxValue, ideal, a.Interval)
			}
			if d := math.Abs(a.Max - float64(a.TickCount)*a.Interval); d > 1e-9*a.Max {
				t.Fatalf("Compute(%v, %d) = %+v: Max != TickCount*Interval", maxValue, ideal, a)
			}
			if a.Max < maxValue {
				t.Fatalf("Compute(%v, %d) = %+v: Max below data maximum", maxValue, ideal, a)
			}
		}
	}
}

func TestComputeNeverBelowMaximum(t *testing.T) {
	tests := []struct {
		maxValue float64
		ideal    int
		want     Axis
	}{
		{50.00000001, 5, Axis{Interval: 10, Max: 60, TickCount: 6}},
		{3.0000000001, 5, Axis{Interval: 1, Max: 4, TickCount: 4}},
		{50, 5, Axis{Interval: 10, Max: 50, TickCount: 5}},
		{3, 5, Axis{Interval: 1, Max: 3, TickCount: 3}},
	}
	for _, tt := range tests {
		got := Compute(tt.maxValue, tt.ideal)
		if got != tt.want {
			t.Errorf("Compute(%v, %d) = %+v, want %+v", tt.maxValue, tt.ideal, got, tt.want)
		}
		if got.Max < tt.maxValue {
			t.Errorf("Compute(%v, %d).Max = %v, below the data maximum", tt.maxValue, tt.ideal, got.Max)
		}
	}

	// Sums such as 0.1+0.2 land a hair above a tick; the axis must still
	// cover them.
	sum := 0.1 + 0.2
	if got := Compute(sum, 5); got.Max < sum {
		t.Errorf("Compute(%v, 5).Max = %v, below the data maximum", sum, got.Max)
	}
}

func TestPercentage(t *testing.T) {
	fine := Percentage(true)
	if fine.Max != 100 || fine.TickCount != 10 || fine.Interval != 10 {
		t.Errorf("Percentage(true) = %+v", fine)
	}
	coarse := Percentage(false)
	if coarse.Max != 100 || coarse.TickCount != 5 || coarse.Interval != 20 {
		t.Errorf("Percentage(false) = %+v", coarse)
	}
}

func TestTicks(t *testing.T) {
	got := Compute(0.7, 5).Ticks()
	want := []float64{0, 0.2, 0.4, 0.6, 0.8}
	if len(got) != len(want) {
		t.Fatalf("Ticks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ticks()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestForDatasetStacked(t *testing.T) {
	ds := &dataset.Dataset{
		ChartType:   dataset.StackedBar,
		XAxisLabels: []string{"a", "b"},
		Series: []dataset.Series{
			{Name: "A", Unit: units.MetricTon, Data: dataset.Values{10, 20}, RawData: dataset.Values{10, 20}},
			{Name: "B", Unit: units.MetricTon, Data: dataset.Values{5, 15}, RawData: dataset.Values{5, 15}},
		},
	}
	e := aggregate.New(nil)

	got, ok := ForDataset(e, ds, Options{Target: units.MetricTon, TickCount: 5})
	if !ok {
		t.Fatal("ForDataset reported no axis for a stacked bar chart")
	}
	if want := Compute(35, 5); got != want {
		t.Errorf("stacked axis = %+v, want %+v", got, want)
	}
	if got.Max < 35 {
		t.Errorf("stacked axis max %v does not fit the tallest stack", got.Max)
	}

	ds.ChartType = dataset.Bar
	got, _ = ForDataset(e, ds, Options{Target: units.MetricTon, TickCount: 5})
	if want := Compute(20, 5); got != want {
		t.Errorf("bar axis = %+v, want %+v", got, want)
	}

	got, _ = ForDataset(e, ds, Options{Target: units.Kilogram, TickCount: 5})
	if want := Compute(20000, 5); got != want {
		t.Errorf("bar axis in kg = %+v, want %+v", got, want)
	}
}

func TestForDatasetModes(t *testing.T) {
	ds := &dataset.Dataset{
		ChartType:   dataset.Line,
		XAxisLabels: []string{"a"},
		Series:      []dataset.Series{{Name: "A", Unit: units.MetricTon, Data: dataset.Values{40}, RawData: dataset.Values{4}}},
	}
	e := aggregate.New(nil)

	got, ok := ForDataset(e, ds, Options{Target: units.MetricTon, TickCount: 5, Percentage: true, FineGrid: true})
	if !ok || got != Percentage(true) {
		t.Errorf("percentage axis = %+v, %v", got, ok)
	}

	ds.ChartType = dataset.Pie
	if _, ok := ForDataset(e, ds, Options{Target: units.MetricTon, TickCount: 5}); ok {
		t.Error("pie chart should have no value axis")
	}
}
