package format

import (
	"strings"
	"testing"
)

func TestDecimals(t *testing.T) {
	tests := []struct {
		interval float64
		want     int
	}{
		{10, 0},
		{1, 0},
		{5000, 0},
		{0.5, 1},
		{0.2, 1},
		{0.1, 1},
		{0.05, 2},
		{0.01, 2},
		{0.001, 3},
		{0.0002, 4},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Decimals(tt.interval); got != tt.want {
			t.Errorf("Decimals(%v) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestTick(t *testing.T) {
	tests := []struct {
		value    float64
		interval float64
		want     string
	}{
		{0, 10, "0"},
		{50, 10, "50"},
		{0.4, 0.2, "0.4"},
		{1, 0.2, "1"},
		{0.6000000000000001, 0.2, "0.6"},
		{0.15, 0.05, "0.15"},
		{0.1, 0.05, "0.1"},
		{0, 0.05, "0"},
	}
	for _, tt := range tests {
		if got := Tick(tt.value, tt.interval); got != tt.want {
			t.Errorf("Tick(%v, %v) = %q, want %q", tt.value, tt.interval, got, tt.want)
		}
	}
}

func TestAxisSharesDecimals(t *testing.T) {
	a := NewAxis(0.2, Plain)
	if a.Decimals() != 1 {
		t.Fatalf("Decimals() = %d, want 1", a.Decimals())
	}
	labels := a.Labels([]float64{0, 0.2, 0.4, 0.6000000000000001, 0.8, 1})
	want := []string{"0", "0.2", "0.4", "0.6", "0.8", "1"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, labels[i], want[i])
		}
	}
	for _, l := range labels {
		if i := strings.IndexByte(l, '.'); i >= 0 && len(l)-i-1 > a.Decimals() {
			t.Errorf("label %q exceeds axis precision %d", l, a.Decimals())
		}
	}
}

func TestAxisKinds(t *testing.T) {
	if got := NewAxis(20, Percentage).Format(40); got != "40%" {
		t.Errorf("percentage tick = %q, want 40%%", got)
	}
	if got := NewAxis(500000, Currency).Format(1500000); got != "1,500,000" {
		t.Errorf("currency tick = %q, want 1,500,000", got)
	}
	if got := NewAxis(0.5, Currency).Format(1234.5); got != "1,234.5" {
		t.Errorf("currency tick = %q, want 1,234.5", got)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{0.0004, "0"},
		{-0.0009, "0"},
		{0.001234, "0.0012"},
		{0.0123, "0.012"},
		{0.5, "0.5"},
		{0.456, "0.46"},
		{0.1, "0.1"},
		{1, "1"},
		{2.5, "2.5"},
		{3.14159, "3.14"},
		{9.999, "10"},
		{10, "10"},
		{47.26, "47.3"},
		{2500, "2500"},
		{123456.78, "123456.8"},
		{-12.34, "-12.3"},
	}
	for _, tt := range tests {
		if got := Number(tt.v); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{100.0 / 3, "33.33"},
		{200.0 / 3, "66.67"},
		{50, "50.00"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := Percent(tt.v); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestGrouped(t *testing.T) {
	if got := Grouped(1234567.89); got != "1,234,567.9" {
		t.Errorf("Grouped = %q, want 1,234,567.9", got)
	}
}
