package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{2022.6151, 2022.62},
		{2022.614, 2022.61},
		{-13.4561, -13.46},
		{0.004, 0},
		{100, 100},
		{1.005, 1.01},
		{-1.005, -1.01},
		{1.015, 1.02},
		{2022.615, 2022.62},
		{0.125, 0.13},
		{-0.001, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.input); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Round(%v) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"zero", 0, true},
		{"large", 1e300, true},
		{"nan", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.input); got != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"share of income", 1500, 5000, 30},
		{"over total", 150, 100, 150},
		{"negative value", -50, 200, -25},
		{"zero total", 10, 0, 0},
		{"negative total", 10, -100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePercentage(tt.value, tt.total); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, got, tt.expected)
			}
		})
	}
}

func TestPercentToDecimal(t *testing.T) {
	if got := PercentToDecimal(6.5); math.Abs(got-0.065) > 1e-12 {
		t.Errorf("PercentToDecimal(6.5) = %v", got)
	}
	if got := PercentToDecimal(0); got != 0 {
		t.Errorf("PercentToDecimal(0) = %v", got)
	}
}
