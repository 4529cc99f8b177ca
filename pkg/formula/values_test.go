package formula

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValuesGet(t *testing.T) {
	v := Values{"a": 5, "nan": math.NaN(), "inf": math.Inf(1), "zero": 0}

	tests := []struct {
		name     string
		key      string
		fallback float64
		get      float64
		getOr    float64
	}{
		{"present", "a", 9, 5, 5},
		{"absent", "missing", 9, 0, 9},
		{"nan", "nan", 9, 0, 9},
		{"inf", "inf", 9, 0, 9},
		{"zero falls back", "zero", 9, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Get(tt.key); got != tt.get {
				t.Errorf("Get(%q) = %v, expected %v", tt.key, got, tt.get)
			}
			if got := v.GetOr(tt.key, tt.fallback); got != tt.getOr {
				t.Errorf("GetOr(%q) = %v, expected %v", tt.key, got, tt.getOr)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected float64
	}{
		{"float", 6.5, 6.5},
		{"int", 30, 30},
		{"numeric string", "400000", 400000},
		{"grouped currency string", "$1,250.50", 1250.5},
		{"percent string", "6.5%", 6.5},
		{"true", true, 1},
		{"false", false, 0},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"nan string", "NaN", 0},
		{"object", map[string]any{"x": 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseValue(tt.raw); got != tt.expected {
				t.Errorf("ParseValue(%v) = %v, expected %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestParseValuesFromJSON(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(`{"homePrice": 400000, "downPayment": "80000", "isImmediate": true, "note": null}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	v := ParseValues(raw)
	if v.Get("homePrice") != 400000 || v.Get("downPayment") != 80000 || v.Get("isImmediate") != 1 || v.Get("note") != 0 {
		t.Errorf("ParseValues() = %v", v)
	}

	s := ParseStrings(map[string]string{"rate": "7", "time": "twenty"})
	if s.Get("rate") != 7 || s.Get("time") != 0 {
		t.Errorf("ParseStrings() = %v", s)
	}
}

func TestCanonical(t *testing.T) {
	a := Values{"b": 2, "a": 1.5}
	b := Values{"a": 1.5, "b": 2}
	if a.Canonical() != b.Canonical() {
		t.Errorf("Canonical() differs for equal values: %q vs %q", a.Canonical(), b.Canonical())
	}
	if got := a.Canonical(); got != "a=1.5&b=2" {
		t.Errorf("Canonical() = %q", got)
	}

	c := a.Clone()
	c["a"] = 3
	if a["a"] != 1.5 {
		t.Error("Clone() shares storage with the original")
	}
}
