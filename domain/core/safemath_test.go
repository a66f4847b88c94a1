package core

import (
	"testing"
)

// TestSafeDivide tests division with zero-denominator fallback
func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		def         float64
		expected    float64
	}{
		{"normal division", 10, 4, 0, 2.5},
		{"zero denominator", 10, 0, 0, 0},
		{"zero denominator custom default", 10, 0, -1, -1},
		{"zero numerator", 0, 5, 0, 0},
		{"negative values", -10, 2, 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDivide(tt.numerator, tt.denominator, tt.def)
			if got != tt.expected {
				t.Errorf("SafeDivide(%v, %v, %v) = %v, want %v",
					tt.numerator, tt.denominator, tt.def, got, tt.expected)
			}
		})
	}
}

// TestSafePctChange tests percentage change with zero-baseline fallback
func TestSafePctChange(t *testing.T) {
	tests := []struct {
		name     string
		newVal   float64
		oldVal   float64
		def      float64
		expected float64
	}{
		{"growth", 1200, 1000, 0, 20},
		{"decline", 800, 1000, 0, -20},
		{"flat", 1000, 1000, 0, 0},
		{"zero baseline", 500, 0, 0, 0},
		{"zero baseline custom default", 500, 0, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafePctChange(tt.newVal, tt.oldVal, tt.def)
			if got != tt.expected {
				t.Errorf("SafePctChange(%v, %v, %v) = %v, want %v",
					tt.newVal, tt.oldVal, tt.def, got, tt.expected)
			}
		})
	}
}

// TestRound2 tests rounding to two decimal places
func TestRound2(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{2.344, 2.34},
		{2.346, 2.35},
		{-1.554, -1.55},
		{0, 0},
		{100, 100},
		{19.999, 20},
	}

	for _, tt := range tests {
		got := Round2(tt.input)
		if got != tt.expected {
			t.Errorf("Round2(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

// TestComputeFingerprint tests that fingerprints are sensitive to column
// order and row count
func TestComputeFingerprint(t *testing.T) {
	base := ComputeFingerprint([]string{"date", "revenue"}, 100)

	if base.String() == "" {
		t.Fatal("Expected non-empty fingerprint")
	}

	same := ComputeFingerprint([]string{"date", "revenue"}, 100)
	if base != same {
		t.Error("Expected identical inputs to produce identical fingerprints")
	}

	reordered := ComputeFingerprint([]string{"revenue", "date"}, 100)
	if base == reordered {
		t.Error("Expected column order to change the fingerprint")
	}

	resized := ComputeFingerprint([]string{"date", "revenue"}, 101)
	if base == resized {
		t.Error("Expected row count to change the fingerprint")
	}
}
