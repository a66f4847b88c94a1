package core

import "math"

// SafeDivide returns numerator/denominator, or def when the denominator is
// zero, NaN, or infinite. Every ratio in the pipeline goes through here so a
// degenerate group never turns into a panic or an Inf in a report.
func SafeDivide(numerator, denominator, def float64) float64 {
	if denominator == 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return def
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return def
	}
	return result
}

// SafePctChange returns ((newVal - oldVal) / oldVal) * 100, or def when the
// old value is zero or not finite.
func SafePctChange(newVal, oldVal, def float64) float64 {
	if oldVal == 0 || math.IsNaN(oldVal) || math.IsInf(oldVal, 0) {
		return def
	}
	result := ((newVal - oldVal) / oldVal) * 100
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return def
	}
	return result
}

// Round2 rounds to two decimal places, the precision used for every monetary
// figure the pipeline emits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
