// Package analysis contains the downstream analytical views. Each view
// re-derives its metrics from the clean table, the monthly summary, and the
// KPI mapping, and degrades to an "insufficient data" insight on empty input
// rather than erroring.
package analysis

// Metric is one labeled headline figure of a view
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// MonthPoint is one (year_month, value) observation of a monthly series
type MonthPoint struct {
	YearMonth string  `json:"year_month"`
	Value     float64 `json:"value"`
}

const insufficientData = "not enough data for this analysis"
