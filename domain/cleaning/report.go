package cleaning

import "fmt"

// Report counts every corrective action the cleaner took. It is purely
// observational: nothing downstream changes behavior based on it.
type Report struct {
	OriginalRows      int `json:"original_rows"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	NullRowsDropped   int `json:"null_rows_dropped"`
	InvalidDates      int `json:"invalid_dates"`
	InvalidRevenue    int `json:"invalid_revenue"`
	NegativeRevenue   int `json:"negative_revenue"`
	TextNormalized    int `json:"text_normalized"`
	FinalRows         int `json:"final_rows"`
}

// Summary renders the report as human-readable lines for the presentation
// layer.
func (r Report) Summary() []string {
	lines := []string{
		fmt.Sprintf("started with %d rows, %d rows after cleaning", r.OriginalRows, r.FinalRows),
	}
	if r.DuplicatesRemoved > 0 {
		lines = append(lines, fmt.Sprintf("removed %d duplicate orders", r.DuplicatesRemoved))
	}
	if r.InvalidDates > 0 {
		lines = append(lines, fmt.Sprintf("%d rows had invalid dates and were removed", r.InvalidDates))
	}
	if r.InvalidRevenue > 0 {
		lines = append(lines, fmt.Sprintf("%d rows had unreadable revenue values (kept as null)", r.InvalidRevenue))
	}
	if r.NegativeRevenue > 0 {
		lines = append(lines, fmt.Sprintf("%d rows have negative revenue values (kept in analysis)", r.NegativeRevenue))
	}
	if r.TextNormalized > 0 {
		lines = append(lines, fmt.Sprintf("normalized %d text columns to lowercase", r.TextNormalized))
	}
	return lines
}
