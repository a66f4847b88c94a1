package analysis

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// CohortRow is one acquisition-month cohort. Retention[i] is the percentage
// of the cohort active i months after acquisition; Retention[0] is always 100
// for non-empty cohorts.
type CohortRow struct {
	Cohort       string    `json:"cohort"`
	Size         int       `json:"size"`
	Retention    []float64 `json:"retention"`
	TotalRevenue float64   `json:"total_revenue"`
}

// CohortResult tracks customer cohorts by first-purchase month
type CohortResult struct {
	Cohorts        []CohortRow `json:"cohorts"`
	TotalCohorts   int         `json:"total_cohorts"`
	AvgM1Retention float64     `json:"avg_m1_retention"`
	KPIs           []Metric    `json:"kpis"`
	Insights       []string    `json:"insights"`
}

// AnalyzeCohorts builds the retention matrix keyed by acquisition month
func AnalyzeCohorts(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) CohortResult {
	result := CohortResult{}
	if clean == nil || clean.IsEmpty() ||
		!clean.HasColumn(schema.FieldCustomerID) || !clean.HasColumn(schema.FieldYearMonth) {
		result.Insights = append(result.Insights, insufficientData)
		return result
	}

	cohortOf := firstMonthByCustomer(clean)

	// Month offsets are positions in the distinct sorted month list, so gaps
	// in the calendar collapse rather than producing empty offsets.
	monthIndex := distinctMonthIndex(clean)

	type cohortAgg struct {
		activeByOffset map[int]map[string]bool
		revenue        float64
	}
	cohorts := make(map[string]*cohortAgg)

	maxOffset := 0
	for row := 0; row < clean.RowCount(); row++ {
		customer := clean.At(row, schema.FieldCustomerID).AsString()
		month := clean.At(row, schema.FieldYearMonth).AsString()
		if customer == "" || month == "" {
			continue
		}
		cohort := cohortOf[customer]
		offset := monthIndex[month] - monthIndex[cohort]
		if offset < 0 {
			offset = 0
		}
		if offset > maxOffset {
			maxOffset = offset
		}

		agg, ok := cohorts[cohort]
		if !ok {
			agg = &cohortAgg{activeByOffset: make(map[int]map[string]bool)}
			cohorts[cohort] = agg
		}
		if agg.activeByOffset[offset] == nil {
			agg.activeByOffset[offset] = make(map[string]bool)
		}
		agg.activeByOffset[offset][customer] = true
		if cell := clean.At(row, schema.FieldRevenue); cell.IsNumeric() {
			agg.revenue += cell.AsFloat64()
		}
	}

	var cohortKeys []string
	for k := range cohorts {
		cohortKeys = append(cohortKeys, k)
	}
	sort.Strings(cohortKeys)

	var m1Rates []float64
	for _, key := range cohortKeys {
		agg := cohorts[key]
		size := len(agg.activeByOffset[0])
		row := CohortRow{
			Cohort:       key,
			Size:         size,
			TotalRevenue: core.Round2(agg.revenue),
		}
		for offset := 0; offset <= maxOffset; offset++ {
			active := len(agg.activeByOffset[offset])
			rate := core.Round2(core.SafeDivide(float64(active), float64(size), 0) * 100)
			row.Retention = append(row.Retention, rate)
			if offset == 1 && size > 0 {
				m1Rates = append(m1Rates, rate)
			}
		}
		result.Cohorts = append(result.Cohorts, row)
	}

	result.TotalCohorts = len(result.Cohorts)
	if len(m1Rates) > 0 {
		if mean, err := stats.Mean(m1Rates); err == nil {
			result.AvgM1Retention = core.Round2(mean)
		}
	}

	result.KPIs = []Metric{
		{Label: "Total Cohorts", Value: fmt.Sprintf("%d", result.TotalCohorts)},
		{Label: "Avg Month-1 Retention", Value: fmt.Sprintf("%.1f%%", result.AvgM1Retention)},
	}

	switch {
	case result.AvgM1Retention > 30:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average month-1 retention is %.1f%%; strong customer stickiness", result.AvgM1Retention))
	case result.AvgM1Retention > 15:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average month-1 retention is %.1f%%; moderate retention", result.AvgM1Retention))
	case result.AvgM1Retention > 0:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average month-1 retention is only %.1f%%; needs improvement", result.AvgM1Retention))
	default:
		result.Insights = append(result.Insights,
			"not enough multi-month data to calculate retention rates")
	}
	if result.TotalCohorts > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("analyzed %d monthly cohorts of customers", result.TotalCohorts))
	}

	return result
}

// distinctMonthIndex maps each distinct year_month to its sorted position
func distinctMonthIndex(clean *table.Table) map[string]int {
	seen := make(map[string]bool)
	for row := 0; row < clean.RowCount(); row++ {
		if month := clean.At(row, schema.FieldYearMonth).AsString(); month != "" {
			seen[month] = true
		}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}
	return index
}
