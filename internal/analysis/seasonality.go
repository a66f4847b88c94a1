package analysis

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// DayOfWeekRow is one weekday's revenue and order totals
type DayOfWeekRow struct {
	Day          string  `json:"day"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int     `json:"total_orders"`
}

// SeasonalityResult covers month-over-month movement and weekday patterns
type SeasonalityResult struct {
	MoMGrowth      []MonthPoint   `json:"mom_growth"`
	AvgMoMGrowth   float64        `json:"avg_mom_growth"`
	BestMonth      string         `json:"best_month"`
	BestGrowth     float64        `json:"best_growth"`
	WorstMonth     string         `json:"worst_month"`
	WorstGrowth    float64        `json:"worst_growth"`
	PositiveMonths int            `json:"positive_months"`
	DayOfWeek      []DayOfWeekRow `json:"day_of_week"`
	KPIs           []Metric       `json:"kpis"`
	Insights       []string       `json:"insights"`
}

// AnalyzeSeasonality needs at least two monthly buckets to say anything
func AnalyzeSeasonality(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) SeasonalityResult {
	result := SeasonalityResult{}
	if len(monthly.Rows) < 2 {
		result.Insights = append(result.Insights, "need at least 2 months of data for seasonality analysis")
		return result
	}

	var growthValues []float64
	for i := 1; i < len(monthly.Rows); i++ {
		current := monthly.Rows[i]
		previous := monthly.Rows[i-1]
		growth := core.Round2(core.SafePctChange(current.TotalRevenue, previous.TotalRevenue, 0))
		result.MoMGrowth = append(result.MoMGrowth, MonthPoint{YearMonth: current.YearMonth, Value: growth})
		growthValues = append(growthValues, growth)

		if growth > 0 {
			result.PositiveMonths++
		}
		if result.BestMonth == "" || growth > result.BestGrowth {
			result.BestMonth, result.BestGrowth = current.YearMonth, growth
		}
		if result.WorstMonth == "" || growth < result.WorstGrowth {
			result.WorstMonth, result.WorstGrowth = current.YearMonth, growth
		}
	}

	if mean, err := stats.Mean(growthValues); err == nil {
		result.AvgMoMGrowth = core.Round2(mean)
	}

	result.DayOfWeek = dayOfWeekPattern(clean)

	result.KPIs = []Metric{
		{Label: "Avg MoM Growth", Value: fmt.Sprintf("%.1f%%", result.AvgMoMGrowth)},
		{Label: "Best Month", Value: result.BestMonth, Delta: fmt.Sprintf("+%.1f%%", result.BestGrowth)},
		{Label: "Worst Month", Value: result.WorstMonth, Delta: fmt.Sprintf("%.1f%%", result.WorstGrowth)},
	}

	switch avg := result.AvgMoMGrowth; {
	case avg > 5:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average month-over-month revenue growth is %.1f%%; positive trajectory", avg))
	case avg > 0:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average MoM growth is %.1f%%; slow but positive growth", avg))
	case avg < -5:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average MoM growth is %.1f%%; revenue is declining", avg))
	default:
		result.Insights = append(result.Insights,
			fmt.Sprintf("average MoM growth is %.1f%%; revenue is relatively flat", avg))
	}
	result.Insights = append(result.Insights,
		fmt.Sprintf("%d out of %d months showed positive growth", result.PositiveMonths, len(result.MoMGrowth)))

	return result
}

// dayOfWeekPattern sums revenue and orders per weekday, Monday first
func dayOfWeekPattern(clean *table.Table) []DayOfWeekRow {
	if clean == nil || !clean.HasColumn(schema.FieldDate) {
		return nil
	}

	revenue := make(map[time.Weekday]float64)
	orders := make(map[time.Weekday]map[string]bool)
	rowCounts := make(map[time.Weekday]int)
	hasOrders := clean.HasColumn(schema.FieldOrderID)

	for row := 0; row < clean.RowCount(); row++ {
		cell := clean.At(row, schema.FieldDate)
		if !cell.IsTime() {
			continue
		}
		day := cell.AsTime().Weekday()
		rowCounts[day]++
		if revCell := clean.At(row, schema.FieldRevenue); revCell.IsNumeric() {
			revenue[day] += revCell.AsFloat64()
		}
		if hasOrders {
			if orders[day] == nil {
				orders[day] = make(map[string]bool)
			}
			if idCell := clean.At(row, schema.FieldOrderID); !idCell.IsMissing() {
				orders[day][idCell.AsString()] = true
			}
		}
	}

	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	var out []DayOfWeekRow
	for _, day := range weekdays {
		if rowCounts[day] == 0 {
			continue
		}
		count := rowCounts[day]
		if hasOrders {
			count = len(orders[day])
		}
		out = append(out, DayOfWeekRow{
			Day:          day.String(),
			TotalRevenue: core.Round2(revenue[day]),
			TotalOrders:  count,
		})
	}
	return out
}
