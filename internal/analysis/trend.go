package analysis

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/table"
)

// TrendResult carries the investor-view numbers: compound growth rates, a
// short linear projection, and cumulative revenue.
type TrendResult struct {
	AnnualizedCAGR    float64      `json:"annualized_cagr"`
	MonthlyGrowthRate float64      `json:"monthly_growth_rate"`
	FirstMonthRevenue float64      `json:"first_month_revenue"`
	LastMonthRevenue  float64      `json:"last_month_revenue"`
	Projection        []MonthPoint `json:"projection"`
	CumulativeRevenue []MonthPoint `json:"cumulative_revenue"`
	KPIs              []Metric     `json:"kpis"`
	Insights          []string     `json:"insights"`
}

// projectionMonths is how far ahead the linear projection extends
const projectionMonths = 3

// AnalyzeTrend computes CAGR and a least-squares revenue projection
func AnalyzeTrend(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) TrendResult {
	result := TrendResult{}
	if len(monthly.Rows) < 2 {
		result.Insights = append(result.Insights, "need at least 2 months of data to calculate CAGR")
		return result
	}

	first := monthly.Rows[0]
	last := monthly.Rows[len(monthly.Rows)-1]
	months := len(monthly.Rows)

	result.FirstMonthRevenue = core.Round2(first.TotalRevenue)
	result.LastMonthRevenue = core.Round2(last.TotalRevenue)
	result.AnnualizedCAGR = cagr(first.TotalRevenue, last.TotalRevenue, float64(months)/12.0)
	result.MonthlyGrowthRate = cagr(first.TotalRevenue, last.TotalRevenue, float64(months))

	result.Projection = projectRevenue(monthly)

	cumulative := 0.0
	for _, row := range monthly.Rows {
		cumulative += row.TotalRevenue
		result.CumulativeRevenue = append(result.CumulativeRevenue, MonthPoint{
			YearMonth: row.YearMonth,
			Value:     core.Round2(cumulative),
		})
	}

	result.KPIs = []Metric{
		{Label: "Annualized CAGR", Value: fmt.Sprintf("%.2f%%", result.AnnualizedCAGR)},
		{Label: "Monthly Growth Rate", Value: fmt.Sprintf("%.2f%%", result.MonthlyGrowthRate)},
		{Label: "First Month Revenue", Value: fmt.Sprintf("%.0f", result.FirstMonthRevenue)},
		{Label: "Latest Month Revenue", Value: fmt.Sprintf("%.0f", result.LastMonthRevenue)},
	}

	result.Insights = append(result.Insights,
		fmt.Sprintf("annualized CAGR: %.2f%% over %d months of data", result.AnnualizedCAGR, months))
	switch c := result.AnnualizedCAGR; {
	case c > 50:
		result.Insights = append(result.Insights, "hyper-growth territory; excellent trajectory for investors")
	case c > 20:
		result.Insights = append(result.Insights, "strong growth rate; attractive for investment")
	case c > 0:
		result.Insights = append(result.Insights, "moderate growth; stable but may need acceleration")
	default:
		result.Insights = append(result.Insights, "negative CAGR; revenue is declining over the period")
	}
	result.Insights = append(result.Insights, fmt.Sprintf(
		"investor summary: %d months data, %.0f total revenue, %d orders, %d customers, AOV %.2f",
		months, metrics.TotalRevenue, metrics.TotalOrders, metrics.UniqueCustomers, metrics.AvgOrderValue))

	return result
}

// cagr is the compound growth rate in percent over the given periods.
// Degenerate inputs (non-positive endpoints or periods) yield 0.
func cagr(beginning, ending, periods float64) float64 {
	if beginning <= 0 || ending <= 0 || periods <= 0 {
		return 0.0
	}
	return core.Round2((math.Pow(ending/beginning, 1.0/periods) - 1.0) * 100)
}

// projectRevenue fits an ordinary least-squares line through the monthly
// revenue series and extends it projectionMonths ahead. Projected values are
// floored at zero.
func projectRevenue(monthly aggregate.MonthlySummary) []MonthPoint {
	n := len(monthly.Rows)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, row := range monthly.Rows {
		xs[i] = float64(i)
		ys[i] = row.TotalRevenue
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	lastMonth, err := time.Parse("2006-01", monthly.Rows[n-1].YearMonth)
	if err != nil {
		return nil
	}

	var out []MonthPoint
	for step := 1; step <= projectionMonths; step++ {
		predicted := alpha + beta*float64(n-1+step)
		if predicted < 0 {
			predicted = 0
		}
		out = append(out, MonthPoint{
			YearMonth: lastMonth.AddDate(0, step, 0).Format("2006-01"),
			Value:     core.Round2(predicted),
		})
	}
	return out
}
