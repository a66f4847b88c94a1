package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// UnitEconomicsResult covers per-order and per-customer economics: AOV,
// revenue per customer, margin, and their monthly trends.
type UnitEconomicsResult struct {
	MedianOrderValue    float64      `json:"median_order_value"`
	AOVTrend            []MonthPoint `json:"aov_trend"`
	RevPerCustomerTrend []MonthPoint `json:"revenue_per_customer_trend"`
	MarginTrend         []MonthPoint `json:"margin_trend,omitempty"`
	KPIs                []Metric     `json:"kpis"`
	Insights            []string     `json:"insights"`
}

// AnalyzeUnitEconomics derives order- and customer-level economics
func AnalyzeUnitEconomics(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) UnitEconomicsResult {
	result := UnitEconomicsResult{}
	if clean == nil || clean.IsEmpty() || len(monthly.Rows) == 0 {
		result.Insights = append(result.Insights, insufficientData)
		return result
	}

	var revenues []float64
	for row := 0; row < clean.RowCount(); row++ {
		if cell := clean.At(row, schema.FieldRevenue); cell.IsNumeric() {
			revenues = append(revenues, cell.AsFloat64())
		}
	}
	if median, err := stats.Median(revenues); err == nil {
		result.MedianOrderValue = core.Round2(median)
	}

	for _, row := range monthly.Rows {
		result.AOVTrend = append(result.AOVTrend, MonthPoint{YearMonth: row.YearMonth, Value: row.AvgOrderValue})
		result.RevPerCustomerTrend = append(result.RevPerCustomerTrend, MonthPoint{
			YearMonth: row.YearMonth,
			Value:     core.Round2(core.SafeDivide(row.TotalRevenue, float64(row.UniqueCustomers), 0)),
		})
		if monthly.HasCost {
			result.MarginTrend = append(result.MarginTrend, MonthPoint{
				YearMonth: row.YearMonth,
				Value:     core.Round2(core.SafeDivide(row.TotalRevenue-row.TotalCost, row.TotalRevenue, 0) * 100),
			})
		}
	}

	result.KPIs = []Metric{
		{Label: "Avg Order Value", Value: fmt.Sprintf("%.2f", metrics.AvgOrderValue)},
		{Label: "Median Order Value", Value: fmt.Sprintf("%.2f", result.MedianOrderValue)},
		{Label: "Revenue / Customer", Value: fmt.Sprintf("%.2f", metrics.RevenuePerCustomer)},
		{Label: "Orders / Customer", Value: fmt.Sprintf("%.1f", metrics.OrdersPerCustomer)},
	}
	if metrics.GrossMargin != nil {
		result.KPIs = append(result.KPIs, Metric{Label: "Gross Margin", Value: fmt.Sprintf("%.1f%%", *metrics.GrossMargin)})
	}

	if metrics.AvgOrderValue > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("average order value is %.2f across all orders", metrics.AvgOrderValue))
	}

	switch opc := metrics.OrdersPerCustomer; {
	case opc > 1.5:
		result.Insights = append(result.Insights,
			fmt.Sprintf("customers place %.1f orders on average; strong repeat behavior", opc))
	case opc > 1.0:
		result.Insights = append(result.Insights,
			fmt.Sprintf("customers place %.1f orders on average; some repeat purchases", opc))
	default:
		result.Insights = append(result.Insights,
			fmt.Sprintf("customers place only %.1f orders on average; mostly one-time buyers", opc))
	}

	if metrics.GrossMargin != nil {
		switch margin := *metrics.GrossMargin; {
		case margin > 30:
			result.Insights = append(result.Insights, fmt.Sprintf("healthy gross margin at %.1f%%", margin))
		case margin > 15:
			result.Insights = append(result.Insights, fmt.Sprintf("moderate gross margin at %.1f%%; room for optimization", margin))
		default:
			result.Insights = append(result.Insights, fmt.Sprintf("low gross margin at %.1f%%; review cost structure", margin))
		}
	}

	return result
}
