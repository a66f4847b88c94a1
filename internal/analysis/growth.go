package analysis

import (
	"fmt"
	"sort"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// CustomerMixRow splits one month's revenue and customers into new vs repeat
type CustomerMixRow struct {
	YearMonth       string  `json:"year_month"`
	NewRevenue      float64 `json:"new_revenue"`
	RepeatRevenue   float64 `json:"repeat_revenue"`
	NewCustomers    int     `json:"new_customers"`
	RepeatCustomers int     `json:"repeat_customers"`
}

// GrowthResult diagnoses growth quality: how much of the business is repeat
// customers versus fresh acquisition.
type GrowthResult struct {
	RepeatRate         float64          `json:"repeat_rate"`
	RepeatRevenueShare float64          `json:"repeat_revenue_share"`
	NewCustomers       int              `json:"new_customers"`
	RepeatCustomers    int              `json:"repeat_customers"`
	MonthlyMix         []CustomerMixRow `json:"monthly_mix"`
	KPIs               []Metric         `json:"kpis"`
	Insights           []string         `json:"insights"`
}

// AnalyzeGrowth classifies every row as new or repeat by comparing its month
// to the customer's first-purchase month.
func AnalyzeGrowth(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) GrowthResult {
	result := GrowthResult{}
	if clean == nil || clean.IsEmpty() || len(monthly.Rows) == 0 ||
		!clean.HasColumn(schema.FieldCustomerID) || !clean.HasColumn(schema.FieldYearMonth) {
		result.Insights = append(result.Insights, insufficientData)
		return result
	}

	firstMonth := firstMonthByCustomer(clean)

	type mix struct {
		newRevenue, repeatRevenue     float64
		newCustomers, repeatCustomers map[string]bool
	}
	byMonth := make(map[string]*mix)
	var monthOrder []string

	newSet := make(map[string]bool)
	repeatSet := make(map[string]bool)
	var newRevenue, repeatRevenue float64

	for row := 0; row < clean.RowCount(); row++ {
		customer := clean.At(row, schema.FieldCustomerID).AsString()
		month := clean.At(row, schema.FieldYearMonth).AsString()
		if customer == "" || month == "" {
			continue
		}
		revenue := 0.0
		if cell := clean.At(row, schema.FieldRevenue); cell.IsNumeric() {
			revenue = cell.AsFloat64()
		}

		m, ok := byMonth[month]
		if !ok {
			m = &mix{newCustomers: make(map[string]bool), repeatCustomers: make(map[string]bool)}
			byMonth[month] = m
			monthOrder = append(monthOrder, month)
		}

		if month == firstMonth[customer] {
			newSet[customer] = true
			newRevenue += revenue
			m.newRevenue += revenue
			m.newCustomers[customer] = true
		} else {
			repeatSet[customer] = true
			repeatRevenue += revenue
			m.repeatCustomers[customer] = true
			m.repeatRevenue += revenue
		}
	}

	sort.Strings(monthOrder)
	for _, month := range monthOrder {
		m := byMonth[month]
		result.MonthlyMix = append(result.MonthlyMix, CustomerMixRow{
			YearMonth:       month,
			NewRevenue:      m.newRevenue,
			RepeatRevenue:   m.repeatRevenue,
			NewCustomers:    len(m.newCustomers),
			RepeatCustomers: len(m.repeatCustomers),
		})
	}

	result.NewCustomers = len(newSet)
	result.RepeatCustomers = len(repeatSet)
	result.RepeatRate = core.Round2(core.SafeDivide(float64(result.RepeatCustomers), float64(metrics.UniqueCustomers), 0) * 100)
	result.RepeatRevenueShare = core.Round2(core.SafeDivide(repeatRevenue, newRevenue+repeatRevenue, 0) * 100)

	result.KPIs = []Metric{
		{Label: "Repeat Customer Rate", Value: fmt.Sprintf("%.1f%%", result.RepeatRate)},
		{Label: "Repeat Revenue Share", Value: fmt.Sprintf("%.1f%%", result.RepeatRevenueShare)},
		{Label: "New Customers", Value: fmt.Sprintf("%d", result.NewCustomers)},
		{Label: "Repeat Customers", Value: fmt.Sprintf("%d", result.RepeatCustomers)},
	}

	switch {
	case result.RepeatRate > 40:
		result.Insights = append(result.Insights,
			fmt.Sprintf("strong repeat customer base: %.1f%% of customers are repeat buyers", result.RepeatRate))
	case result.RepeatRate > 20:
		result.Insights = append(result.Insights,
			fmt.Sprintf("moderate repeat rate: %.1f%% of customers return; focus on retention", result.RepeatRate))
	default:
		result.Insights = append(result.Insights,
			fmt.Sprintf("low repeat rate: only %.1f%% of customers return; retention needs attention", result.RepeatRate))
	}

	if result.RepeatRevenueShare > 50 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("repeat customers drive %.1f%% of revenue; healthy growth quality", result.RepeatRevenueShare))
	} else {
		result.Insights = append(result.Insights,
			fmt.Sprintf("new customers drive %.1f%% of revenue; growth depends heavily on acquisition",
				core.Round2(100-result.RepeatRevenueShare)))
	}

	return result
}

// firstMonthByCustomer maps each customer to their earliest year_month
func firstMonthByCustomer(clean *table.Table) map[string]string {
	first := make(map[string]string)
	for row := 0; row < clean.RowCount(); row++ {
		customer := clean.At(row, schema.FieldCustomerID).AsString()
		month := clean.At(row, schema.FieldYearMonth).AsString()
		if customer == "" || month == "" {
			continue
		}
		if existing, ok := first[customer]; !ok || month < existing {
			first[customer] = month
		}
	}
	return first
}
