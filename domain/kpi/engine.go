// Package kpi derives the top-line business metrics from the clean table and
// the monthly summary.
package kpi

import (
	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// Metrics is the KPI mapping. Pointer fields are structurally null when their
// prerequisite is absent: cost metrics without a cost column, ROAS without
// marketing_spend, MoM growth with fewer than two months. Callers must
// distinguish null ("not computable") from zero.
type Metrics struct {
	TotalRevenue        float64  `json:"total_revenue"`
	TotalOrders         int      `json:"total_orders"`
	UniqueCustomers     int      `json:"unique_customers"`
	AvgOrderValue       float64  `json:"average_order_value"`
	RevenuePerCustomer  float64  `json:"revenue_per_customer"`
	OrdersPerCustomer   float64  `json:"orders_per_customer"`
	LatestMonth         string   `json:"latest_month"`
	LatestMonthRevenue  float64  `json:"latest_month_revenue"`
	MoMRevenueGrowth    *float64 `json:"mom_revenue_growth"`
	TotalCost           *float64 `json:"total_cost"`
	GrossMargin         *float64 `json:"gross_margin"`
	TotalMarketingSpend *float64 `json:"total_marketing_spend"`
	ROAS                *float64 `json:"roas"`
	TotalMonths         int      `json:"total_months"`
}

// noData is the latest_month label when no monthly bucket exists
const noData = "N/A"

// Compute derives the KPI mapping. Empty inputs yield a fully-populated
// mapping of zeros and nulls, never an error.
func Compute(clean *table.Table, monthly aggregate.MonthlySummary) Metrics {
	if clean == nil || clean.IsEmpty() || len(monthly.Rows) == 0 {
		return empty()
	}

	m := Metrics{
		TotalRevenue: core.Round2(sumColumn(clean, schema.FieldRevenue)),
		TotalMonths:  len(monthly.Rows),
	}

	// Distinct order_id count, row count only if the column is truly absent.
	if clean.HasColumn(schema.FieldOrderID) {
		m.TotalOrders = distinctCount(clean, schema.FieldOrderID)
	} else {
		m.TotalOrders = clean.RowCount()
	}
	m.UniqueCustomers = distinctCount(clean, schema.FieldCustomerID)

	m.AvgOrderValue = core.Round2(core.SafeDivide(m.TotalRevenue, float64(m.TotalOrders), 0))
	m.RevenuePerCustomer = core.Round2(core.SafeDivide(m.TotalRevenue, float64(m.UniqueCustomers), 0))
	m.OrdersPerCustomer = core.Round2(core.SafeDivide(float64(m.TotalOrders), float64(m.UniqueCustomers), 0))

	latest := monthly.Rows[len(monthly.Rows)-1]
	m.LatestMonth = latest.YearMonth
	m.LatestMonthRevenue = core.Round2(latest.TotalRevenue)

	if len(monthly.Rows) >= 2 {
		previous := monthly.Rows[len(monthly.Rows)-2]
		growth := core.Round2(core.SafePctChange(latest.TotalRevenue, previous.TotalRevenue, 0))
		m.MoMRevenueGrowth = &growth
	}

	if clean.HasColumn(schema.FieldCost) {
		totalCost := core.Round2(sumColumn(clean, schema.FieldCost))
		margin := core.Round2(core.SafeDivide(m.TotalRevenue-totalCost, m.TotalRevenue, 0) * 100)
		m.TotalCost = &totalCost
		m.GrossMargin = &margin
	}

	if clean.HasColumn(schema.FieldMarketingSpend) {
		totalSpend := core.Round2(sumColumn(clean, schema.FieldMarketingSpend))
		roas := core.Round2(core.SafeDivide(m.TotalRevenue, totalSpend, 0))
		m.TotalMarketingSpend = &totalSpend
		m.ROAS = &roas
	}

	return m
}

// empty returns the zero/null mapping for datasets with no usable rows
func empty() Metrics {
	return Metrics{LatestMonth: noData}
}

func sumColumn(t *table.Table, column string) float64 {
	total := 0.0
	for row := 0; row < t.RowCount(); row++ {
		if cell := t.At(row, column); cell.IsNumeric() {
			total += cell.AsFloat64()
		}
	}
	return total
}

func distinctCount(t *table.Table, column string) int {
	if !t.HasColumn(column) {
		return 0
	}
	seen := make(map[string]bool)
	for row := 0; row < t.RowCount(); row++ {
		if cell := t.At(row, column); !cell.IsMissing() {
			seen[cell.AsString()] = true
		}
	}
	return len(seen)
}
