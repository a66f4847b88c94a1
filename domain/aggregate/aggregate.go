// Package aggregate reduces a clean transaction table into monthly, segment,
// and daily summaries. Each reduction is pure and returns an empty summary,
// never an error, when its grouping column is absent or the input is empty.
package aggregate

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"commercepulse/domain/core"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// MonthlyRow is one year_month bucket of the monthly summary
type MonthlyRow struct {
	YearMonth           string  `json:"year_month"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalOrders         int     `json:"total_orders"`
	UniqueCustomers     int     `json:"unique_customers"`
	AvgOrderValue       float64 `json:"average_order_value"`
	TotalCost           float64 `json:"total_cost,omitempty"`
	TotalMarketingSpend float64 `json:"total_marketing_spend,omitempty"`
}

// MonthlySummary holds monthly rows in ascending year_month order. HasCost
// and HasSpend report whether the conditional columns were present upstream.
type MonthlySummary struct {
	Rows     []MonthlyRow `json:"rows"`
	HasCost  bool         `json:"has_cost"`
	HasSpend bool         `json:"has_spend"`
}

// SegmentRow is one segment bucket, keyed by the caller-chosen field's value
type SegmentRow struct {
	Segment             string  `json:"segment"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalOrders         int     `json:"total_orders"`
	UniqueCustomers     int     `json:"unique_customers"`
	AvgOrderValue       float64 `json:"average_order_value"`
	TotalCost           float64 `json:"total_cost,omitempty"`
	TotalMarketingSpend float64 `json:"total_marketing_spend,omitempty"`
}

// SegmentSummary holds segment rows sorted by total revenue descending
type SegmentSummary struct {
	Field    string       `json:"field"`
	Rows     []SegmentRow `json:"rows"`
	HasCost  bool         `json:"has_cost"`
	HasSpend bool         `json:"has_spend"`
}

// DailyRow is one calendar-day bucket
type DailyRow struct {
	Date         string  `json:"date"`
	DailyRevenue float64 `json:"daily_revenue"`
	DailyOrders  int     `json:"daily_orders"`
}

// DailySummary holds daily rows in ascending date order
type DailySummary struct {
	Rows []DailyRow `json:"rows"`
}

// Summaries bundles the three reductions over one clean table
type Summaries struct {
	Monthly  MonthlySummary            `json:"monthly"`
	Daily    DailySummary              `json:"daily"`
	Segments map[string]SegmentSummary `json:"segments"`
}

// group accumulates aggregates for one bucket during a reduction
type group struct {
	key       string
	first     int
	revenue   float64
	cost      float64
	spend     float64
	rowCount  int
	orders    map[string]bool
	customers map[string]bool
}

// OrderCount returns the group's order total: distinct order_id values when
// the column exists, plain row count otherwise. The same definition is used
// by the KPI engine so the two never diverge.
func (g *group) OrderCount(hasOrderID bool) int {
	if hasOrderID {
		return len(g.orders)
	}
	return g.rowCount
}

// Monthly groups the clean table by year_month, ascending
func Monthly(clean *table.Table) MonthlySummary {
	if clean == nil || clean.IsEmpty() || !clean.HasColumn(schema.FieldYearMonth) {
		return MonthlySummary{}
	}

	groups, order := reduce(clean, func(row int) (string, bool) {
		cell := clean.At(row, schema.FieldYearMonth)
		return cell.AsString(), !cell.IsMissing()
	})

	summary := MonthlySummary{
		HasCost:  clean.HasColumn(schema.FieldCost),
		HasSpend: clean.HasColumn(schema.FieldMarketingSpend),
	}
	hasOrders := clean.HasColumn(schema.FieldOrderID)
	for _, key := range order {
		g := groups[key]
		orders := g.OrderCount(hasOrders)
		row := MonthlyRow{
			YearMonth:       g.key,
			TotalRevenue:    g.revenue,
			TotalOrders:     orders,
			UniqueCustomers: len(g.customers),
			AvgOrderValue:   core.Round2(core.SafeDivide(g.revenue, float64(orders), 0)),
		}
		if summary.HasCost {
			row.TotalCost = g.cost
		}
		if summary.HasSpend {
			row.TotalMarketingSpend = g.spend
		}
		summary.Rows = append(summary.Rows, row)
	}

	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].YearMonth < summary.Rows[j].YearMonth
	})
	return summary
}

// Segment groups the clean table by an arbitrary categorical field, sorted by
// total revenue descending with ties kept in first-appearance order.
func Segment(clean *table.Table, field string) SegmentSummary {
	if clean == nil || clean.IsEmpty() || !clean.HasColumn(field) {
		return SegmentSummary{Field: field}
	}

	groups, order := reduce(clean, func(row int) (string, bool) {
		cell := clean.At(row, field)
		return cell.AsString(), !cell.IsMissing()
	})

	summary := SegmentSummary{
		Field:    field,
		HasCost:  clean.HasColumn(schema.FieldCost),
		HasSpend: clean.HasColumn(schema.FieldMarketingSpend),
	}
	hasOrders := clean.HasColumn(schema.FieldOrderID)
	for _, key := range order {
		g := groups[key]
		orders := g.OrderCount(hasOrders)
		row := SegmentRow{
			Segment:         g.key,
			TotalRevenue:    g.revenue,
			TotalOrders:     orders,
			UniqueCustomers: len(g.customers),
			AvgOrderValue:   core.Round2(core.SafeDivide(g.revenue, float64(orders), 0)),
		}
		if summary.HasCost {
			row.TotalCost = g.cost
		}
		if summary.HasSpend {
			row.TotalMarketingSpend = g.spend
		}
		summary.Rows = append(summary.Rows, row)
	}

	sort.SliceStable(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].TotalRevenue > summary.Rows[j].TotalRevenue
	})
	return summary
}

// Daily groups the clean table by calendar date, ascending
func Daily(clean *table.Table) DailySummary {
	if clean == nil || clean.IsEmpty() || !clean.HasColumn(schema.FieldDate) {
		return DailySummary{}
	}

	groups, order := reduce(clean, func(row int) (string, bool) {
		cell := clean.At(row, schema.FieldDate)
		if !cell.IsTime() {
			return "", false
		}
		return cell.AsTime().Format("2006-01-02"), true
	})

	summary := DailySummary{}
	hasOrders := clean.HasColumn(schema.FieldOrderID)
	for _, key := range order {
		g := groups[key]
		summary.Rows = append(summary.Rows, DailyRow{
			Date:         g.key,
			DailyRevenue: g.revenue,
			DailyOrders:  g.OrderCount(hasOrders),
		})
	}

	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].Date < summary.Rows[j].Date
	})
	return summary
}

// BuildAll runs the monthly, daily, and requested segment reductions. They
// are independent of one another, so they run concurrently; results are
// deterministic regardless.
func BuildAll(clean *table.Table, segmentFields []string) Summaries {
	out := Summaries{Segments: make(map[string]SegmentSummary, len(segmentFields))}
	segmentRows := make([]SegmentSummary, len(segmentFields))

	var g errgroup.Group
	g.Go(func() error {
		out.Monthly = Monthly(clean)
		return nil
	})
	g.Go(func() error {
		out.Daily = Daily(clean)
		return nil
	})
	for i, field := range segmentFields {
		i, field := i, field
		g.Go(func() error {
			segmentRows[i] = Segment(clean, field)
			return nil
		})
	}
	_ = g.Wait() // reductions are pure; no errors possible

	for i, field := range segmentFields {
		out.Segments[field] = segmentRows[i]
	}
	return out
}

// reduce walks the table once, bucketing rows by the key function and
// accumulating the shared aggregate set. Rows whose key is absent are
// skipped. The returned slice preserves first-appearance order.
func reduce(clean *table.Table, keyOf func(row int) (string, bool)) (map[string]*group, []string) {
	groups := make(map[string]*group)
	var order []string

	hasCustomer := clean.HasColumn(schema.FieldCustomerID)
	hasOrder := clean.HasColumn(schema.FieldOrderID)
	hasRevenue := clean.HasColumn(schema.FieldRevenue)
	hasCost := clean.HasColumn(schema.FieldCost)
	hasSpend := clean.HasColumn(schema.FieldMarketingSpend)

	for row := 0; row < clean.RowCount(); row++ {
		key, ok := keyOf(row)
		if !ok {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &group{
				key:       key,
				first:     row,
				orders:    make(map[string]bool),
				customers: make(map[string]bool),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.rowCount++
		if hasRevenue {
			if cell := clean.At(row, schema.FieldRevenue); cell.IsNumeric() {
				g.revenue += cell.AsFloat64()
			}
		}
		if hasCost {
			if cell := clean.At(row, schema.FieldCost); cell.IsNumeric() {
				g.cost += cell.AsFloat64()
			}
		}
		if hasSpend {
			if cell := clean.At(row, schema.FieldMarketingSpend); cell.IsNumeric() {
				g.spend += cell.AsFloat64()
			}
		}
		if hasOrder {
			if cell := clean.At(row, schema.FieldOrderID); !cell.IsMissing() {
				g.orders[cell.AsString()] = true
			}
		}
		if hasCustomer {
			if cell := clean.At(row, schema.FieldCustomerID); !cell.IsMissing() {
				g.customers[cell.AsString()] = true
			}
		}
	}

	return groups, order
}
