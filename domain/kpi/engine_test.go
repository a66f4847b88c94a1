package kpi

import (
	"testing"
	"time"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/table"
)

// row is one clean transaction for building test tables
type row struct {
	date    string
	orderID string
	custID  string
	revenue float64
	cost    float64
	spend   float64
}

func buildClean(t *testing.T, withCost, withSpend bool, rows []row) *table.Table {
	t.Helper()
	columns := []string{"date", "order_id", "customer_id", "revenue", "year_month"}
	if withCost {
		columns = append(columns, "cost")
	}
	if withSpend {
		columns = append(columns, "marketing_spend")
	}

	tbl := table.New(columns)
	for _, r := range rows {
		ts, err := time.Parse("2006-01-02", r.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", r.date, err)
		}
		cells := []table.Value{
			table.Timestamp(ts),
			table.String(r.orderID),
			table.String(r.custID),
			table.Number(r.revenue),
			table.String(ts.Format("2006-01")),
		}
		if withCost {
			cells = append(cells, table.Number(r.cost))
		}
		if withSpend {
			cells = append(cells, table.Number(r.spend))
		}
		tbl.AppendRow(cells)
	}
	return tbl
}

// TestComputeCoreMetrics tests the unconditional KPI block
func TestComputeCoreMetrics(t *testing.T) {
	clean := buildClean(t, false, false, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 100},
		{date: "2024-01-15", orderID: "ORD-2", custID: "CUST-2", revenue: 300},
		{date: "2024-02-05", orderID: "ORD-3", custID: "CUST-1", revenue: 200},
	})
	monthly := aggregate.Monthly(clean)

	m := Compute(clean, monthly)

	if m.TotalRevenue != 600 {
		t.Errorf("Expected total revenue 600, got %v", m.TotalRevenue)
	}
	if m.TotalOrders != 3 {
		t.Errorf("Expected 3 orders, got %d", m.TotalOrders)
	}
	if m.UniqueCustomers != 2 {
		t.Errorf("Expected 2 customers, got %d", m.UniqueCustomers)
	}
	if m.AvgOrderValue != 200 {
		t.Errorf("Expected AOV 200, got %v", m.AvgOrderValue)
	}
	if m.RevenuePerCustomer != 300 {
		t.Errorf("Expected revenue per customer 300, got %v", m.RevenuePerCustomer)
	}
	if m.OrdersPerCustomer != 1.5 {
		t.Errorf("Expected 1.5 orders per customer, got %v", m.OrdersPerCustomer)
	}
	if m.LatestMonth != "2024-02" || m.LatestMonthRevenue != 200 {
		t.Errorf("Expected latest month 2024-02 at 200, got %s at %v",
			m.LatestMonth, m.LatestMonthRevenue)
	}
	if m.TotalMonths != 2 {
		t.Errorf("Expected 2 months, got %d", m.TotalMonths)
	}
}

// TestComputeMoMGrowth tests month-over-month growth and its null contract
func TestComputeMoMGrowth(t *testing.T) {
	clean := buildClean(t, false, false, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 1000},
		{date: "2024-02-10", orderID: "ORD-2", custID: "CUST-2", revenue: 1200},
	})
	m := Compute(clean, aggregate.Monthly(clean))

	if m.MoMRevenueGrowth == nil {
		t.Fatal("Expected MoM growth with 2 months")
	}
	if *m.MoMRevenueGrowth != 20 {
		t.Errorf("Expected 20%% growth, got %v", *m.MoMRevenueGrowth)
	}
}

// TestComputeMoMGrowthSingleMonth tests that one month yields null, not zero
func TestComputeMoMGrowthSingleMonth(t *testing.T) {
	clean := buildClean(t, false, false, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 1000},
	})
	m := Compute(clean, aggregate.Monthly(clean))

	if m.MoMRevenueGrowth != nil {
		t.Errorf("Expected null MoM growth with 1 month, got %v", *m.MoMRevenueGrowth)
	}
}

// TestComputeConditionalMetrics tests the cost and spend dependent block
func TestComputeConditionalMetrics(t *testing.T) {
	clean := buildClean(t, true, true, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 1000, cost: 600, spend: 250},
		{date: "2024-01-15", orderID: "ORD-2", custID: "CUST-2", revenue: 1000, cost: 400, spend: 250},
	})
	m := Compute(clean, aggregate.Monthly(clean))

	if m.TotalCost == nil || *m.TotalCost != 1000 {
		t.Fatalf("Expected total cost 1000, got %v", m.TotalCost)
	}
	if m.GrossMargin == nil || *m.GrossMargin != 50 {
		t.Fatalf("Expected gross margin 50%%, got %v", m.GrossMargin)
	}
	if m.TotalMarketingSpend == nil || *m.TotalMarketingSpend != 500 {
		t.Fatalf("Expected total spend 500, got %v", m.TotalMarketingSpend)
	}
	if m.ROAS == nil || *m.ROAS != 4 {
		t.Fatalf("Expected ROAS 4, got %v", m.ROAS)
	}
}

// TestComputeWithoutOptionalColumns tests that conditional metrics stay null
func TestComputeWithoutOptionalColumns(t *testing.T) {
	clean := buildClean(t, false, false, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 1000},
	})
	m := Compute(clean, aggregate.Monthly(clean))

	if m.TotalCost != nil || m.GrossMargin != nil {
		t.Error("Expected null cost metrics without a cost column")
	}
	if m.TotalMarketingSpend != nil || m.ROAS != nil {
		t.Error("Expected null spend metrics without a marketing_spend column")
	}
}

// TestComputeEmptyDataset tests the zero/null mapping for empty input
func TestComputeEmptyDataset(t *testing.T) {
	empty := table.New([]string{"date", "order_id", "customer_id", "revenue", "year_month"})
	m := Compute(empty, aggregate.Monthly(empty))

	if m.TotalRevenue != 0 || m.TotalOrders != 0 || m.UniqueCustomers != 0 {
		t.Error("Expected zero counters for empty input")
	}
	if m.LatestMonth != "N/A" {
		t.Errorf("Expected latest month N/A, got %q", m.LatestMonth)
	}
	if m.MoMRevenueGrowth != nil || m.TotalCost != nil || m.ROAS != nil {
		t.Error("Expected null conditional metrics for empty input")
	}
}

// TestComputeDistinctOrders tests multi-line orders collapsing in the order
// count while revenue still sums all lines
func TestComputeDistinctOrders(t *testing.T) {
	clean := buildClean(t, false, false, []row{
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 100},
		{date: "2024-01-10", orderID: "ORD-1", custID: "CUST-1", revenue: 150},
		{date: "2024-01-12", orderID: "ORD-2", custID: "CUST-2", revenue: 250},
	})
	m := Compute(clean, aggregate.Monthly(clean))

	if m.TotalOrders != 2 {
		t.Errorf("Expected 2 distinct orders, got %d", m.TotalOrders)
	}
	if m.TotalRevenue != 500 {
		t.Errorf("Expected revenue 500, got %v", m.TotalRevenue)
	}
	if m.AvgOrderValue != 250 {
		t.Errorf("Expected AOV 250, got %v", m.AvgOrderValue)
	}
}
