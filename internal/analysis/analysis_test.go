package analysis

import (
	"testing"
	"time"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/kpi"
	"commercepulse/domain/table"
)

// txn is one clean transaction for building view fixtures
type txn struct {
	date    string
	orderID string
	custID  string
	revenue float64
}

func fixture(t *testing.T, txns []txn) (*table.Table, aggregate.MonthlySummary, kpi.Metrics) {
	t.Helper()
	tbl := table.New([]string{"date", "order_id", "customer_id", "revenue", "year_month"})
	for _, tx := range txns {
		ts, err := time.Parse("2006-01-02", tx.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tx.date, err)
		}
		tbl.AppendRow([]table.Value{
			table.Timestamp(ts),
			table.String(tx.orderID),
			table.String(tx.custID),
			table.Number(tx.revenue),
			table.String(ts.Format("2006-01")),
		})
	}
	monthly := aggregate.Monthly(tbl)
	metrics := kpi.Compute(tbl, monthly)
	return tbl, monthly, metrics
}

// threeMonths has one retained customer (CUST-1) and two one-timers
func threeMonths() []txn {
	return []txn{
		{"2024-01-05", "ORD-1", "CUST-1", 1000},
		{"2024-01-10", "ORD-2", "CUST-2", 500},
		{"2024-02-05", "ORD-3", "CUST-1", 1200},
		{"2024-02-15", "ORD-4", "CUST-3", 300},
		{"2024-03-05", "ORD-5", "CUST-1", 1500},
	}
}

// TestAnalyzeGrowthRepeatSplit tests new versus repeat classification
func TestAnalyzeGrowthRepeatSplit(t *testing.T) {
	clean, monthly, metrics := fixture(t, threeMonths())

	result := AnalyzeGrowth(clean, monthly, metrics)

	if result.NewCustomers != 3 {
		t.Errorf("Expected 3 new customers, got %d", result.NewCustomers)
	}
	if result.RepeatCustomers != 1 {
		t.Errorf("Expected 1 repeat customer, got %d", result.RepeatCustomers)
	}
	// 1 of 3 unique customers is a repeat buyer
	if result.RepeatRate != 33.33 {
		t.Errorf("Expected repeat rate 33.33, got %v", result.RepeatRate)
	}
	// Repeat revenue: 1200 + 1500 of 4500 total
	if result.RepeatRevenueShare != 60 {
		t.Errorf("Expected repeat revenue share 60, got %v", result.RepeatRevenueShare)
	}
	if len(result.MonthlyMix) != 3 {
		t.Fatalf("Expected 3 mix rows, got %d", len(result.MonthlyMix))
	}
	jan := result.MonthlyMix[0]
	if jan.NewCustomers != 2 || jan.RepeatCustomers != 0 {
		t.Errorf("Expected January mix 2 new / 0 repeat, got %d / %d",
			jan.NewCustomers, jan.RepeatCustomers)
	}
}

// TestAnalyzeGrowthEmpty tests the degraded result on empty input
func TestAnalyzeGrowthEmpty(t *testing.T) {
	clean, monthly, metrics := fixture(t, nil)
	result := AnalyzeGrowth(clean, monthly, metrics)

	if result.NewCustomers != 0 || len(result.MonthlyMix) != 0 {
		t.Error("Expected zero-valued result for empty input")
	}
	if len(result.Insights) == 0 {
		t.Error("Expected an insufficient-data insight")
	}
}

// TestAnalyzeUnitEconomics tests the median and the monthly trends
func TestAnalyzeUnitEconomics(t *testing.T) {
	clean, monthly, metrics := fixture(t, threeMonths())

	result := AnalyzeUnitEconomics(clean, monthly, metrics)

	// Median of 1000, 500, 1200, 300, 1500
	if result.MedianOrderValue != 1000 {
		t.Errorf("Expected median order value 1000, got %v", result.MedianOrderValue)
	}
	if len(result.AOVTrend) != 3 || len(result.RevPerCustomerTrend) != 3 {
		t.Errorf("Expected 3-point trends, got %d and %d",
			len(result.AOVTrend), len(result.RevPerCustomerTrend))
	}
	// No cost column, no margin trend
	if len(result.MarginTrend) != 0 {
		t.Errorf("Expected no margin trend without cost, got %d points", len(result.MarginTrend))
	}
}

// TestAnalyzeCohorts tests the retention matrix shape and the m1 average
func TestAnalyzeCohorts(t *testing.T) {
	clean, monthly, metrics := fixture(t, threeMonths())

	result := AnalyzeCohorts(clean, monthly, metrics)

	// CUST-1 and CUST-2 are acquired in January, CUST-3 in February
	if result.TotalCohorts != 2 {
		t.Fatalf("Expected 2 cohorts, got %d", result.TotalCohorts)
	}

	jan := result.Cohorts[0]
	if jan.Cohort != "2024-01" || jan.Size != 2 {
		t.Errorf("Expected January cohort of 2, got %s size %d", jan.Cohort, jan.Size)
	}
	if len(jan.Retention) != 3 {
		t.Fatalf("Expected 3 retention offsets, got %d", len(jan.Retention))
	}
	if jan.Retention[0] != 100 {
		t.Errorf("Expected month-0 retention 100, got %v", jan.Retention[0])
	}
	// Only CUST-1 of the January pair returns in February and March
	if jan.Retention[1] != 50 || jan.Retention[2] != 50 {
		t.Errorf("Expected 50/50 later retention, got %v/%v", jan.Retention[1], jan.Retention[2])
	}

	// January retains 50%, February's single customer retains 0%
	if result.AvgM1Retention != 25 {
		t.Errorf("Expected average month-1 retention 25, got %v", result.AvgM1Retention)
	}
}

// TestAnalyzeSeasonality tests MoM growth points and best/worst months
func TestAnalyzeSeasonality(t *testing.T) {
	clean, monthly, metrics := fixture(t, threeMonths())

	result := AnalyzeSeasonality(clean, monthly, metrics)

	// Monthly revenue: 1500, 1500, 1500 -> both growth points are 0
	if len(result.MoMGrowth) != 2 {
		t.Fatalf("Expected 2 growth points, got %d", len(result.MoMGrowth))
	}
	if result.MoMGrowth[0].Value != 0 || result.MoMGrowth[1].Value != 0 {
		t.Errorf("Expected flat growth, got %v and %v",
			result.MoMGrowth[0].Value, result.MoMGrowth[1].Value)
	}
	if result.PositiveMonths != 0 {
		t.Errorf("Expected no positive months, got %d", result.PositiveMonths)
	}
	if len(result.DayOfWeek) == 0 {
		t.Error("Expected day-of-week rows")
	}
}

// TestAnalyzeSeasonalitySingleMonth tests the minimum-data guard
func TestAnalyzeSeasonalitySingleMonth(t *testing.T) {
	clean, monthly, metrics := fixture(t, []txn{
		{"2024-01-05", "ORD-1", "CUST-1", 1000},
	})
	result := AnalyzeSeasonality(clean, monthly, metrics)

	if len(result.MoMGrowth) != 0 {
		t.Error("Expected no growth points for a single month")
	}
	if len(result.Insights) == 0 {
		t.Error("Expected a minimum-data insight")
	}
}

// TestAnalyzeSegmentsShares tests the top/bottom revenue decomposition
func TestAnalyzeSegmentsShares(t *testing.T) {
	tbl := table.New([]string{"date", "order_id", "customer_id", "revenue", "channel", "year_month"})
	rows := []struct {
		orderID string
		revenue float64
		channel string
	}{
		{"ORD-1", 800, "email"},
		{"ORD-2", 150, "organic"},
		{"ORD-3", 50, "paid"},
	}
	ts := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, r := range rows {
		tbl.AppendRow([]table.Value{
			table.Timestamp(ts),
			table.String(r.orderID),
			table.String("CUST-1"),
			table.Number(r.revenue),
			table.String(r.channel),
			table.String("2024-01"),
		})
	}
	monthly := aggregate.Monthly(tbl)
	metrics := kpi.Compute(tbl, monthly)

	result := AnalyzeSegments(tbl, monthly, metrics)

	if len(result.Breakdowns) != 1 {
		t.Fatalf("Expected 1 breakdown, got %d", len(result.Breakdowns))
	}
	channel := result.Breakdowns[0]
	if channel.TopSegment != "email" || channel.TopShare != 80 {
		t.Errorf("Expected top email at 80%%, got %s at %v", channel.TopSegment, channel.TopShare)
	}
	if channel.BottomSegment != "paid" || channel.BottomShare != 5 {
		t.Errorf("Expected bottom paid at 5%%, got %s at %v", channel.BottomSegment, channel.BottomShare)
	}
}

// TestAnalyzeTrendCAGR tests compound growth and the projection shape
func TestAnalyzeTrendCAGR(t *testing.T) {
	// Strictly linear revenue: 100, 200, 300 over three months
	clean, monthly, metrics := fixture(t, []txn{
		{"2024-01-05", "ORD-1", "CUST-1", 100},
		{"2024-02-05", "ORD-2", "CUST-2", 200},
		{"2024-03-05", "ORD-3", "CUST-3", 300},
	})

	result := AnalyzeTrend(clean, monthly, metrics)

	if result.FirstMonthRevenue != 100 || result.LastMonthRevenue != 300 {
		t.Errorf("Expected endpoints 100 and 300, got %v and %v",
			result.FirstMonthRevenue, result.LastMonthRevenue)
	}
	// (300/100)^(1/3) - 1 = 44.22% monthly
	if result.MonthlyGrowthRate != 44.22 {
		t.Errorf("Expected monthly growth 44.22, got %v", result.MonthlyGrowthRate)
	}
	if result.AnnualizedCAGR <= result.MonthlyGrowthRate {
		t.Errorf("Expected annualized CAGR above monthly rate, got %v", result.AnnualizedCAGR)
	}

	if len(result.Projection) != 3 {
		t.Fatalf("Expected 3 projected months, got %d", len(result.Projection))
	}
	if result.Projection[0].YearMonth != "2024-04" {
		t.Errorf("Expected projection to start 2024-04, got %s", result.Projection[0].YearMonth)
	}
	// Perfectly linear input projects exactly on the line
	if result.Projection[0].Value != 400 {
		t.Errorf("Expected projected 400, got %v", result.Projection[0].Value)
	}

	if len(result.CumulativeRevenue) != 3 {
		t.Fatalf("Expected 3 cumulative points, got %d", len(result.CumulativeRevenue))
	}
	if result.CumulativeRevenue[2].Value != 600 {
		t.Errorf("Expected cumulative 600, got %v", result.CumulativeRevenue[2].Value)
	}
}

// TestAnalyzeTrendSingleMonth tests the minimum-data guard
func TestAnalyzeTrendSingleMonth(t *testing.T) {
	clean, monthly, metrics := fixture(t, []txn{
		{"2024-01-05", "ORD-1", "CUST-1", 1000},
	})
	result := AnalyzeTrend(clean, monthly, metrics)

	if result.AnnualizedCAGR != 0 || len(result.Projection) != 0 {
		t.Error("Expected zero-valued trend for a single month")
	}
}
