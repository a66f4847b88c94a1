package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commercepulse/domain/table"
	"commercepulse/internal/testkit"
)

// TestRunEndToEnd runs the full pipeline over a generated dataset and checks
// the big invariants: nothing halted, counts reconcile, all views populated.
func TestRunEndToEnd(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.OrderCount = 500
	raw := testkit.NewGenerator(cfg).Generate()

	result := NewDefault().Run(raw)

	require.False(t, result.Halted, "expected complete mapping for canonical columns")
	require.NotNil(t, result.Clean)

	// Generator emits unique order ids and valid rows throughout
	assert.Equal(t, 500, result.Report.OriginalRows)
	assert.Equal(t, 0, result.Report.DuplicatesRemoved)
	assert.Equal(t, 500, result.Report.FinalRows)
	assert.Equal(t, result.Report.FinalRows, result.Clean.RowCount())

	assert.Equal(t, 500, result.Metrics.TotalOrders)
	assert.Greater(t, result.Metrics.TotalRevenue, 0.0)
	assert.NotEmpty(t, result.Summaries.Monthly.Rows)
	assert.NotEmpty(t, result.Summaries.Daily.Rows)

	// Monthly revenue must reconcile with the KPI total
	var bucketed float64
	for _, row := range result.Summaries.Monthly.Rows {
		bucketed += row.TotalRevenue
	}
	assert.InDelta(t, result.Metrics.TotalRevenue, bucketed, 0.5)

	// All four categorical segments are present in the generated data
	for _, field := range []string{"channel", "region", "category", "device"} {
		segment, ok := result.Summaries.Segments[field]
		assert.True(t, ok, "expected segment summary for %s", field)
		assert.NotEmpty(t, segment.Rows, "expected rows for %s", field)
	}

	// Cost and spend columns were present, so the conditional KPIs exist
	require.NotNil(t, result.Metrics.TotalCost)
	require.NotNil(t, result.Metrics.GrossMargin)
	require.NotNil(t, result.Metrics.ROAS)
	assert.Greater(t, *result.Metrics.GrossMargin, 0.0)
}

// TestRunHaltsOnMissingRequired tests the mapping halt path
func TestRunHaltsOnMissingRequired(t *testing.T) {
	raw := table.New([]string{"revenue", "channel"})
	raw.AppendRow([]table.Value{table.String("100"), table.String("email")})

	result := NewDefault().Run(raw)

	require.True(t, result.Halted)
	assert.Contains(t, result.Mapping.MissingRequired, "date")
	assert.Contains(t, result.Mapping.MissingRequired, "order_id")
	assert.Contains(t, result.Mapping.MissingRequired, "customer_id")
	assert.Nil(t, result.Clean)
	assert.NotEmpty(t, result.MappingSummary)
}

// TestRunMessyHeaders tests that alias resolution feeds the full pipeline
func TestRunMessyHeaders(t *testing.T) {
	raw := table.New([]string{"Order Date", "Transaction ID", "cust_id", "Total Sales"})
	raw.AppendRow([]table.Value{
		table.String("2024-01-15"), table.String("ORD-1"),
		table.String("CUST-1"), table.String("$120.00"),
	})
	raw.AppendRow([]table.Value{
		table.String("2024-02-20"), table.String("ORD-2"),
		table.String("CUST-2"), table.String("$80.00"),
	})

	result := NewDefault().Run(raw)

	require.False(t, result.Halted)
	assert.Equal(t, 2, result.Metrics.TotalOrders)
	assert.Equal(t, 200.0, result.Metrics.TotalRevenue)
	require.NotNil(t, result.Metrics.MoMRevenueGrowth)
	assert.Equal(t, -33.33, *result.Metrics.MoMRevenueGrowth)
}

// TestRunDeterministicFingerprint tests that identical inputs produce the
// same fingerprint
func TestRunDeterministicFingerprint(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.OrderCount = 50

	first := NewDefault().Run(testkit.NewGenerator(cfg).Generate())
	second := NewDefault().Run(testkit.NewGenerator(cfg).Generate())

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Metrics, second.Metrics)
}
