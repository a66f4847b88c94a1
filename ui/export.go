package ui

import (
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/xuri/excelize/v2"

	"commercepulse/app"
)

// handleExport streams the most recent run's summaries as an Excel workbook
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	run := a.getLastRun()
	if run == nil {
		respondError(w, http.StatusNotFound, "No completed run to export; upload a file first")
		return
	}

	f, err := buildWorkbook(run.Result)
	if err != nil {
		log.Printf("[handleExport] ERROR - Failed to build workbook: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to build export workbook")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="summary_export.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("[handleExport] ERROR - Failed to write workbook: %v", err)
	}
}

// buildWorkbook lays out one sheet per summary plus KPIs and the cleaning
// report. The first created sheet replaces the default Sheet1.
func buildWorkbook(result app.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "KPIs", kpiRows(result)); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	if err := writeSheet(f, "Monthly", monthlyRows(result)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Daily", dailyRows(result)); err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(result.Summaries.Segments))
	for field := range result.Summaries.Segments {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		segment := result.Summaries.Segments[field]
		rows := [][]interface{}{{"segment", "total_revenue", "total_orders", "unique_customers", "average_order_value"}}
		for _, row := range segment.Rows {
			rows = append(rows, []interface{}{row.Segment, row.TotalRevenue, row.TotalOrders, row.UniqueCustomers, row.AvgOrderValue})
		}
		if err := writeSheet(f, "By "+field, rows); err != nil {
			return nil, err
		}
	}

	if err := writeSheet(f, "Cleaning Report", reportRows(result)); err != nil {
		return nil, err
	}

	return f, nil
}

// writeSheet creates a sheet and fills it cell by cell
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to resolve cell (%d, %d): %w", c+1, r+1, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s on %q: %w", cell, sheet, err)
			}
		}
	}
	return nil
}

func kpiRows(result app.Result) [][]interface{} {
	m := result.Metrics
	rows := [][]interface{}{
		{"metric", "value"},
		{"total_revenue", m.TotalRevenue},
		{"total_orders", m.TotalOrders},
		{"unique_customers", m.UniqueCustomers},
		{"average_order_value", m.AvgOrderValue},
		{"revenue_per_customer", m.RevenuePerCustomer},
		{"orders_per_customer", m.OrdersPerCustomer},
		{"latest_month", m.LatestMonth},
		{"latest_month_revenue", m.LatestMonthRevenue},
		{"total_months", m.TotalMonths},
	}
	rows = appendOptional(rows, "mom_revenue_growth", m.MoMRevenueGrowth)
	rows = appendOptional(rows, "total_cost", m.TotalCost)
	rows = appendOptional(rows, "gross_margin", m.GrossMargin)
	rows = appendOptional(rows, "total_marketing_spend", m.TotalMarketingSpend)
	rows = appendOptional(rows, "roas", m.ROAS)
	return rows
}

// appendOptional writes a pointer metric, using "N/A" when it is null
func appendOptional(rows [][]interface{}, label string, value *float64) [][]interface{} {
	if value == nil {
		return append(rows, []interface{}{label, "N/A"})
	}
	return append(rows, []interface{}{label, *value})
}

func monthlyRows(result app.Result) [][]interface{} {
	monthly := result.Summaries.Monthly
	header := []interface{}{"year_month", "total_revenue", "total_orders", "unique_customers", "average_order_value"}
	if monthly.HasCost {
		header = append(header, "total_cost")
	}
	if monthly.HasSpend {
		header = append(header, "total_marketing_spend")
	}

	rows := [][]interface{}{header}
	for _, row := range monthly.Rows {
		cells := []interface{}{row.YearMonth, row.TotalRevenue, row.TotalOrders, row.UniqueCustomers, row.AvgOrderValue}
		if monthly.HasCost {
			cells = append(cells, row.TotalCost)
		}
		if monthly.HasSpend {
			cells = append(cells, row.TotalMarketingSpend)
		}
		rows = append(rows, cells)
	}
	return rows
}

func dailyRows(result app.Result) [][]interface{} {
	rows := [][]interface{}{{"date", "daily_revenue", "daily_orders"}}
	for _, row := range result.Summaries.Daily.Rows {
		rows = append(rows, []interface{}{row.Date, row.DailyRevenue, row.DailyOrders})
	}
	return rows
}

func reportRows(result app.Result) [][]interface{} {
	rep := result.Report
	return [][]interface{}{
		{"check", "count"},
		{"original_rows", rep.OriginalRows},
		{"duplicates_removed", rep.DuplicatesRemoved},
		{"null_rows_dropped", rep.NullRowsDropped},
		{"invalid_dates", rep.InvalidDates},
		{"invalid_revenue", rep.InvalidRevenue},
		{"negative_revenue", rep.NegativeRevenue},
		{"text_normalized", rep.TextNormalized},
		{"final_rows", rep.FinalRows},
	}
}
