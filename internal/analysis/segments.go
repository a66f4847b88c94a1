package analysis

import (
	"fmt"
	"strings"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// SegmentBreakdown is one categorical field's revenue decomposition
type SegmentBreakdown struct {
	Field         string                 `json:"field"`
	Rows          []aggregate.SegmentRow `json:"rows"`
	TopSegment    string                 `json:"top_segment"`
	TopShare      float64                `json:"top_share"`
	BottomSegment string                 `json:"bottom_segment"`
	BottomShare   float64                `json:"bottom_share"`
}

// SegmentsResult breaks revenue down by channel, region, and category
type SegmentsResult struct {
	Breakdowns []SegmentBreakdown `json:"breakdowns"`
	KPIs       []Metric           `json:"kpis"`
	Insights   []string           `json:"insights"`
}

// AnalyzeSegments builds a breakdown per present categorical field
func AnalyzeSegments(clean *table.Table, monthly aggregate.MonthlySummary, metrics kpi.Metrics) SegmentsResult {
	result := SegmentsResult{}
	if clean == nil || clean.IsEmpty() {
		result.Insights = append(result.Insights, insufficientData)
		return result
	}

	for _, field := range []string{schema.FieldChannel, schema.FieldRegion, schema.FieldCategory} {
		if !clean.HasColumn(field) {
			continue
		}
		summary := aggregate.Segment(clean, field)
		if len(summary.Rows) == 0 {
			continue
		}

		top := summary.Rows[0]
		bottom := summary.Rows[len(summary.Rows)-1]
		breakdown := SegmentBreakdown{
			Field:         field,
			Rows:          summary.Rows,
			TopSegment:    top.Segment,
			TopShare:      core.Round2(core.SafeDivide(top.TotalRevenue, metrics.TotalRevenue, 0) * 100),
			BottomSegment: bottom.Segment,
			BottomShare:   core.Round2(core.SafeDivide(bottom.TotalRevenue, metrics.TotalRevenue, 0) * 100),
		}
		result.Breakdowns = append(result.Breakdowns, breakdown)

		result.KPIs = append(result.KPIs, Metric{
			Label: fmt.Sprintf("Top %s", titleCase(field)),
			Value: titleCase(top.Segment),
			Delta: fmt.Sprintf("%.1f%% of revenue", breakdown.TopShare),
		})

		if len(summary.Rows) > 1 {
			result.Insights = append(result.Insights,
				fmt.Sprintf("%s: top is %q (%.1f%% of revenue), lowest is %q (%.1f%%)",
					field, top.Segment, breakdown.TopShare, bottom.Segment, breakdown.BottomShare))
		}
	}

	if len(result.Breakdowns) == 0 {
		result.Insights = append(result.Insights,
			"no segment columns (channel, region, category) found in the dataset")
	}

	return result
}

// titleCase uppercases the first letter for display labels
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
