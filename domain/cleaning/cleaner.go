// Package cleaning repairs and validates a mapped transaction table. The
// cleaner runs a fixed sequence of independent passes; each pass owns one
// concern and its own report counters.
package cleaning

import (
	"strings"

	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// unknownLabel replaces categorical values that fail to resolve to text
const unknownLabel = "unknown"

// Config carries the cleaner's injectable knobs. Runs never mutate it, so a
// single Config can serve concurrent pipelines.
type Config struct {
	CurrencySymbols []string
	Dates           DateParser
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		CurrencySymbols: CurrencySymbols(),
		Dates:           NewFallbackParser(),
	}
}

// Cleaner transforms a mapped table into a clean table plus a report of every
// corrective action taken.
type Cleaner struct {
	schema schema.Schema
	cfg    Config
}

// New creates a cleaner for the given schema and config
func New(s schema.Schema, cfg Config) *Cleaner {
	if cfg.Dates == nil {
		cfg.Dates = NewFallbackParser()
	}
	if cfg.CurrencySymbols == nil {
		cfg.CurrencySymbols = CurrencySymbols()
	}
	return &Cleaner{schema: s, cfg: cfg}
}

// Clean runs all passes in order. The input table is not modified. An empty
// result is a valid terminal state, not an error.
func (c *Cleaner) Clean(mapped *table.Table) (*table.Table, Report) {
	report := Report{OriginalRows: mapped.RowCount()}
	t := mapped.Clone()

	t = c.dropDuplicates(t, &report)
	t = c.normalizeDates(t, &report)
	c.normalizeNumerics(t, &report)
	t = c.dropAllNullRequired(t, &report)
	c.fillOptional(t)
	c.normalizeText(t, &report)
	c.deriveYearMonth(t)

	report.FinalRows = t.RowCount()
	return t, report
}

// dropDuplicates removes rows repeating an order_id; the first occurrence in
// input order keeps its values.
func (c *Cleaner) dropDuplicates(t *table.Table, report *Report) *table.Table {
	if !t.HasColumn(schema.FieldOrderID) {
		return t
	}
	before := t.RowCount()
	seen := make(map[string]bool, before)
	out := t.Filter(func(row int) bool {
		key := t.At(row, schema.FieldOrderID).AsString()
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
	report.DuplicatesRemoved = before - out.RowCount()
	return out
}

// normalizeDates converts the date column via the configured strategy and
// drops rows that remain unparsable.
func (c *Cleaner) normalizeDates(t *table.Table, report *Report) *table.Table {
	if !t.HasColumn(schema.FieldDate) {
		return t
	}

	original := t.Column(schema.FieldDate)
	parsed := c.cfg.Dates.ParseColumn(original)

	invalid := 0
	for i := range original {
		if !original[i].IsMissing() && parsed[i].IsMissing() {
			invalid++
		}
	}
	report.InvalidDates = invalid

	t.AddColumn(schema.FieldDate, parsed)

	before := t.RowCount()
	out := t.Filter(func(row int) bool {
		return t.At(row, schema.FieldDate).IsTime()
	})
	report.NullRowsDropped += before - out.RowCount()
	return out
}

// normalizeNumerics coerces revenue, cost, and marketing_spend where present
// and counts invalid and negative revenue.
func (c *Cleaner) normalizeNumerics(t *table.Table, report *Report) {
	for _, field := range schema.NumericFields() {
		if !t.HasColumn(field) {
			continue
		}
		for row := 0; row < t.RowCount(); row++ {
			t.Set(row, field, coerceNumeric(t.At(row, field), c.cfg.CurrencySymbols))
		}
	}

	if !t.HasColumn(schema.FieldRevenue) {
		return
	}
	for row := 0; row < t.RowCount(); row++ {
		cell := t.At(row, schema.FieldRevenue)
		if cell.IsMissing() {
			report.InvalidRevenue++
		} else if cell.AsFloat64() < 0 {
			report.NegativeRevenue++
		}
	}
}

// dropAllNullRequired removes rows where every present required field is
// simultaneously null. Partially incomplete rows survive; this only guards
// against blank-line artifacts.
func (c *Cleaner) dropAllNullRequired(t *table.Table, report *Report) *table.Table {
	var present []string
	for _, field := range c.schema.Required {
		if t.HasColumn(field) {
			present = append(present, field)
		}
	}
	if len(present) == 0 {
		return t
	}

	before := t.RowCount()
	out := t.Filter(func(row int) bool {
		for _, field := range present {
			if !t.At(row, field).IsMissing() {
				return true
			}
		}
		return false
	})
	report.NullRowsDropped += before - out.RowCount()
	return out
}

// fillOptional sets null cost and marketing_spend to zero: absent spend data
// is treated as zero spend, not unknown.
func (c *Cleaner) fillOptional(t *table.Table) {
	for _, field := range []string{schema.FieldCost, schema.FieldMarketingSpend} {
		if !t.HasColumn(field) {
			continue
		}
		for row := 0; row < t.RowCount(); row++ {
			if t.At(row, field).IsMissing() {
				t.Set(row, field, table.Number(0))
			}
		}
	}
}

// normalizeText lowercases and trims categorical columns, replacing values
// that fail to resolve to meaningful text with the unknown sentinel.
func (c *Cleaner) normalizeText(t *table.Table, report *Report) {
	for _, field := range schema.TextFields() {
		if !t.HasColumn(field) {
			continue
		}
		for row := 0; row < t.RowCount(); row++ {
			cell := t.At(row, field)
			text := strings.ToLower(strings.TrimSpace(cell.AsString()))
			if cell.IsMissing() || numericSentinels[text] {
				text = unknownLabel
			}
			t.Set(row, field, table.String(text))
		}
		report.TextNormalized++
	}
}

// deriveYearMonth adds the YYYY-MM bucket used as the monthly grouping key
func (c *Cleaner) deriveYearMonth(t *table.Table) {
	if !t.HasColumn(schema.FieldDate) {
		return
	}
	buckets := make([]table.Value, t.RowCount())
	for row := 0; row < t.RowCount(); row++ {
		cell := t.At(row, schema.FieldDate)
		if cell.IsTime() {
			buckets[row] = table.String(cell.AsTime().Format("2006-01"))
		} else {
			buckets[row] = table.Null()
		}
	}
	t.AddColumn(schema.FieldYearMonth, buckets)
}
