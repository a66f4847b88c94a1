package cleaning

import (
	"strings"
	"time"

	"commercepulse/domain/table"
)

// DateParser converts a whole raw column into time cells. Implementations are
// column-level strategies so alternative recovery heuristics can be swapped
// in without touching the cleaner.
type DateParser interface {
	ParseColumn(cells []table.Value) []table.Value
}

// GeneralLayouts are the formats a well-formed export usually arrives in,
// tried per value during the first pass.
func GeneralLayouts() []string {
	return []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006/01/02",
	}
}

// ExplicitLayouts are the regional formats swept one-by-one when the general
// pass fails on most of the column. Order is priority order.
func ExplicitLayouts() []string {
	return []string{
		"2006-01-02",
		"02-01-2006",
		"01-02-2006",
		"02/01/2006",
		"01/02/2006",
		"2006/01/02",
		"2 Jan 2006",
		"2 January 2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
}

// FallbackParser implements the recovery heuristic: parse the column with the
// general layouts, and if more than RetryThreshold of it fails, retry with
// each explicit layout in turn and keep whichever pass parsed the most
// values.
type FallbackParser struct {
	General        []string
	Explicit       []string
	RetryThreshold float64
}

// NewFallbackParser returns the parser with stock layout lists
func NewFallbackParser() *FallbackParser {
	return &FallbackParser{
		General:        GeneralLayouts(),
		Explicit:       ExplicitLayouts(),
		RetryThreshold: 0.5,
	}
}

// ParseColumn converts cells to time values, leaving unparsable cells missing
func (p *FallbackParser) ParseColumn(cells []table.Value) []table.Value {
	best := p.parseWith(cells, p.General...)
	bestParsed := countParsed(best)

	total := len(cells)
	if total == 0 {
		return best
	}

	failedRatio := float64(total-bestParsed) / float64(total)
	if failedRatio > p.RetryThreshold {
		for _, layout := range p.Explicit {
			attempt := p.parseWith(cells, layout)
			if countParsed(attempt) > bestParsed {
				best = attempt
				bestParsed = countParsed(attempt)
			}
		}
	}

	return best
}

// parseWith parses every cell against the given layouts, first match wins
func (p *FallbackParser) parseWith(cells []table.Value, layouts ...string) []table.Value {
	out := make([]table.Value, len(cells))
	for i, cell := range cells {
		out[i] = parseOne(cell, layouts)
	}
	return out
}

func parseOne(cell table.Value, layouts []string) table.Value {
	if cell.IsMissing() {
		return table.Null()
	}
	if cell.IsTime() {
		return cell
	}
	raw := strings.TrimSpace(cell.AsString())
	if raw == "" {
		return table.Null()
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return table.Timestamp(t)
		}
	}
	return table.Null()
}

func countParsed(cells []table.Value) int {
	n := 0
	for _, c := range cells {
		if c.IsTime() {
			n++
		}
	}
	return n
}
