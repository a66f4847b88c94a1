package cleaning

import (
	"strconv"
	"strings"

	"commercepulse/domain/table"
)

// CurrencySymbols are the symbols stripped from numeric columns before
// coercion. The comma covers thousands separators.
func CurrencySymbols() []string {
	return []string{"₹", "$", "€", "£", "¥", ","}
}

// sentinel text values that mean "no value" rather than a parse failure
var numericSentinels = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
}

// coerceNumeric converts one raw cell to a numeric cell. Currency symbols and
// whitespace are stripped, sentinel text becomes missing, and anything that
// still fails to parse becomes missing. Negative numbers pass through; the
// cleaner counts them but never rejects them.
func coerceNumeric(cell table.Value, symbols []string) table.Value {
	if cell.IsMissing() {
		return table.Null()
	}
	if cell.IsNumeric() {
		return cell
	}

	raw := strings.TrimSpace(cell.AsString())
	for _, sym := range symbols {
		raw = strings.ReplaceAll(raw, sym, "")
	}
	raw = strings.Join(strings.Fields(raw), "")

	if numericSentinels[strings.ToLower(raw)] {
		return table.Null()
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.Null()
	}
	return table.Number(n)
}
