package schema

import (
	"fmt"
	"strings"

	"commercepulse/domain/table"
)

// MappingResult records how raw columns resolved against the canonical schema
type MappingResult struct {
	// Bindings maps canonical field → normalized source column
	Bindings map[string]string `json:"bindings"`
	// MissingRequired lists unresolved required fields in declared order
	MissingRequired []string `json:"missing_required"`
	// NormalizedColumns is the full deduplicated column list after name
	// normalization, in original order
	NormalizedColumns []string `json:"normalized_columns"`
}

// Complete reports whether every required field resolved
func (r MappingResult) Complete() bool {
	return len(r.MissingRequired) == 0
}

// SourceFor returns the source column bound to a canonical field
func (r MappingResult) SourceFor(field string) (string, bool) {
	src, ok := r.Bindings[field]
	return src, ok
}

// Map resolves raw column names against the schema. Resolution is
// deterministic: names are normalized and deduplicated first, then canonical
// fields bind in declared order, each consuming the first alias match among
// columns no other field has claimed.
func Map(rawColumns []string, s Schema) MappingResult {
	normalized := Deduplicate(NormalizeAll(rawColumns))

	present := make(map[string]bool, len(normalized))
	for _, c := range normalized {
		present[c] = true
	}

	result := MappingResult{
		Bindings:          make(map[string]string),
		NormalizedColumns: normalized,
	}

	consumed := make(map[string]bool)
	for _, field := range s.Fields() {
		for _, alias := range s.AliasesFor(field) {
			candidate := NormalizeName(alias)
			if present[candidate] && !consumed[candidate] {
				result.Bindings[field] = candidate
				consumed[candidate] = true
				break
			}
		}
	}

	for _, field := range s.Required {
		if _, ok := result.Bindings[field]; !ok {
			result.MissingRequired = append(result.MissingRequired, field)
		}
	}

	return result
}

// Apply renames a raw table's columns to canonical names per the mapping.
// Unbound columns keep their normalized names and are ignored downstream.
// The input table is not modified.
func Apply(raw *table.Table, result MappingResult) *table.Table {
	mapped := raw.Clone()
	mapped.SetColumnNames(result.NormalizedColumns)

	renames := make(map[string]string, len(result.Bindings))
	for field, source := range result.Bindings {
		if field != source {
			renames[source] = field
		}
	}
	mapped.RenameColumns(renames)
	return mapped
}

// NormalizeName normalizes a column name: trim, lowercase, spaces to underscores
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NormalizeAll normalizes every name in the list
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeName(n)
	}
	return out
}

// Deduplicate makes column names unique by appending _1, _2, ... to later
// occurrences, preserving original order.
func Deduplicate(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		if count, dup := seen[n]; dup {
			seen[n] = count + 1
			out[i] = fmt.Sprintf("%s_%d", n, count+1)
		} else {
			seen[n] = 0
			out[i] = n
		}
	}
	return out
}

// Summary renders the mapping outcome as human-readable lines for the
// presentation layer.
func (r MappingResult) Summary(s Schema) []string {
	var lines []string
	for _, field := range s.Fields() {
		source, ok := r.Bindings[field]
		if !ok {
			continue
		}
		if source == field {
			lines = append(lines, fmt.Sprintf("%s: found directly", field))
		} else {
			lines = append(lines, fmt.Sprintf("%s: mapped from %q", field, source))
		}
	}
	for _, field := range r.MissingRequired {
		lines = append(lines, fmt.Sprintf("%s: not found (required)", field))
	}
	return lines
}
