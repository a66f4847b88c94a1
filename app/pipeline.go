// Package app wires the pipeline stages together: map, clean, aggregate,
// derive KPIs. Stages stay pure; this is the only place that sequences them.
package app

import (
	"log"

	"commercepulse/domain/aggregate"
	"commercepulse/domain/cleaning"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
	"commercepulse/domain/schema"
	"commercepulse/domain/table"
)

// Pipeline runs the full ingestion-normalization-aggregation sequence with a
// fixed schema and cleaning config. Safe for concurrent use; configuration is
// read-only during runs.
type Pipeline struct {
	schema schema.Schema
	clean  cleaning.Config
}

// Result is everything one pipeline run produces. When Halted is true only
// the mapping outputs are populated: one or more required fields could not be
// resolved and the cleaner was never invoked.
type Result struct {
	Fingerprint    core.Fingerprint     `json:"fingerprint"`
	Mapping        schema.MappingResult `json:"mapping"`
	MappingSummary []string             `json:"mapping_summary"`
	Halted         bool                 `json:"halted"`
	Report         cleaning.Report      `json:"cleaning_report"`
	ReportSummary  []string             `json:"cleaning_summary"`
	Summaries      aggregate.Summaries  `json:"summaries"`
	Metrics        kpi.Metrics          `json:"kpis"`

	// Clean is the owned clean table, for downstream analytical views. Not
	// serialized; views re-derive what they need from it.
	Clean *table.Table `json:"-"`
}

// New creates a pipeline with the given schema and cleaning config
func New(s schema.Schema, cfg cleaning.Config) *Pipeline {
	return &Pipeline{schema: s, clean: cfg}
}

// NewDefault creates a pipeline with stock schema and cleaning config
func NewDefault() *Pipeline {
	return New(schema.Default(), cleaning.DefaultConfig())
}

// Run executes the pipeline over a raw table. It never returns an error: an
// unusable dataset surfaces as a halted result or an empty clean table with
// zero/null KPIs.
func (p *Pipeline) Run(raw *table.Table) Result {
	result := Result{
		Fingerprint: core.ComputeFingerprint(raw.Columns(), raw.RowCount()),
	}

	result.Mapping = schema.Map(raw.Columns(), p.schema)
	result.MappingSummary = result.Mapping.Summary(p.schema)
	if !result.Mapping.Complete() {
		log.Printf("[Pipeline] halting: missing required fields %v", result.Mapping.MissingRequired)
		result.Halted = true
		return result
	}

	mapped := schema.Apply(raw, result.Mapping)

	cleaner := cleaning.New(p.schema, p.clean)
	clean, report := cleaner.Clean(mapped)
	result.Clean = clean
	result.Report = report
	result.ReportSummary = report.Summary()
	log.Printf("[Pipeline] cleaned %d rows to %d", report.OriginalRows, report.FinalRows)

	result.Summaries = aggregate.BuildAll(clean, p.presentSegmentFields(clean))
	result.Metrics = kpi.Compute(clean, result.Summaries.Monthly)
	return result
}

// presentSegmentFields returns the categorical fields that survived mapping
func (p *Pipeline) presentSegmentFields(clean *table.Table) []string {
	var fields []string
	for _, field := range schema.TextFields() {
		if clean.HasColumn(field) {
			fields = append(fields, field)
		}
	}
	return fields
}
