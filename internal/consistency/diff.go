// Package consistency compares in-memory assessment data with the last
// persisted draft before the final save.
//
// Comparison runs in two stages. A fast path compares the canonical JSON of
// both payloads; identical bytes mean no differences. Otherwise each field
// in Fields is compared on its own, at field granularity: a change to one
// risk score reports the whole risk_scores field. Fields outside the list
// (formValues) never produce a difference.
package consistency

import (
	"bytes"
	"log/slog"
	"reflect"

	"github.com/roach88/quotedraft/internal/assessment"
)

// ChangeType classifies a field difference.
type ChangeType string

const (
	// Added means the cached draft has no value for the field.
	Added ChangeType = "added"

	// Removed means the in-memory data has no value but the draft does.
	Removed ChangeType = "removed"

	// Changed means both sides have a value and they differ.
	Changed ChangeType = "changed"
)

// Detail is one differing field. Undefined values are nil.
type Detail struct {
	Field        string     `json:"field"`
	CurrentValue any        `json:"currentValue"`
	CachedValue  any        `json:"cachedValue"`
	Type         ChangeType `json:"type"`
}

// Report is the result of Diff.
type Report struct {
	HasDifferences bool     `json:"hasDifferences"`
	Details        []Detail `json:"details"`
}

type field struct {
	name  string
	value func(d *assessment.Data) any
}

// fields is the compared set, in report order. value returns nil when the
// field is undefined.
var fields = []field{
	{"risk_scores", func(d *assessment.Data) any { return mapOrNil(d.RiskScores) }},
	{"development_workload", func(d *assessment.Data) any { return sliceOrNil(d.DevelopmentWorkload) }},
	{"integration_workload", func(d *assessment.Data) any { return sliceOrNil(d.IntegrationWorkload) }},
	{"travel_months", func(d *assessment.Data) any { return d.TravelMonths }},
	{"travel_headcount", func(d *assessment.Data) any { return floatOrNil(d.TravelHeadcount) }},
	{"maintenance_months", func(d *assessment.Data) any { return d.MaintenanceMonths }},
	{"maintenance_headcount", func(d *assessment.Data) any { return d.MaintenanceHeadcount }},
	{"maintenance_daily_cost", func(d *assessment.Data) any { return floatOrNil(d.MaintenanceDailyCost) }},
	{"risk_cost_items", func(d *assessment.Data) any { return sliceOrNil(d.RiskCostItems) }},
	{"ai_unmatched_risks", func(d *assessment.Data) any { return sliceOrNil(d.AIUnmatchedRisks) }},
	{"custom_risk_items", func(d *assessment.Data) any { return sliceOrNil(d.CustomRiskItems) }},
}

// Fields returns the names of the compared fields in report order.
func Fields() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Diff compares current (in-memory) with cached (last persisted).
// A nil cached means there is no draft to disagree with.
func Diff(current, cached *assessment.Data) Report {
	report := Report{Details: []Detail{}}
	if cached == nil {
		return report
	}
	if current == nil {
		current = &assessment.Data{}
	}

	if same, ok := fastEqual(current, cached); ok && same {
		return report
	}

	for _, f := range fields {
		cur := f.value(current)
		old := f.value(cached)
		if valuesEqual(cur, old) {
			continue
		}
		report.Details = append(report.Details, Detail{
			Field:        f.name,
			CurrentValue: cur,
			CachedValue:  old,
			Type:         classify(cur, old),
		})
	}

	report.HasDifferences = len(report.Details) > 0
	return report
}

func classify(cur, old any) ChangeType {
	switch {
	case old == nil:
		return Added
	case cur == nil:
		return Removed
	default:
		return Changed
	}
}

// fastEqual compares whole payloads by canonical JSON. ok is false when
// either side cannot be serialized.
func fastEqual(a, b *assessment.Data) (same, ok bool) {
	ab, err := assessment.MarshalCanonical(a)
	if err != nil {
		slog.Warn("consistency fast path skipped", "side", "current", "error", err)
		return false, false
	}
	bb, err := assessment.MarshalCanonical(b)
	if err != nil {
		slog.Warn("consistency fast path skipped", "side", "cached", "error", err)
		return false, false
	}
	return bytes.Equal(ab, bb), true
}

// valuesEqual compares two field values structurally. Canonical JSON makes
// map order irrelevant and 1 equal to 1.0.
func valuesEqual(a, b any) bool {
	eq, err := assessment.CanonicalEqual(a, b)
	if err != nil {
		return reflect.DeepEqual(a, b)
	}
	return eq
}

func mapOrNil[K comparable, V any](m map[K]V) any {
	if m == nil {
		return nil
	}
	return m
}

func sliceOrNil[T any](s []T) any {
	if s == nil {
		return nil
	}
	return s
}

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
