package assessment

import (
	"fmt"
	"time"
)

// Wizard steps, in the order the assessment form presents them.
const (
	StepRiskScoring = iota
	StepWorkload
	StepOtherCosts
	StepOverview
)

var stepLabels = []string{
	"Risk scoring",
	"Workload estimation",
	"Other costs",
	"Overview",
}

// StepLabel returns the display name of a wizard step.
func StepLabel(step int) string {
	if step >= 0 && step < len(stepLabels) {
		return stepLabels[step]
	}
	return fmt.Sprintf("Unknown step (%d)", step)
}

// Record is one persisted snapshot of the in-progress assessment.
type Record struct {
	ID          string   `json:"id"`
	SessionID   string   `json:"sessionId"`
	CurrentStep int      `json:"currentStep"`
	Data        Data     `json:"data"`
	Metadata    Metadata `json:"metadata"`
}

// Metadata carries write time and provenance. Neither changes after write.
type Metadata struct {
	UpdatedAt    int64  `json:"updatedAt"` // epoch milliseconds
	IsManualSave bool   `json:"isManualSave"`
	ProjectName  string `json:"projectName,omitempty"`
}

// UpdatedTime returns metadata.updatedAt as a time.Time.
func (r Record) UpdatedTime() time.Time {
	return time.UnixMilli(r.Metadata.UpdatedAt)
}

// Provenance returns "manual" or "autosave".
func (r Record) Provenance() string {
	if r.Metadata.IsManualSave {
		return "manual"
	}
	return "autosave"
}

// Data is the assessment payload captured by a draft.
//
// Optional fields are nil when the form never produced them; the
// consistency checker treats nil as undefined. The risk lists and
// FormValues encode nil as null and empty as [] or {}, so the distinction
// survives a store round trip.
type Data struct {
	RiskScores       map[string]Score `json:"risk_scores"`
	AIUnmatchedRisks []ExtraRiskItem  `json:"ai_unmatched_risks"`
	CustomRiskItems  []ExtraRiskItem  `json:"custom_risk_items"`

	DevelopmentWorkload []WorkloadRecord `json:"development_workload"`
	IntegrationWorkload []WorkloadRecord `json:"integration_workload"`

	TravelMonths         float64  `json:"travel_months"`
	TravelHeadcount      *float64 `json:"travel_headcount,omitempty"`
	MaintenanceMonths    float64  `json:"maintenance_months"`
	MaintenanceHeadcount float64  `json:"maintenance_headcount"`
	MaintenanceDailyCost *float64 `json:"maintenance_daily_cost,omitempty"`

	RiskCostItems []RiskCostItem `json:"risk_cost_items"`

	// FormValues holds free-form field values not otherwise modeled.
	FormValues map[string]any `json:"formValues"`
}

// ExtraRiskItem is a risk outside the configured catalog: either reported
// by AI analysis without a catalog match, or added by the user.
type ExtraRiskItem struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// RiskCostItem is a priced risk line item.
type RiskCostItem struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// ModuleCount returns the number of rows across both workload tables.
func (d Data) ModuleCount() int {
	return len(d.DevelopmentWorkload) + len(d.IntegrationWorkload)
}

// RiskCount returns the number of catalog risks present in risk_scores
// plus custom risk items.
func (d Data) RiskCount() int {
	return len(d.RiskScores) + len(d.CustomRiskItems)
}

// Clone returns a copy of d that shares no maps, slices, or pointers with
// it, so later edits to the live form cannot reach a pending snapshot.
// FormValues is copied one level deep.
func (d Data) Clone() Data {
	out := d

	if d.RiskScores != nil {
		out.RiskScores = make(map[string]Score, len(d.RiskScores))
		for k, v := range d.RiskScores {
			out.RiskScores[k] = v
		}
	}
	out.AIUnmatchedRisks = cloneSlice(d.AIUnmatchedRisks)
	out.CustomRiskItems = cloneSlice(d.CustomRiskItems)
	out.RiskCostItems = cloneSlice(d.RiskCostItems)
	out.DevelopmentWorkload = cloneWorkload(d.DevelopmentWorkload)
	out.IntegrationWorkload = cloneWorkload(d.IntegrationWorkload)
	out.TravelHeadcount = cloneFloat(d.TravelHeadcount)
	out.MaintenanceDailyCost = cloneFloat(d.MaintenanceDailyCost)

	if d.FormValues != nil {
		out.FormValues = make(map[string]any, len(d.FormValues))
		for k, v := range d.FormValues {
			out.FormValues[k] = v
		}
	}
	return out
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneWorkload(rows []WorkloadRecord) []WorkloadRecord {
	if rows == nil {
		return nil
	}
	out := make([]WorkloadRecord, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
