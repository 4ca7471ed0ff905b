// Package testutil provides deterministic fixtures for draft tests.
package testutil

import (
	"time"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Epoch is the reference "now" fixtures are built around.
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Days returns n days as a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// SampleData returns an assessment with every section filled in: three
// catalog risks, one custom risk, one development row, one integration
// row, travel, maintenance and a priced risk item.
func SampleData() assessment.Data {
	return assessment.Data{
		RiskScores: map[string]assessment.Score{
			"Scope":       assessment.ScoreOf(10),
			"Integration": assessment.ScoreOf(5),
			"Schedule":    assessment.ScoreOf(0),
		},
		CustomRiskItems: []assessment.ExtraRiskItem{
			{Description: "Vendor lock-in", Score: 3},
		},
		DevelopmentWorkload: []assessment.WorkloadRecord{
			{
				ID:       "dev-1",
				Module1:  "Portal",
				Module2:  "Login",
				RoleDays: map[string]float64{"Engineer": 10, "Tester": 2},
			},
		},
		IntegrationWorkload: []assessment.WorkloadRecord{
			{
				ID:       "int-1",
				Module1:  "ERP",
				RoleDays: map[string]float64{"Engineer": 4},
			},
		},
		TravelMonths:         2,
		TravelHeadcount:      assessment.Float(1),
		MaintenanceMonths:    6,
		MaintenanceHeadcount: 1,
		RiskCostItems: []assessment.RiskCostItem{
			{Description: "Contingency", Cost: 5},
		},
	}
}

// NewRecord returns a record of sessionID written age before Epoch, with
// SampleData as its payload.
func NewRecord(id, sessionID string, age time.Duration, manual bool) assessment.Record {
	return assessment.Record{
		ID:          id,
		SessionID:   sessionID,
		CurrentStep: assessment.StepWorkload,
		Data:        SampleData(),
		Metadata: assessment.Metadata{
			UpdatedAt:    Epoch.Add(-age).UnixMilli(),
			IsManualSave: manual,
		},
	}
}
