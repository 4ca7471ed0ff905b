package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/quotedraft/internal/assessment"
)

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Risk scores", FieldLabel("risk_scores"))
	assert.Equal(t, "Unmatched AI risks", FieldLabel("ai_unmatched_risks"))
	assert.Equal(t, "formValues", FieldLabel("formValues"))
	for _, f := range Fields() {
		assert.NotEqual(t, f, FieldLabel(f), "missing label for %s", f)
	}
}

func TestFormatValue(t *testing.T) {
	var nilSlice []assessment.RiskCostItem
	var nilPtr *float64

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "empty"},
		{"nil slice", nilSlice, "empty"},
		{"nil pointer", nilPtr, "empty"},
		{"slice", []assessment.RiskCostItem{{}, {}}, "array(2 items)"},
		{"empty slice", []int{}, "array(0 items)"},
		{"map", map[string]assessment.Score{"A": assessment.ScoreOf(1)}, "object(1 fields)"},
		{"float", 1.5, "1.5"},
		{"integral float", 3.0, "3"},
		{"pointer", assessment.Float(2.25), "2.25"},
		{"unset score", assessment.Unset(), "unset"},
		{"score", assessment.ScoreOf(7), "7"},
		{"string", "text", "text"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}
