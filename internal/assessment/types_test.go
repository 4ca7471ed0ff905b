package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLabel(t *testing.T) {
	assert.Equal(t, "Risk scoring", StepLabel(StepRiskScoring))
	assert.Equal(t, "Overview", StepLabel(StepOverview))
	assert.Equal(t, "Unknown step (7)", StepLabel(7))
	assert.Equal(t, "Unknown step (-1)", StepLabel(-1))
}

func TestScore_UnmarshalVariants(t *testing.T) {
	var scores map[string]Score
	err := json.Unmarshal([]byte(`{"A":null,"B":"2","C":"","D":4.5,"E":"high"}`), &scores)
	require.NoError(t, err)

	assert.False(t, scores["A"].IsSet())
	v, ok := scores["B"].Value()
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.False(t, scores["C"].IsSet())
	v, ok = scores["D"].Value()
	assert.True(t, ok)
	assert.Equal(t, 4.5, v)
	assert.False(t, scores["E"].IsSet(), "non-numeric input reads as unset")
}

func TestScore_UnmarshalRejectsBool(t *testing.T) {
	var s Score
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestScore_MarshalUnsetAsNull(t *testing.T) {
	out, err := json.Marshal(map[string]Score{"A": Unset(), "B": ScoreOf(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":null,"B":3}`, string(out))
	assert.Equal(t, "unset", Unset().String())
	assert.Equal(t, "3", ScoreOf(3).String())
}

func TestWorkloadRecord_RoleColumnsRoundTrip(t *testing.T) {
	input := `{"id":"w1","module1":"Core","delivery_factor":1.2,"PM":"3","Dev":10,"note":"x"}`

	var w WorkloadRecord
	require.NoError(t, json.Unmarshal([]byte(input), &w))

	assert.Equal(t, "w1", w.ID)
	assert.Equal(t, "Core", w.Module1)
	require.NotNil(t, w.DeliveryFactor)
	assert.Equal(t, 1.2, *w.DeliveryFactor)
	assert.Nil(t, w.Workload)
	assert.Equal(t, map[string]float64{"PM": 3, "Dev": 10}, w.RoleDays)
	assert.Equal(t, map[string]any{"note": "x"}, w.Extra)
	assert.Equal(t, []string{"Dev", "PM"}, w.Roles())

	out, err := MarshalCanonical(w)
	require.NoError(t, err)
	assert.Equal(t, `{"Dev":10,"PM":3,"delivery_factor":1.2,"id":"w1","module1":"Core","note":"x"}`, string(out))
}

func TestWorkloadRecord_NumericID(t *testing.T) {
	var w WorkloadRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"workload":""}`), &w))
	assert.Equal(t, "7", w.ID)
	assert.Nil(t, w.Workload)
}

func TestWorkloadRecord_RejectsNonNumericFactor(t *testing.T) {
	var w WorkloadRecord
	assert.Error(t, json.Unmarshal([]byte(`{"id":"w","delivery_factor":"fast"}`), &w))
}

func TestData_RoundTrip(t *testing.T) {
	in := Data{
		RiskScores:      map[string]Score{"Scope": ScoreOf(10), "Team": Unset()},
		CustomRiskItems: []ExtraRiskItem{{Description: "vendor", Score: 5}},
		DevelopmentWorkload: []WorkloadRecord{
			{ID: "d1", Module1: "Portal", RoleDays: map[string]float64{"Dev": 4}},
		},
		TravelMonths:         2,
		TravelHeadcount:      Float(3),
		MaintenanceMonths:    6,
		MaintenanceHeadcount: 1,
		RiskCostItems:        []RiskCostItem{{Description: "buffer", Cost: 1.5}},
		FormValues:           map[string]any{"projectName": "Atlas"},
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Data
	require.NoError(t, json.Unmarshal(raw, &out))

	eq, err := CanonicalEqual(in, out)
	require.NoError(t, err)
	assert.True(t, eq)
	assert.Equal(t, 1, out.ModuleCount())
	assert.Equal(t, 3, out.RiskCount())
}

func TestData_CloneIsIndependent(t *testing.T) {
	orig := Data{
		RiskScores:          map[string]Score{"A": ScoreOf(1)},
		DevelopmentWorkload: []WorkloadRecord{{ID: "d1", RoleDays: map[string]float64{"Dev": 1}}},
		TravelHeadcount:     Float(2),
		FormValues:          map[string]any{"k": "v"},
	}
	clone := orig.Clone()

	orig.RiskScores["A"] = ScoreOf(9)
	orig.DevelopmentWorkload[0].RoleDays["Dev"] = 99
	*orig.TravelHeadcount = 7
	orig.FormValues["k"] = "changed"

	v, _ := clone.RiskScores["A"].Value()
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 1.0, clone.DevelopmentWorkload[0].RoleDays["Dev"])
	assert.Equal(t, 2.0, *clone.TravelHeadcount)
	assert.Equal(t, "v", clone.FormValues["k"])
}

func TestData_CloneKeepsNil(t *testing.T) {
	clone := Data{}.Clone()
	assert.Nil(t, clone.RiskScores)
	assert.Nil(t, clone.DevelopmentWorkload)
	assert.Nil(t, clone.TravelHeadcount)
}

func TestRecord_Provenance(t *testing.T) {
	assert.Equal(t, "manual", Record{Metadata: Metadata{IsManualSave: true}}.Provenance())
	assert.Equal(t, "autosave", Record{}.Provenance())
	assert.Equal(t, int64(1700000000000), Record{Metadata: Metadata{UpdatedAt: 1700000000000}}.UpdatedTime().UnixMilli())
}
