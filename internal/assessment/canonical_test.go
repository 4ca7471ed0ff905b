package assessment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"integral float", 3.0, "3"},
		{"fraction", 1.5, "1.5"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"large", 1e21, "1e+21"},
		{"null", nil, "null"},
		{"bool", true, "true"},
		{"empty array", []int{}, "[]"},
		{"empty object", map[string]int{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"b": 1,
		"a": map[string]any{"z": true, "y": false},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":false,"z":true},"b":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D..., which sort before U+FF61
	// in UTF-16 but after it in UTF-8.
	result, err := MarshalCanonical(map[string]int{"\uFF61": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF61\":1}", string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(result))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	decomposed, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(decomposed))

	keyed, err := MarshalCanonical(map[string]int{"e\u0301": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\"\u00e9\":1}", string(keyed))
}

func TestMarshalCanonicalArraysAreOrderSensitive(t *testing.T) {
	eq, err := CanonicalEqual([]int{1, 2}, []int{2, 1})
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestMarshalCanonicalMapOrderInsensitive(t *testing.T) {
	a := map[string]any{"x": 1, "y": []any{"p", "q"}}
	b := map[string]any{"y": []any{"p", "q"}, "x": 1.0}
	eq, err := CanonicalEqual(a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestMarshalCanonicalRejectsNaN(t *testing.T) {
	_, err := MarshalCanonical(Data{RiskScores: map[string]Score{"A": ScoreOf(math.NaN())}})
	assert.Error(t, err)
}

func TestRecordCanonicalShape(t *testing.T) {
	rec := Record{
		ID:          "r1",
		SessionID:   "s1",
		CurrentStep: StepOtherCosts,
		Data: Data{
			RiskScores:   map[string]Score{"A": ScoreOf(3)},
			TravelMonths: 1,
		},
		Metadata: Metadata{UpdatedAt: 1700000000000, IsManualSave: true},
	}

	result, err := MarshalCanonical(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"currentStep":2,"data":{"development_workload":null,"integration_workload":null,`+
			`"maintenance_headcount":0,"maintenance_months":0,"risk_cost_items":null,`+
			`"risk_scores":{"A":3},"travel_months":1},"id":"r1",`+
			`"metadata":{"isManualSave":true,"updatedAt":1700000000000},"sessionId":"s1"}`,
		string(result))
}

func TestFingerprint(t *testing.T) {
	a := Data{RiskScores: map[string]Score{"A": ScoreOf(1), "B": ScoreOf(2)}}
	b := Data{RiskScores: map[string]Score{"B": ScoreOf(2), "A": ScoreOf(1)}}
	c := Data{RiskScores: map[string]Score{"A": ScoreOf(1)}}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Len(t, fa, 64)
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
	assert.Equal(t, fa[:12], ShortFingerprint(a))
}

func TestShortFingerprint_Unserializable(t *testing.T) {
	d := Data{RiskScores: map[string]Score{"A": ScoreOf(math.Inf(1))}}
	assert.Equal(t, "-", ShortFingerprint(d))
}
