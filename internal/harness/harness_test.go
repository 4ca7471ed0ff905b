package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Scenarios(t *testing.T) {
	names := []string{
		"debounce_then_manual",
		"resume_and_submit",
		"retention",
		"autosave_disabled",
		"close_drops_pending",
		"sessions",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "assertion failures: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"debounce_then_manual", "resume_and_submit"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "assertion failures: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "debounce_then_manual")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_CoalescedWriteCarriesLastEdit(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: coalesce
description: "Four edits half a second apart produce one write of the last edit"
delay: 3s
steps:
  - op: edit
    set: { travel_months: 1 }
  - op: advance
    duration: 500ms
  - op: edit
    set: { travel_months: 2 }
  - op: advance
    duration: 500ms
  - op: edit
    set: { travel_months: 3 }
  - op: advance
    duration: 500ms
  - op: edit
    set: { travel_months: 4 }
  - op: advance
    duration: 2999ms
  - op: advance
    duration: 1ms
assertions:
  - type: write_count
    count: 1
  - type: latest
    expect: { travel_months: 4, is_manual: false }
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "assertion failures: %v", result.Errors)

	writes := result.Writes(nil)
	require.Len(t, writes, 1)
	assert.Equal(t, int64(4500), writes[0].At)
}

func TestRun_FailingAssertionsAreReported(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectations
description: "Assertions that do not hold are reported, not fatal"
steps:
  - op: save
assertions:
  - type: write_count
    count: 2
  - type: latest
    expect: { travel_months: 7 }
  - type: trace_order
    ops: [cleanup]
  - type: pending
    pending: true
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expected 2 write(s), found 1")
	assert.Contains(t, result.Errors[1], `field "travel_months"`)
	assert.Contains(t, result.Errors[2], `op "cleanup"`)
	assert.Contains(t, result.Errors[3], "expected pending=true")
}

func TestRun_TieKeepsFirstInserted(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: tie
description: "Two writes in the same millisecond resolve to the first"
session_id: sess_tie
steps:
  - op: edit
    set: { travel_months: 1 }
  - op: step_change
    step: 1
  - op: edit
    set: { travel_months: 2 }
  - op: step_change
    step: 2
assertions:
  - type: write_count
    count: 2
  - type: latest
    expect: { record_id: rec-1, step: 1 }
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "assertion failures: %v", result.Errors)
}
