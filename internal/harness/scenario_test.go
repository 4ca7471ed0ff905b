package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "retention.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "retention", s.Name)
	require.Len(t, s.Seed, 4)
	assert.Equal(t, "manual-8d", s.Seed[1].ID)
	assert.True(t, s.Seed[1].Manual)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, OpCleanup, s.Steps[0].Op)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: "misspelled key"
steps:
  - op: save
assertion:
  - type: write_count
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{op: save}]\nassertions: [{type: write_count}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{op: save}]\nassertions: [{type: write_count}]",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\nsteps: []\nassertions: [{type: write_count}]",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nsteps: [{op: save}]\nassertions: []",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: teleport}]\nassertions: [{type: write_count}]",
			wantErr: `unknown op "teleport"`,
		},
		{
			name:    "edit without set",
			yaml:    "name: n\ndescription: d\nsteps: [{op: edit}]\nassertions: [{type: write_count}]",
			wantErr: "set is required for edit",
		},
		{
			name:    "step_change without step",
			yaml:    "name: n\ndescription: d\nsteps: [{op: step_change}]\nassertions: [{type: write_count}]",
			wantErr: "step is required for step_change",
		},
		{
			name:    "bad duration",
			yaml:    "name: n\ndescription: d\nsteps: [{op: advance, duration: soon}]\nassertions: [{type: write_count}]",
			wantErr: "duration",
		},
		{
			name:    "bad resolution",
			yaml:    "name: n\ndescription: d\nsteps: [{op: pre_submit, resolution: ignore}]\nassertions: [{type: write_count}]",
			wantErr: "resolution must be resave or force",
		},
		{
			name:    "resume without session",
			yaml:    "name: n\ndescription: d\nsteps: [{op: resume}]\nassertions: [{type: write_count}]",
			wantErr: "session is required for resume",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{op: save}]\nassertions: [{type: vibes}]",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "latest without expect",
			yaml:    "name: n\ndescription: d\nsteps: [{op: save}]\nassertions: [{type: latest}]",
			wantErr: "expect is required for latest",
		},
		{
			name:    "pending without value",
			yaml:    "name: n\ndescription: d\nsteps: [{op: save}]\nassertions: [{type: pending}]",
			wantErr: "pending is required",
		},
		{
			name:    "seed without age",
			yaml:    "name: n\ndescription: d\nseed: [{id: a, session_id: s}]\nsteps: [{op: save}]\nassertions: [{type: write_count}]",
			wantErr: "seed[0]: age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"3s", 3 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"8d", 8 * 24 * time.Hour},
		{"0d", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "d", "xd", "soon"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
