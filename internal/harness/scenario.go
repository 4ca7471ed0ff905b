package harness

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted editing session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionID starts the editor on an existing session. Empty mints one.
	SessionID string `yaml:"session_id,omitempty"`

	// AutoSave toggles non-manual writes. Nil means enabled.
	AutoSave *bool `yaml:"autosave,omitempty"`

	// Delay is the autosave coalescing window. Empty means the default.
	Delay string `yaml:"delay,omitempty"`

	// Seed holds records present before the first step.
	Seed []SeedRecord `yaml:"seed,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final store.
	Assertions []Assertion `yaml:"assertions"`
}

// SeedRecord is a record written directly to the store, Age before the
// scenario starts.
type SeedRecord struct {
	ID        string         `yaml:"id"`
	SessionID string         `yaml:"session_id"`
	Step      int            `yaml:"step,omitempty"`
	Manual    bool           `yaml:"manual,omitempty"`
	Age       string         `yaml:"age"`
	Data      map[string]any `yaml:"data,omitempty"`
}

// Step is one editor action.
type Step struct {
	Op         string         `yaml:"op"`
	Set        map[string]any `yaml:"set,omitempty"`
	Step       *int           `yaml:"step,omitempty"`
	Duration   string         `yaml:"duration,omitempty"`
	Session    string         `yaml:"session,omitempty"`
	Resolution string         `yaml:"resolution,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	Type    string         `yaml:"type"`
	Count   int            `yaml:"count,omitempty"`
	Manual  *bool          `yaml:"manual,omitempty"`
	Ops     []string       `yaml:"ops,omitempty"`
	Session string         `yaml:"session,omitempty"`
	Expect  map[string]any `yaml:"expect,omitempty"`
	Pending *bool          `yaml:"pending,omitempty"`
}

// Step operations.
const (
	OpEdit          = "edit"
	OpStepChange    = "step_change"
	OpSave          = "save"
	OpAdvance       = "advance"
	OpFlush         = "flush"
	OpCancel        = "cancel"
	OpCleanup       = "cleanup"
	OpNewSession    = "new_session"
	OpResume        = "resume"
	OpDeleteSession = "delete_session"
	OpPreSubmit     = "pre_submit"
	OpClose         = "close"
)

// Assertion types.
const (
	AssertWriteCount   = "write_count"
	AssertTraceOrder   = "trace_order"
	AssertLatest       = "latest"
	AssertRecordCount  = "record_count"
	AssertHistoryCount = "history_count"
	AssertPending      = "pending"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if s.Delay != "" {
		if _, err := ParseDuration(s.Delay); err != nil {
			return fmt.Errorf("delay: %w", err)
		}
	}

	for i, seed := range s.Seed {
		if seed.ID == "" || seed.SessionID == "" {
			return fmt.Errorf("seed[%d]: id and session_id are required", i)
		}
		if _, err := ParseDuration(seed.Age); err != nil {
			return fmt.Errorf("seed[%d]: age: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpEdit:
		if len(st.Set) == 0 {
			return fmt.Errorf("steps[%d]: set is required for edit", index)
		}
	case OpStepChange:
		if st.Step == nil {
			return fmt.Errorf("steps[%d]: step is required for step_change", index)
		}
	case OpAdvance:
		if _, err := ParseDuration(st.Duration); err != nil {
			return fmt.Errorf("steps[%d]: duration: %w", index, err)
		}
	case OpResume:
		if st.Session == "" {
			return fmt.Errorf("steps[%d]: session is required for resume", index)
		}
	case OpPreSubmit:
		if st.Resolution != "resave" && st.Resolution != "force" {
			return fmt.Errorf("steps[%d]: resolution must be resave or force", index)
		}
	case OpSave, OpFlush, OpCancel, OpCleanup, OpNewSession, OpDeleteSession, OpClose:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertWriteCount, AssertRecordCount, AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertLatest:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for latest", index)
		}
	case AssertPending:
		if a.Pending == nil {
			return fmt.Errorf("assertions[%d]: pending is required", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// ParseDuration accepts Go duration syntax plus a whole-day suffix ("8d").
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}
