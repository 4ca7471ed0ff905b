package assessment

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WorkloadRecord is one row of a workload table: a module and the
// role-days estimated for it.
//
// Role columns are dynamic (one per configured role name) and appear on the
// wire as top-level keys next to the fixed fields. Numeric role columns are
// collected in RoleDays; any other unknown key is kept verbatim in Extra so
// that a draft round-trips without loss.
type WorkloadRecord struct {
	ID             string
	Module1        string
	Module2        string
	Module3        string
	Description    string
	DeliveryFactor *float64
	Workload       *float64
	ScopeFactor    *float64
	TechFactor     *float64

	RoleDays map[string]float64
	Extra    map[string]any
}

// fixedWorkloadKeys are the JSON keys that never name a role.
var fixedWorkloadKeys = map[string]bool{
	"id":              true,
	"module1":         true,
	"module2":         true,
	"module3":         true,
	"description":     true,
	"delivery_factor": true,
	"workload":        true,
	"scope_factor":    true,
	"tech_factor":     true,
}

// Roles returns the role names present in RoleDays, sorted.
func (w WorkloadRecord) Roles() []string {
	names := make([]string, 0, len(w.RoleDays))
	for name := range w.RoleDays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the row. Extra values are copied shallowly.
func (w WorkloadRecord) Clone() WorkloadRecord {
	out := w
	out.DeliveryFactor = cloneFloat(w.DeliveryFactor)
	out.Workload = cloneFloat(w.Workload)
	out.ScopeFactor = cloneFloat(w.ScopeFactor)
	out.TechFactor = cloneFloat(w.TechFactor)
	if w.RoleDays != nil {
		out.RoleDays = make(map[string]float64, len(w.RoleDays))
		for k, v := range w.RoleDays {
			out.RoleDays[k] = v
		}
	}
	if w.Extra != nil {
		out.Extra = make(map[string]any, len(w.Extra))
		for k, v := range w.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// MarshalJSON flattens role columns and extras into the row object.
func (w WorkloadRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(w.RoleDays)+len(w.Extra)+9)
	for k, v := range w.Extra {
		m[k] = v
	}
	for role, days := range w.RoleDays {
		m[role] = days
	}

	m["id"] = w.ID
	putString(m, "module1", w.Module1)
	putString(m, "module2", w.Module2)
	putString(m, "module3", w.Module3)
	putString(m, "description", w.Description)
	putFloat(m, "delivery_factor", w.DeliveryFactor)
	putFloat(m, "workload", w.Workload)
	putFloat(m, "scope_factor", w.ScopeFactor)
	putFloat(m, "tech_factor", w.TechFactor)

	return json.Marshal(m)
}

// UnmarshalJSON splits a row object into fixed fields, role columns and
// extras.
func (w *WorkloadRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("workload record: %w", err)
	}

	out := WorkloadRecord{}
	var err error
	if out.ID, err = readIdentifier(raw["id"]); err != nil {
		return fmt.Errorf("workload record: id: %w", err)
	}
	for key, dst := range map[string]*string{
		"module1":     &out.Module1,
		"module2":     &out.Module2,
		"module3":     &out.Module3,
		"description": &out.Description,
	} {
		if *dst, err = readString(raw[key]); err != nil {
			return fmt.Errorf("workload record: %s: %w", key, err)
		}
	}
	for key, dst := range map[string]**float64{
		"delivery_factor": &out.DeliveryFactor,
		"workload":        &out.Workload,
		"scope_factor":    &out.ScopeFactor,
		"tech_factor":     &out.TechFactor,
	} {
		if *dst, err = readFloat(raw[key]); err != nil {
			return fmt.Errorf("workload record: %s: %w", key, err)
		}
	}

	for key, msg := range raw {
		if fixedWorkloadKeys[key] {
			continue
		}
		if days, ok := numericValue(msg); ok {
			if out.RoleDays == nil {
				out.RoleDays = make(map[string]float64)
			}
			out.RoleDays[key] = days
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("workload record: %s: %w", key, err)
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[key] = v
	}

	*w = out
	return nil
}

func putString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putFloat(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// readIdentifier accepts string or numeric ids; table rows created by
// older forms used numeric keys.
func readIdentifier(msg json.RawMessage) (string, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func readString(msg json.RawMessage) (string, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return "", err
	}
	return s, nil
}

func readFloat(msg json.RawMessage) (*float64, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return nil, nil
	}
	if v, ok := numericValue(msg); ok {
		return &v, nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return nil, fmt.Errorf("not a number: %s", string(msg))
}

// numericValue reads a JSON number or numeric string.
func numericValue(msg json.RawMessage) (float64, bool) {
	var v float64
	if err := json.Unmarshal(msg, &v); err == nil {
		return v, true
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
