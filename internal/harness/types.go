package harness

// TraceEvent is one write or maintenance outcome observed while a scenario
// ran. At is milliseconds since the scenario started.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	Op        string `json:"op"`
	At        int64  `json:"at"`
	SessionID string `json:"session_id,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	Step      *int   `json:"step,omitempty"`
	Manual    *bool  `json:"manual,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
}

// Trace event ops not named after a step op.
const (
	EventPut    = "put"
	EventSubmit = "submit"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace lists events in the order they happened.
	Trace []TraceEvent `json:"trace"`

	// Errors holds assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends ev with the next sequence number.
func (r *Result) addEvent(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}

// Writes returns the put events, optionally only manual or only autosave.
func (r *Result) Writes(manual *bool) []TraceEvent {
	out := []TraceEvent{}
	for _, ev := range r.Trace {
		if ev.Op != EventPut {
			continue
		}
		if manual != nil && (ev.Manual == nil || *ev.Manual != *manual) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
