package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/draft"
	"github.com/roach88/quotedraft/internal/store"
)

// AssertionContext gives assertions access to the final state.
type AssertionContext struct {
	Ctx     context.Context
	Session *draft.Session
	Drafts  *store.Drafts
}

// EvaluateAssertions checks every assertion and returns one message per
// failure. An empty slice means all passed.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	errs := []string{}
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d] (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertWriteCount:
		return assertWriteCount(result, a)
	case AssertTraceOrder:
		return assertTraceOrder(result, a.Ops)
	case AssertLatest:
		return assertLatest(actx, a)
	case AssertRecordCount:
		if got := len(actx.Drafts.All(actx.Ctx)); got != a.Count {
			return fmt.Errorf("expected %d record(s) in store, found %d", a.Count, got)
		}
		return nil
	case AssertHistoryCount:
		if got := len(actx.Drafts.History(actx.Ctx)); got != a.Count {
			return fmt.Errorf("expected %d manual save(s) in history, found %d", a.Count, got)
		}
		return nil
	case AssertPending:
		_, pending := actx.Session.Scheduler().Pending()
		if pending != *a.Pending {
			return fmt.Errorf("expected pending=%t, got %t", *a.Pending, pending)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertWriteCount(result *Result, a Assertion) error {
	got := len(result.Writes(a.Manual))
	if got == a.Count {
		return nil
	}
	kind := "write(s)"
	if a.Manual != nil && *a.Manual {
		kind = "manual write(s)"
	} else if a.Manual != nil {
		kind = "autosave write(s)"
	}
	return fmt.Errorf("expected %d %s, found %d", a.Count, kind, got)
}

// assertTraceOrder checks that ops appear in the trace in the given
// relative order. Other events may appear in between.
func assertTraceOrder(result *Result, ops []string) error {
	next := 0
	for _, ev := range result.Trace {
		if next < len(ops) && ev.Op == ops[next] {
			next++
		}
	}
	if next < len(ops) {
		return fmt.Errorf("op %q (position %d) not found in order", ops[next], next)
	}
	return nil
}

// assertLatest compares expected fields against the newest record of the
// session. Keys are data fields plus step, is_manual, session_id,
// record_id and project_name. Values compare by canonical JSON.
func assertLatest(actx *AssertionContext, a Assertion) error {
	sid := a.Session
	if sid == "" {
		sid = actx.Session.SessionID()
	}
	rec, ok := actx.Drafts.LatestForSession(actx.Ctx, sid)
	if !ok {
		return fmt.Errorf("no record for session %q", sid)
	}

	actual, err := recordFields(rec)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, present := actual[k]
		if !present {
			return fmt.Errorf("field %q missing from record %s", k, rec.ID)
		}
		equal, err := assessment.CanonicalEqual(a.Expect[k], got)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		if !equal {
			return fmt.Errorf("field %q: expected %v, got %v", k, a.Expect[k], got)
		}
	}
	return nil
}

func recordFields(rec assessment.Record) (map[string]any, error) {
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["step"] = rec.CurrentStep
	fields["is_manual"] = rec.Metadata.IsManualSave
	fields["session_id"] = rec.SessionID
	fields["record_id"] = rec.ID
	fields["project_name"] = rec.Metadata.ProjectName
	return fields, nil
}
