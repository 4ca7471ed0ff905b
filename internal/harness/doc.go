// Package harness runs scripted editing sessions against the draft engine.
//
// A scenario replays what an assessment editor does (field edits, step
// changes, manual saves, the passage of time, retention sweeps, resumes and
// the pre-submit check) against an in-memory store, a fake clock and
// sequential ids, and records every write and maintenance outcome as a
// trace. Assertions check the trace and the final store; golden files pin
// the full trace.
//
// # Scenario Format
//
//	name: debounce_then_manual
//	description: "Edits coalesce; a manual save bypasses the delay"
//	session_id: sess_fixture        # optional; minted otherwise
//	autosave: true                  # optional; default true
//	delay: 3s                       # optional; default 3s
//	steps:
//	  - op: edit
//	    set: { travel_months: 2 }
//	  - op: advance
//	    duration: 1s
//	  - op: save
//	assertions:
//	  - type: write_count
//	    count: 1
//	  - type: latest
//	    expect: { travel_months: 2, is_manual: true }
//
// # Operations
//
//   - edit: merge set into the form, then schedule a coalesced autosave
//   - step_change: move to step, then autosave immediately
//   - save: manual save of the form at the current step
//   - advance: move the clock by duration (Go syntax, plus "d" for days)
//   - flush: write the pending autosave now
//   - cancel: drop the pending autosave
//   - cleanup: apply retention
//   - new_session: start a new session id
//   - resume: switch to session and load its latest draft into the form
//   - delete_session: delete every record of session (default: current)
//   - pre_submit: run the consistency check, resolving with resolution
//   - close: stop the scheduler
//
// # Assertion Types
//
//   - write_count: number of records written, optionally only manual ones
//   - trace_order: the ops appear in this relative order
//   - latest: fields of the newest record of session (default: current)
//   - record_count: records left in the store
//   - history_count: manual saves the history view returns
//   - pending: whether an autosave is waiting
package harness
