package draft

import (
	"context"
	"fmt"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/consistency"
)

// Resolution is the user's answer when the form and the last draft disagree.
type Resolution int

const (
	// ResolveResave stores the in-memory data as a manual draft and
	// blocks the submit so the user can review it.
	ResolveResave Resolution = iota

	// ResolveForce submits anyway.
	ResolveForce
)

// Resolver asks the user how to handle a non-empty consistency report.
type Resolver interface {
	Resolve(ctx context.Context, report consistency.Report) Resolution
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, report consistency.Report) Resolution

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, report consistency.Report) Resolution {
	return f(ctx, report)
}

// Decision is the outcome of PreSubmit.
type Decision struct {
	Proceed bool
	Report  consistency.Report
}

// PreSubmit compares data with the newest draft before the final save.
// Without differences the submit proceeds. Otherwise r decides: a resave
// writes data as a manual draft at the overview step and blocks; a force
// proceeds. A failed resave is returned as an error and still blocks.
func (s *Session) PreSubmit(ctx context.Context, data assessment.Data, r Resolver) (Decision, error) {
	report := s.CompareWithLatest(ctx, data)
	if !report.HasDifferences {
		return Decision{Proceed: true, Report: report}, nil
	}

	s.logger.Info("draft differs from form before submit",
		"session", s.SessionID(),
		"fields", report.Fields(),
	)

	switch r.Resolve(ctx, report) {
	case ResolveForce:
		return Decision{Proceed: true, Report: report}, nil
	default:
		if err := s.SaveDraft(ctx, data, assessment.StepOverview); err != nil {
			return Decision{Report: report}, fmt.Errorf("resave before submit: %w", err)
		}
		return Decision{Report: report}, nil
	}
}
