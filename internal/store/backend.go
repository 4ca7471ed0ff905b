package store

import (
	"context"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Backend is the storage contract shared by SQLite, Memory and Redis.
//
// Implementations never modify a stored record. Cutoffs are epoch
// milliseconds compared against metadata.updatedAt.
type Backend interface {
	// Put appends rec. Record ids are unique; a duplicate id is an error.
	Put(ctx context.Context, rec assessment.Record) error

	// LatestForSession returns the session's record with the greatest
	// updatedAt, the earliest inserted among ties.
	LatestForSession(ctx context.Context, sessionID string) (assessment.Record, bool, error)

	// All returns every record in insertion order.
	All(ctx context.Context) ([]assessment.Record, error)

	// DeleteSession removes every record of the session and returns the count.
	DeleteSession(ctx context.Context, sessionID string) (int, error)

	// DeleteOlderThan removes records of the given provenance whose
	// updatedAt is strictly before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff int64, manual bool) (int, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	Close() error
}

// later reports whether a should replace b as a session's latest record,
// given that a was inserted after b.
func later(a, b assessment.Record) bool {
	return a.Metadata.UpdatedAt > b.Metadata.UpdatedAt
}
