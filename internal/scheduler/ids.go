package scheduler

import (
	"sync"

	"github.com/google/uuid"
)

// SessionIDPrefix marks draft session ids.
const SessionIDPrefix = "sess_"

// IDGenerator produces unique identifiers for sessions and records.
type IDGenerator interface {
	Generate() string
}

// SessionIDGenerator generates time-sortable session ids of the form
// "sess_<uuidv7>".
//
// UUIDv7 embeds a timestamp in the most significant bits, so sessions sort
// by creation time.
//
// Thread-safety: SessionIDGenerator is stateless and safe for concurrent use.
type SessionIDGenerator struct{}

// Generate creates a new session id.
//
// Panics if UUID generation fails (should never happen in practice).
func (SessionIDGenerator) Generate() string {
	return SessionIDPrefix + uuid.Must(uuid.NewV7()).String()
}

// RecordIDGenerator generates random UUIDv4 record ids.
//
// Thread-safety: RecordIDGenerator is stateless and safe for concurrent use.
type RecordIDGenerator struct{}

// Generate returns a hyphenated UUIDv4.
func (RecordIDGenerator) Generate() string {
	return uuid.NewString()
}

// FixedGenerator returns predetermined ids for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedGenerator("sess_a", "sess_b")
//	gen.Generate() // "sess_a"
//	gen.Generate() // "sess_b"
//	gen.Generate() // panic: all ids exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, which catches tests that create
// more sessions than they expect.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
