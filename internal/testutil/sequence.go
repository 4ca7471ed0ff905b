package testutil

import (
	"fmt"
	"sync"
)

// Sequence generates predictable ids "<prefix>1", "<prefix>2", ... for
// tests that mint more ids than is convenient to list up front.
//
// Unlike scheduler.FixedGenerator, Sequence never runs out and can be
// reset for test reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

// NewSequence creates a sequence starting at 0. The first Generate
// returns prefix+"1".
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Generate increments the counter and returns the next id.
//
// Implements scheduler.IDGenerator.
func (s *Sequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}

// Current returns how many ids have been generated since the last reset.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset restarts the sequence. The next Generate returns prefix+"1".
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
