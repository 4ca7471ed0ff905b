package store

import (
	"context"
	"sync"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Memory is an in-process Backend. Records are deep-copied on the way in
// and out so callers cannot mutate stored drafts.
//
// Thread-safety: Memory is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records []assessment.Record // insertion order
	ids     map[string]struct{}
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

func (m *Memory) Put(_ context.Context, rec assessment.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.ids[rec.ID]; dup {
		return duplicate("put", rec.ID)
	}
	m.ids[rec.ID] = struct{}{}
	m.records = append(m.records, cloneRecord(rec))
	return nil
}

func (m *Memory) LatestForSession(_ context.Context, sessionID string) (assessment.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best  assessment.Record
		found bool
	)
	for _, rec := range m.records {
		if rec.SessionID != sessionID {
			continue
		}
		if !found || later(rec, best) {
			best, found = rec, true
		}
	}
	if !found {
		return assessment.Record{}, false, nil
	}
	return cloneRecord(best), true, nil
}

func (m *Memory) All(_ context.Context) ([]assessment.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]assessment.Record, len(m.records))
	for i, rec := range m.records {
		out[i] = cloneRecord(rec)
	}
	return out, nil
}

func (m *Memory) DeleteSession(_ context.Context, sessionID string) (int, error) {
	return m.deleteWhere(func(rec assessment.Record) bool {
		return rec.SessionID == sessionID
	}), nil
}

func (m *Memory) DeleteOlderThan(_ context.Context, cutoff int64, manual bool) (int, error) {
	return m.deleteWhere(func(rec assessment.Record) bool {
		return rec.Metadata.IsManualSave == manual && rec.Metadata.UpdatedAt < cutoff
	}), nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.ids = make(map[string]struct{})
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) deleteWhere(match func(assessment.Record) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	removed := 0
	for _, rec := range m.records {
		if match(rec) {
			delete(m.ids, rec.ID)
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return removed
}

func cloneRecord(rec assessment.Record) assessment.Record {
	rec.Data = rec.Data.Clone()
	return rec
}
