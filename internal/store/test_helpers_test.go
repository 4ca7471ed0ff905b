package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/quotedraft/internal/assessment"
)

// createTestStore creates a new SQLite store in a temp dir.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with a recognizable payload.
func createTestRecord(id, sessionID string, updatedAt int64, manual bool) assessment.Record {
	return assessment.Record{
		ID:          id,
		SessionID:   sessionID,
		CurrentStep: assessment.StepWorkload,
		Data: assessment.Data{
			RiskScores:   map[string]assessment.Score{"Scope": assessment.ScoreOf(10)},
			TravelMonths: float64(updatedAt % 7),
		},
		Metadata: assessment.Metadata{
			UpdatedAt:    updatedAt,
			IsManualSave: manual,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingBackend fails every operation.
type failingBackend struct{}

var errBackendDown = unavailable("test", errors.New("backend down"))

func (failingBackend) Put(context.Context, assessment.Record) error { return errBackendDown }
func (failingBackend) LatestForSession(context.Context, string) (assessment.Record, bool, error) {
	return assessment.Record{}, false, errBackendDown
}
func (failingBackend) All(context.Context) ([]assessment.Record, error) { return nil, errBackendDown }
func (failingBackend) DeleteSession(context.Context, string) (int, error) {
	return 0, errBackendDown
}
func (failingBackend) DeleteOlderThan(context.Context, int64, bool) (int, error) {
	return 0, errBackendDown
}
func (failingBackend) Clear(context.Context) error { return errBackendDown }
func (failingBackend) Close() error { return nil }
