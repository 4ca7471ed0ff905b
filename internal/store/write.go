package store

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Put inserts a draft record. Records are never updated; a second Put with
// the same id fails on the UNIQUE constraint with ErrCodeDuplicate.
func (s *SQLite) Put(ctx context.Context, rec assessment.Record) error {
	dataJSON, err := marshalData(rec.Data)
	if err != nil {
		return corrupt("put", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts
		(id, session_id, current_step, data, updated_at, is_manual, project_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.SessionID,
		rec.CurrentStep,
		dataJSON,
		rec.Metadata.UpdatedAt,
		boolToInt(rec.Metadata.IsManualSave),
		rec.Metadata.ProjectName,
	)
	if isUniqueViolation(err) {
		return duplicate("put", rec.ID)
	}
	if err != nil {
		return unavailable("put", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// DeleteSession removes all records of one session.
func (s *SQLite) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, unavailable("delete session", err)
	}
	return affected(res)
}

// DeleteOlderThan removes records of one provenance older than cutoff.
func (s *SQLite) DeleteOlderThan(ctx context.Context, cutoff int64, manual bool) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE is_manual = ? AND updated_at < ?`,
		boolToInt(manual), cutoff,
	)
	if err != nil {
		return 0, unavailable("delete older than", err)
	}
	return affected(res)
}

// Clear removes every record.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts`); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func affected(res rowsAffected) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("rows affected", err)
	}
	return int(n), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
