package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/quotedraft/internal/assessment"
)

const selectColumns = `id, session_id, current_step, data, updated_at, is_manual, project_name`

// LatestForSession returns the newest record of a session.
// Ties on updated_at resolve to the lowest seq (first inserted).
func (s *SQLite) LatestForSession(ctx context.Context, sessionID string) (assessment.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM drafts
		WHERE session_id = ?
		ORDER BY updated_at DESC, seq ASC
		LIMIT 1
	`, sessionID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.Record{}, false, nil
	}
	if err != nil {
		return assessment.Record{}, false, err
	}
	return rec, true, nil
}

// All returns every record ordered by insertion.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *SQLite) All(ctx context.Context) ([]assessment.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM drafts
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, unavailable("all", err)
	}
	defer rows.Close()

	records := []assessment.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("all", fmt.Errorf("iterate drafts: %w", err))
	}

	return records, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (assessment.Record, error) {
	var (
		rec      assessment.Record
		dataJSON string
		manual   int
	)

	err := sc.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.CurrentStep,
		&dataJSON,
		&rec.Metadata.UpdatedAt,
		&manual,
		&rec.Metadata.ProjectName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.Record{}, err
	}
	if err != nil {
		return assessment.Record{}, unavailable("scan draft", err)
	}

	rec.Metadata.IsManualSave = manual != 0
	rec.Data, err = unmarshalData(dataJSON)
	if err != nil {
		return assessment.Record{}, corrupt("scan draft "+rec.ID, err)
	}

	return rec, nil
}
