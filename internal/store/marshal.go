package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/quotedraft/internal/assessment"
)

// marshalData converts assessment data to JSON TEXT for storage.
// Strings are stored as given; canonical (NFC) form is only for comparison
// and fingerprints.
func marshalData(d assessment.Data) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	return string(b), nil
}

func unmarshalData(text string) (assessment.Data, error) {
	var d assessment.Data
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return assessment.Data{}, fmt.Errorf("unmarshal data: %w", err)
	}
	return d, nil
}

// marshalRecord encodes a whole record, used by backends that store
// records as single values.
func marshalRecord(rec assessment.Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return b, nil
}

func unmarshalRecord(b []byte) (assessment.Record, error) {
	var rec assessment.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return assessment.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}
