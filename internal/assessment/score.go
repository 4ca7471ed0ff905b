package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Score is the option chosen for one risk item. A Score may be unset: the
// user has not picked an option yet, or the form cleared it.
//
// On the wire an unset score is null. Numeric strings are accepted on
// input and normalized to numbers; empty strings read as unset.
type Score struct {
	value float64
	set   bool
}

// ScoreOf returns a set Score.
func ScoreOf(v float64) Score {
	return Score{value: v, set: true}
}

// Unset returns an unset Score.
func Unset() Score {
	return Score{}
}

// Value returns the score and whether it is set.
func (s Score) Value() (float64, bool) {
	return s.value, s.set
}

// IsSet reports whether a value was chosen.
func (s Score) IsSet() bool {
	return s.set
}

// String renders the score for display.
func (s Score) String() string {
	if !s.set {
		return "unset"
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

// MarshalJSON writes a number, or null when unset.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number, a numeric string, an empty string or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("score: %w", err)
		}
		*s = ParseScore(str)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = ScoreOf(v)
	return nil
}

// ParseScore converts form input to a Score. Empty or non-numeric input is
// unset.
func ParseScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Score{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Score{}
	}
	return ScoreOf(v)
}
