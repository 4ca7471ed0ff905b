package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes storage failures.
type ErrorCode string

const (
	// ErrCodeUnavailable indicates the backend could not be reached or
	// rejected the operation.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"

	// ErrCodeCorrupt indicates a stored record could not be decoded.
	ErrCodeCorrupt ErrorCode = "CORRUPT"

	// ErrCodeNotFound indicates a lookup matched nothing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicate indicates a Put reused an existing record id.
	ErrCodeDuplicate ErrorCode = "DUPLICATE"
)

// Error is a storage failure with the operation that produced it.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unavailable(op string, err error) error {
	return &Error{Op: op, Code: ErrCodeUnavailable, Err: err}
}

func duplicate(op, id string) error {
	return &Error{Op: op, Code: ErrCodeDuplicate, Err: fmt.Errorf("duplicate record id %q", id)}
}

func corrupt(op string, err error) error {
	return &Error{Op: op, Code: ErrCodeCorrupt, Err: err}
}

// IsUnavailable returns true if err is a storage error with ErrCodeUnavailable.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnavailable
	}
	return false
}

// IsCorrupt returns true if err is a storage error with ErrCodeCorrupt.
func IsCorrupt(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeCorrupt
	}
	return false
}

// IsNotFound returns true if err is a storage error with ErrCodeNotFound.
func IsNotFound(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeNotFound
	}
	return false
}

// IsDuplicate returns true if err is a storage error with ErrCodeDuplicate.
func IsDuplicate(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeDuplicate
	}
	return false
}

// NotFound returns an ErrCodeNotFound error for a session lookup.
func NotFound(op, sessionID string) error {
	return &Error{Op: op, Code: ErrCodeNotFound, Err: fmt.Errorf("no draft for session %q", sessionID)}
}
