// Package assessment defines the persisted shape of an in-progress quote
// assessment and the draft records that snapshot it.
//
// This package contains data types and their encodings only. Every other
// internal package imports assessment; assessment imports nothing internal.
//
// Key constraints:
//   - JSON field names are frozen: drafts written by older versions must
//     stay loadable.
//   - Records are immutable once written; saving always creates a new
//     Record with a fresh ID.
//   - Canonical JSON (sorted keys, NFC strings, normalized numbers) is the
//     only encoding used for equality and fingerprints.
package assessment
