package crm

import "errors"

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when a record id does not exist. Callers route it
// to a "not found" response; it is never treated as fatal.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateAssignment is returned when the (mission, applicant) pair is
// already linked. Raised by the store's uniqueness constraint, not by a
// check-then-act sequence, so it holds under concurrent callers.
var ErrDuplicateAssignment = errors.New("applicant already assigned to this mission")

// ErrEmptyContent is returned when a note is blank after trimming.
var ErrEmptyContent = errors.New("note content is empty")

// ErrStorageUnavailable wraps document blob failures. Fatal for an upload
// that is part of a create/update; logged and swallowed for best-effort
// deletes.
var ErrStorageUnavailable = errors.New("document storage unavailable")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
