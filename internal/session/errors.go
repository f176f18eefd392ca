package session

import "errors"

// Sentinel errors for the conditions a caller may want to react to
// distinctly. Match with errors.Is; all errors surfaced by this package wrap
// one of these or an underlying OS error. None of them is fatal to the host:
// the worst case is that one save or load failed, always reported.
var (
	// ErrNotFound reports that no document exists for the session.
	ErrNotFound = errors.New("session not found")

	// ErrCorrupt reports an unparseable document after backup recovery was
	// also attempted.
	ErrCorrupt = errors.New("session document corrupt")

	// ErrTooLarge reports a document exceeding the size ceiling. Refused
	// outright; no recovery attempt is made for oversized files.
	ErrTooLarge = errors.New("session document too large")

	// ErrEmptyID reports an attempt to save a session with an empty
	// identifier.
	ErrEmptyID = errors.New("session has empty identifier")
)
