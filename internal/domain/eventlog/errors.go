package eventlog

import "errors"

// Sentinel kinds for recording failures. All are local validation errors
// surfaced synchronously; none leave a partial event in the log.
var (
	// ErrInvalidActor marks an actor reference that does not belong to
	// the roster implied by the current mode.
	ErrInvalidActor = errors.New("actor not in roster for current mode")

	// ErrEmptySelection marks a recording confirmed with no actor chosen.
	ErrEmptySelection = errors.New("no actor selected")
)
