package geometry

import "errors"

// Sentinel kinds for classification errors.
var (
	// ErrInvalidGeometry marks a degenerate reference rectangle or an
	// unknown subregion; no event may be recorded from such a tap.
	ErrInvalidGeometry = errors.New("invalid geometry")
)
