package app

import "errors"

// Sentinel kinds for session-state operations.
var (
	// ErrResetNotConfirmed gates the irreversible whole-log reset.
	ErrResetNotConfirmed = errors.New("reset requires explicit confirmation")

	// ErrUnknownMode marks a session mode outside {attack, defense}.
	ErrUnknownMode = errors.New("session mode must be attack or defense")

	// ErrNotAKeeper marks an active-keeper assignment to a player not
	// flagged as keeper.
	ErrNotAKeeper = errors.New("player is not a keeper")
)
