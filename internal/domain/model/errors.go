package model

import "errors"

// Sentinel kinds for event construction and import validation.
var (
	ErrInvalidHalf     = errors.New("half must be 1 or 2")
	ErrInvalidMode     = errors.New("unknown recording mode")
	ErrInvalidResult   = errors.New("unknown result")
	ErrInvalidActor    = errors.New("event must reference exactly one actor")
	ErrInvalidKeeper   = errors.New("keeper is only valid in defense mode")
	ErrInvalidPosition = errors.New("position must be present with coordinates in [0,100] for goal-zone shots")
)
