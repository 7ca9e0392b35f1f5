package model

// Validate enforces the tagged-union invariants at construction and import
// time, so malformed field combinations can never enter the log.
func (e Event) Validate() error {
	if e.Half != HalfFirst && e.Half != HalfSecond {
		return ErrInvalidHalf
	}

	switch e.Mode {
	case ModeAttack:
		if e.Player == nil || e.Opponent != nil {
			return ErrInvalidActor
		}
		if e.Keeper != nil {
			return ErrInvalidKeeper
		}
		return e.validateShot()
	case ModeDefense:
		if e.Opponent == nil || e.Player != nil {
			return ErrInvalidActor
		}
		return e.validateShot()
	case ModeTechnical:
		if e.Player == nil || e.Opponent != nil || e.Keeper != nil {
			return ErrInvalidActor
		}
		if e.Result != ResultTechnicalError || e.Zone != "" || e.Position != nil {
			return ErrInvalidResult
		}
		return nil
	}
	return ErrInvalidMode
}

func (e Event) validateShot() error {
	switch e.Zone {
	case ZoneOutside:
		// Outside shots are always misses and carry no position.
		if e.Result != ResultMiss || e.Position != nil {
			return ErrInvalidPosition
		}
	case ZoneGoal:
		p := e.Position
		if p == nil || p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			return ErrInvalidPosition
		}
	default:
		return ErrInvalidPosition
	}

	switch e.Result {
	case ResultGoal, ResultSave, ResultMiss:
		return nil
	}
	return ErrInvalidResult
}
