// Package model contains the domain types shared between layers: rosters,
// recorded events and the per-call match context snapshot.
package model

// Mode identifies the recording context a scorer is in.
//
// The stored tags are the Norwegian strings used by existing exports and
// must be preserved verbatim; the English forms are accepted as input
// aliases by Normalize.
type Mode string

const (
	ModeAttack    Mode = "angrep"
	ModeDefense   Mode = "forsvar"
	ModeTechnical Mode = "teknisk"
)

// Result classifies the outcome of a recorded event. Tags are opaque
// strings carried over from the original export format: a miss shares the
// "utenfor" tag with the outside zone.
type Result string

const (
	ResultGoal           Result = "mål"
	ResultSave           Result = "redning"
	ResultMiss           Result = "utenfor"
	ResultTechnicalError Result = "teknisk feil"
)

// Zone classifies where a shot landed relative to the goal frame.
type Zone string

const (
	ZoneGoal    Zone = "goal"
	ZoneOutside Zone = "outside"
)

// Halves of a match. Statistics can be filtered per half; HalfBoth selects
// the whole match.
const (
	HalfFirst  = 1
	HalfSecond = 2
	HalfBoth   = 0
)

// NormalizeMode maps accepted input spellings onto the stored tags.
// Returns false for unknown values.
func NormalizeMode(s string) (Mode, bool) {
	switch s {
	case string(ModeAttack), "attack":
		return ModeAttack, true
	case string(ModeDefense), "defense":
		return ModeDefense, true
	case string(ModeTechnical), "technical":
		return ModeTechnical, true
	}
	return "", false
}

// NormalizeResult maps accepted input spellings onto the stored tags.
func NormalizeResult(s string) (Result, bool) {
	switch s {
	case string(ResultGoal), "goal":
		return ResultGoal, true
	case string(ResultSave), "save":
		return ResultSave, true
	case string(ResultMiss), "miss":
		return ResultMiss, true
	case string(ResultTechnicalError), "technical_error":
		return ResultTechnicalError, true
	}
	return "", false
}

// Player is a home-roster actor. IDs are unique within the home roster.
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	IsKeeper bool   `json:"isKeeper"`
}

// Opponent is a visiting-roster actor. IDs are unique within the
// opposing roster.
type Opponent struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// ActorRef is the lightweight actor snapshot embedded in events. Rosters
// are referenced, never mutated, so a value copy is stable.
type ActorRef struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Ref returns the embeddable snapshot of a player.
func (p Player) Ref() *ActorRef {
	return &ActorRef{ID: p.ID, Name: p.Name, Number: p.Number}
}

// Ref returns the embeddable snapshot of an opponent.
func (o Opponent) Ref() *ActorRef {
	return &ActorRef{ID: o.ID, Name: o.Name, Number: o.Number}
}

// Position is a shot location in percentage-of-goal-rectangle units, both
// coordinates in [0, 100], rounded to one decimal.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is an immutable recorded event. Events are created exactly once by
// the event log and never edited afterwards; ordering is by ID (insertion
// sequence), never by Timestamp.
//
// The field set is a tagged union keyed by Mode:
//
//	angrep:   Player set, Opponent/Keeper nil
//	forsvar:  Opponent set, Keeper optionally set, Player nil
//	teknisk:  Player set, no zone, no position, result "teknisk feil"
type Event struct {
	ID       int64     `json:"id"`
	Half     int       `json:"half"`
	Mode     Mode      `json:"mode"`
	Player   *ActorRef `json:"player"`
	Opponent *ActorRef `json:"opponent"`
	Keeper   *ActorRef `json:"keeper,omitempty"`
	Zone     Zone      `json:"zone,omitempty"`
	Position *Position `json:"position,omitempty"`
	Result   Result    `json:"result"`

	// Timestamp is a wall-clock label for display and audit only.
	Timestamp string `json:"timestamp"`
}

// MatchContext is the session state active when an event is recorded. It is
// snapshotted per recording call; events never re-read it afterwards.
type MatchContext struct {
	HomeTeam string
	AwayTeam string
	Half     int
	Mode     Mode
	Keeper   *ActorRef
}
