// Package eventlog defines the append-only event log and its in-memory
// implementation. Construction and append are a single atomic step: either
// a fully valid event enters the log, or nothing does.
package eventlog

import (
	"context"

	"github.com/okian/skudd/internal/domain/model"
)

// ShotInput is the fully resolved tuple for one shot recording. The UI
// drives its own pick-zone/pick-result/pick-actor flow; by the time the
// log is called everything must be decided.
type ShotInput struct {
	ActorID  int
	Result   model.Result
	Zone     model.Zone
	Position *model.Position // nil for outside-zone shots
}

// Rosters is the lookup surface the log needs for actor validation.
type Rosters interface {
	Player(ctx context.Context, id int) (model.Player, bool)
	Opponent(ctx context.Context, id int) (model.Opponent, bool)
}

// Log provides append and read access to the recorded events.
type Log interface {
	// RecordShot validates in against the roster implied by the context
	// mode (home roster for attack, opposing roster for defense),
	// constructs the event and appends it.
	RecordShot(ctx context.Context, in ShotInput, mctx model.MatchContext) (model.Event, error)

	// RecordTechnicalError records a technical-mode event for a home
	// player: always result "teknisk feil", no zone, position or keeper.
	RecordTechnicalError(ctx context.Context, playerID int, mctx model.MatchContext) (model.Event, error)

	// All returns the events in insertion order.
	All(ctx context.Context) []model.Event

	// Len returns the number of recorded events.
	Len(ctx context.Context) int

	// Reset irreversibly replaces the whole log with an empty one.
	// Confirmation is the caller's responsibility.
	Reset(ctx context.Context)

	// Restore replaces the log contents with previously exported events.
	// Each event is re-validated; the id counter continues past the
	// highest restored id.
	Restore(ctx context.Context, events []model.Event) error
}
