package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/okian/skudd/internal/domain/model"
)

// timestampLayout is the wall-clock display label attached to each event.
// It is never used for ordering.
const timestampLayout = "15:04:05"

// Option applies a configuration option to the MemoryLog.
type Option func(*MemoryLog)

// WithClock overrides the wall clock, used by tests for stable timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLog) {
		if now != nil {
			l.now = now
		}
	}
}

// MemoryLog implements Log with an in-memory append-only slice.
//
// The recording session is logically single-writer; the mutex is the
// append-ordering arbitration required when the log is driven through the
// HTTP surface.
type MemoryLog struct {
	mu      sync.RWMutex
	rosters Rosters
	events  []model.Event
	nextID  int64
	now     func() time.Time
}

// New creates an empty log bound to the given rosters.
func New(rosters Rosters, opts ...Option) *MemoryLog {
	l := &MemoryLog{
		rosters: rosters,
		nextID:  1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordShot validates, constructs and appends a shot event in one atomic
// step under the log's lock.
func (l *MemoryLog) RecordShot(ctx context.Context, in ShotInput, mctx model.MatchContext) (model.Event, error) {
	if in.ActorID <= 0 {
		return model.Event{}, ErrEmptySelection
	}

	e := model.Event{
		Half:     mctx.Half,
		Mode:     mctx.Mode,
		Zone:     in.Zone,
		Position: in.Position,
		Result:   in.Result,
	}

	switch mctx.Mode {
	case model.ModeAttack:
		p, ok := l.rosters.Player(ctx, in.ActorID)
		if !ok {
			return model.Event{}, ErrInvalidActor
		}
		e.Player = p.Ref()
	case model.ModeDefense:
		o, ok := l.rosters.Opponent(ctx, in.ActorID)
		if !ok {
			return model.Event{}, ErrInvalidActor
		}
		e.Opponent = o.Ref()
		e.Keeper = mctx.Keeper
	default:
		return model.Event{}, model.ErrInvalidMode
	}

	// Outside shots are misses no matter what the caller picked upstream.
	if in.Zone == model.ZoneOutside {
		e.Result = model.ResultMiss
		e.Position = nil
	}

	return l.append(e)
}

// RecordTechnicalError validates, constructs and appends a technical-mode
// event for a home player.
func (l *MemoryLog) RecordTechnicalError(ctx context.Context, playerID int, mctx model.MatchContext) (model.Event, error) {
	if playerID <= 0 {
		return model.Event{}, ErrEmptySelection
	}
	p, ok := l.rosters.Player(ctx, playerID)
	if !ok {
		return model.Event{}, ErrInvalidActor
	}

	e := model.Event{
		Half:   mctx.Half,
		Mode:   model.ModeTechnical,
		Player: p.Ref(),
		Result: model.ResultTechnicalError,
	}
	return l.append(e)
}

// append assigns id and timestamp, validates the finished event and stores
// it. Nothing is appended on validation failure.
func (l *MemoryLog) append(e model.Event) (model.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.ID = l.nextID
	e.Timestamp = l.now().Format(timestampLayout)
	if err := e.Validate(); err != nil {
		return model.Event{}, err
	}
	l.nextID++
	l.events = append(l.events, e)
	return e, nil
}

// All returns a copy of the events in insertion order.
func (l *MemoryLog) All(ctx context.Context) []model.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the current number of recorded events.
func (l *MemoryLog) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Reset clears the whole log. The id counter restarts too: a reset is a
// new recording session.
func (l *MemoryLog) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	l.nextID = 1
}

// Restore replaces the log with previously exported events, re-validating
// each one. On the first invalid event nothing is replaced.
func (l *MemoryLog) Restore(ctx context.Context, events []model.Event) error {
	restored := make([]model.Event, len(events))
	copy(restored, events)
	var maxID int64
	for _, e := range restored {
		if err := e.Validate(); err != nil {
			return err
		}
		if e.ID > maxID {
			maxID = e.ID
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = restored
	l.nextID = maxID + 1
	return nil
}
