// Package app provides the core business service wiring the domain
// packages and adapters together behind the surface the HTTP API needs.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/okian/skudd/internal/adapters/audit"
	"github.com/okian/skudd/internal/adapters/ws"
	"github.com/okian/skudd/internal/domain/dedupe"
	"github.com/okian/skudd/internal/domain/eventlog"
	"github.com/okian/skudd/internal/domain/export"
	"github.com/okian/skudd/internal/domain/geometry"
	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/internal/domain/roster"
	"github.com/okian/skudd/internal/domain/stats"
	"github.com/okian/skudd/pkg/logger"
	"github.com/okian/skudd/pkg/metrics"
)

// Service owns one recording session: the rosters, the event log, the
// match context and the outbound collaborators (audit, live updates).
type Service struct {
	mu sync.RWMutex

	// Core components
	roster *roster.Store
	log    eventlog.Log
	mapper *geometry.Mapper
	guard  dedupe.Guard

	// Collaborators; both are fire-and-forget
	audit *audit.Pipeline
	hub   *ws.Hub

	// Session state parameterizing new events
	homeTeam string
	awayTeam string
	half     int
	mode     model.Mode
	keeper   *model.ActorRef

	// Configuration
	frameInset       float64
	dedupeSize       int
	auditSink        audit.Sink
	auditQueueSize   int
	auditWorkerCount int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTeams names the two sides of the session.
func WithTeams(home, away string) Option {
	return func(s *Service) {
		if home != "" {
			s.homeTeam = home
		}
		if away != "" {
			s.awayTeam = away
		}
	}
}

// WithFrameInset sets the goal-frame border thickness for the mapper.
func WithFrameInset(inset float64) Option {
	return func(s *Service) {
		if inset >= 0 {
			s.frameInset = inset
		}
	}
}

// WithDedupeSize bounds the request-idempotency guard.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithAuditSink sets the audit collaborator.
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.auditSink = sink
		}
	}
}

// WithAuditQueue configures the audit pipeline bounds.
func WithAuditQueue(size, workers int) Option {
	return func(s *Service) {
		if size > 0 {
			s.auditQueueSize = size
		}
		if workers > 0 {
			s.auditWorkerCount = workers
		}
	}
}

// WithHub attaches the live-update broadcaster.
func WithHub(hub *ws.Hub) Option {
	return func(s *Service) {
		s.hub = hub
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		homeTeam:         "Hjemmelag",
		awayTeam:         "Bortelag",
		half:             model.HalfFirst,
		mode:             model.ModeAttack,
		frameInset:       geometry.DefaultFrameInset,
		dedupeSize:       10_000,
		auditSink:        audit.NoopSink{},
		auditQueueSize:   1024,
		auditWorkerCount: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the session components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.roster = roster.New()
	s.log = eventlog.New(s.roster)
	s.mapper = geometry.NewMapper(geometry.WithFrameInset(s.frameInset))
	s.guard = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.audit = audit.NewPipeline(s.auditSink,
		audit.WithQueueSize(s.auditQueueSize),
		audit.WithWorkerCount(s.auditWorkerCount),
		audit.WithLogger(s.logger.Named("audit")),
	)
	s.audit.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recording session started",
		logger.String("homeTeam", s.homeTeam),
		logger.String("awayTeam", s.awayTeam),
	)
	return nil
}

// Stop shuts the session down, draining the audit queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.audit.Stop()
	s.started = false
	s.logger.Info(context.Background(), "recording session stopped")
}

// --- Roster management ---

// AddPlayer appends a home player.
func (s *Service) AddPlayer(ctx context.Context, name string, number int, isKeeper bool) model.Player {
	return s.roster.AddPlayer(ctx, name, number, isKeeper)
}

// AddOpponent appends an opposing player.
func (s *Service) AddOpponent(ctx context.Context, name string, number int) model.Opponent {
	return s.roster.AddOpponent(ctx, name, number)
}

// Players returns the home roster.
func (s *Service) Players(ctx context.Context) []model.Player {
	return s.roster.Players(ctx)
}

// Opponents returns the opposing roster.
func (s *Service) Opponents(ctx context.Context) []model.Opponent {
	return s.roster.Opponents(ctx)
}

// --- Session state ---

// SetHalf switches the active half.
func (s *Service) SetHalf(ctx context.Context, half int) error {
	if half != model.HalfFirst && half != model.HalfSecond {
		return model.ErrInvalidHalf
	}
	s.mu.Lock()
	s.half = half
	s.mu.Unlock()
	s.logger.Info(ctx, "half changed", logger.Int("half", half))
	return nil
}

// SetMode switches the recording context between attack and defense.
// Technical errors are recorded through their own call and are not a
// session mode.
func (s *Service) SetMode(ctx context.Context, raw string) error {
	mode, ok := model.NormalizeMode(raw)
	if !ok || mode == model.ModeTechnical {
		return ErrUnknownMode
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	s.logger.Info(ctx, "mode changed", logger.String("mode", string(mode)))
	return nil
}

// SetKeeper designates the active keeper; id 0 clears the designation.
func (s *Service) SetKeeper(ctx context.Context, playerID int) error {
	if playerID == 0 {
		s.mu.Lock()
		s.keeper = nil
		s.mu.Unlock()
		return nil
	}
	p, ok := s.roster.Player(ctx, playerID)
	if !ok {
		return eventlog.ErrInvalidActor
	}
	if !p.IsKeeper {
		return ErrNotAKeeper
	}
	s.mu.Lock()
	s.keeper = p.Ref()
	s.mu.Unlock()
	s.logger.Info(ctx, "active keeper changed", logger.Int("player", playerID))
	return nil
}

// Snapshot returns the immutable per-call match context.
func (s *Service) Snapshot() model.MatchContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.MatchContext{
		HomeTeam: s.homeTeam,
		AwayTeam: s.awayTeam,
		Half:     s.half,
		Mode:     s.mode,
		Keeper:   s.keeper,
	}
}

// --- Recording ---

// ShotRequest is the fully resolved recording tuple arriving from the UI:
// who shot, what happened, and where the tap landed.
type ShotRequest struct {
	ActorID int
	Result  string
	Region  geometry.Region
	Click   geometry.Point
	Rect    geometry.Rect
}

// RecordShot classifies the tap and appends one shot event atomically,
// then notifies the audit and live-update collaborators. Collaborator
// failures never fail the recording.
func (s *Service) RecordShot(ctx context.Context, req ShotRequest) (model.Event, error) {
	result, ok := model.NormalizeResult(req.Result)
	if !ok {
		metrics.RecordRejection("result")
		return model.Event{}, model.ErrInvalidResult
	}

	shot, err := s.mapper.Classify(req.Click, req.Rect, req.Region)
	if err != nil {
		metrics.RecordRejection("geometry")
		return model.Event{}, err
	}

	in := eventlog.ShotInput{
		ActorID: req.ActorID,
		Result:  result,
		Zone:    shot.Zone,
	}
	if shot.Zone == model.ZoneGoal {
		in.Position = &model.Position{X: shot.X, Y: shot.Y}
	}

	e, err := s.log.RecordShot(ctx, in, s.Snapshot())
	if err != nil {
		metrics.RecordRejection("validation")
		return model.Event{}, err
	}
	s.afterAppend(ctx, e)
	return e, nil
}

// RecordTechnicalError appends one technical-error event for a home player.
func (s *Service) RecordTechnicalError(ctx context.Context, playerID int) (model.Event, error) {
	e, err := s.log.RecordTechnicalError(ctx, playerID, s.Snapshot())
	if err != nil {
		metrics.RecordRejection("validation")
		return model.Event{}, err
	}
	s.afterAppend(ctx, e)
	return e, nil
}

// afterAppend fans a successful append out to metrics, audit and the live
// hub. Nothing here may return an error to the recording call.
func (s *Service) afterAppend(ctx context.Context, e model.Event) {
	metrics.RecordEvent(string(e.Mode), string(e.Result))
	metrics.UpdateLogSize(s.log.Len(ctx))

	home, away := s.score(ctx)
	s.audit.Enqueue(ctx, audit.NewRecord(e, audit.Totals{
		HomeGoals:  home,
		AwayGoals:  away,
		EventCount: s.log.Len(ctx),
	}))
	if s.hub != nil {
		s.hub.Broadcast(ws.Update{
			Type:      "event_recorded",
			Event:     e,
			HomeGoals: home,
			AwayGoals: away,
			Timestamp: time.Now().UTC(),
		})
	}

	s.logger.Debug(ctx, "event recorded",
		logger.Int64("id", e.ID),
		logger.String("mode", string(e.Mode)),
		logger.String("result", string(e.Result)),
		logger.Int("half", e.Half),
	)
}

// score derives the current score line: home goals from attack events,
// away goals from defense events.
func (s *Service) score(ctx context.Context) (home, away int) {
	for _, e := range s.log.All(ctx) {
		if e.Result != model.ResultGoal {
			continue
		}
		switch e.Mode {
		case model.ModeAttack:
			home++
		case model.ModeDefense:
			away++
		}
	}
	return home, away
}

// --- Statistics ---

// PlayerStats aggregates one home player, optionally per half.
func (s *Service) PlayerStats(ctx context.Context, playerID, half int) stats.PlayerStats {
	return stats.ForPlayer(s.log.All(ctx), playerID, half)
}

// OpponentStats aggregates one opposing shooter, optionally per half.
func (s *Service) OpponentStats(ctx context.Context, opponentID, half int) stats.OpponentStats {
	return stats.ForOpponent(s.log.All(ctx), opponentID, half)
}

// KeeperStats aggregates shots faced by one keeper.
func (s *Service) KeeperStats(ctx context.Context, keeperID int) stats.KeeperStats {
	return stats.ForKeeper(s.log.All(ctx), keeperID)
}

// ShotMap returns the goal-zone events for one actor in one role.
func (s *Service) ShotMap(ctx context.Context, id int, role stats.Role) []model.Event {
	return stats.ShotMap(s.log.All(ctx), id, role)
}

// OpponentLeaderboard ranks opponents by descending goals.
func (s *Service) OpponentLeaderboard(ctx context.Context, limit int) []stats.LeaderboardEntry {
	return stats.RankOpponents(s.log.All(ctx), s.roster.Opponents(ctx), limit)
}

// --- Idempotency guard (exposed to the HTTP layer) ---

// SeenAndRecord forwards to the request-idempotency guard.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.guard.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordDuplicateRequest()
	}
	return seen
}

// Unrecord forgets a request id so a failed recording can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.guard.Unrecord(ctx, id)
}

// --- Export / reset ---

// Export snapshots the rosters and the full log into the portable document.
func (s *Service) Export(ctx context.Context) export.Document {
	s.mu.RLock()
	home, away := s.homeTeam, s.awayTeam
	s.mu.RUnlock()
	metrics.RecordExport()
	return export.Snapshot(
		s.roster.Players(ctx),
		s.roster.Opponents(ctx),
		s.log.All(ctx),
		home, away,
		time.Now(),
	)
}

// Restore replaces the session with an exported snapshot.
func (s *Service) Restore(ctx context.Context, doc export.Document) error {
	if err := s.log.Restore(ctx, doc.Events); err != nil {
		return err
	}
	s.roster.Replace(ctx, doc.Players, doc.Opponents)
	s.mu.Lock()
	s.homeTeam = doc.HomeTeam
	s.awayTeam = doc.AwayTeam
	s.mu.Unlock()
	metrics.UpdateLogSize(s.log.Len(ctx))
	s.logger.Info(ctx, "session restored from snapshot",
		logger.Int("events", len(doc.Events)),
	)
	return nil
}

// Reset irreversibly clears the whole log and returns the session to the
// first half. The confirm flag is the capability gate for the UI.
func (s *Service) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}
	s.log.Reset(ctx)
	s.mu.Lock()
	s.half = model.HalfFirst
	s.mu.Unlock()
	metrics.RecordReset()
	metrics.UpdateLogSize(0)
	s.logger.Info(ctx, "event log reset")
	return nil
}

// GetStats returns a monitoring map for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	s.mu.RLock()
	started, half, mode := s.started, s.half, s.mode
	home, away := s.homeTeam, s.awayTeam
	s.mu.RUnlock()

	st := map[string]interface{}{
		"started":  started,
		"homeTeam": home,
		"awayTeam": away,
		"half":     half,
		"mode":     string(mode),
	}
	if started {
		homeGoals, awayGoals := s.score(ctx)
		st["events"] = s.log.Len(ctx)
		st["players"] = len(s.roster.Players(ctx))
		st["opponents"] = len(s.roster.Opponents(ctx))
		st["homeGoals"] = homeGoals
		st["awayGoals"] = awayGoals
	}
	return st
}
