// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/skudd/internal/app"
	"github.com/okian/skudd/internal/domain/eventlog"
	"github.com/okian/skudd/internal/domain/export"
	"github.com/okian/skudd/internal/domain/geometry"
	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/internal/domain/stats"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	RosterDependencies

	// Idempotency guard for retried recording requests.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Recording operations.
	RecordShot(ctx context.Context, req app.ShotRequest) (model.Event, error)
	RecordTechnicalError(ctx context.Context, playerID int) (model.Event, error)

	// Session state.
	SetHalf(ctx context.Context, half int) error
	SetMode(ctx context.Context, mode string) error
	SetKeeper(ctx context.Context, playerID int) error

	// Read operations.
	PlayerStats(ctx context.Context, playerID, half int) stats.PlayerStats
	OpponentStats(ctx context.Context, opponentID, half int) stats.OpponentStats
	KeeperStats(ctx context.Context, keeperID int) stats.KeeperStats
	ShotMap(ctx context.Context, id int, role stats.Role) []model.Event
	OpponentLeaderboard(ctx context.Context, limit int) []stats.LeaderboardEntry

	// Bulk operations.
	Reset(ctx context.Context, confirm bool) error
	Export(ctx context.Context) export.Document
}

// Server wires HTTP routes for the business API.
type Server struct {
	shotsHandler       *ShotsHandler
	matchHandler       *MatchHandler
	statsHandler       *StatsHandler
	shotMapHandler     *ShotMapHandler
	leaderboardHandler *LeaderboardHandler
	sessionHandler     *SessionHandler
	rosterHandler      *RosterHandler
	healthHandler      *HealthHandler
	serviceHandler     *ServiceStatsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		shotsHandler:       NewShotsHandler(deps),
		matchHandler:       NewMatchHandler(deps),
		statsHandler:       NewStatsHandler(deps),
		shotMapHandler:     NewShotMapHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		sessionHandler:     NewSessionHandler(deps),
		rosterHandler:      NewRosterHandler(deps),
		healthHandler:      NewHealthHandler(),
		serviceHandler:     NewServiceStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.serviceHandler.HandleStats, "stats"))
	mux.HandleFunc("/shots", MetricsMiddleware(s.shotsHandler.HandlePostShot, "shots"))
	mux.HandleFunc("/technical-errors", MetricsMiddleware(s.shotsHandler.HandlePostTechnicalError, "technical_errors"))
	mux.HandleFunc("/match/half", MetricsMiddleware(s.matchHandler.HandleSetHalf, "match_half"))
	mux.HandleFunc("/match/mode", MetricsMiddleware(s.matchHandler.HandleSetMode, "match_mode"))
	mux.HandleFunc("/match/keeper", MetricsMiddleware(s.matchHandler.HandleSetKeeper, "match_keeper"))
	mux.HandleFunc("/stats/players/", MetricsMiddleware(s.statsHandler.HandlePlayerStats, "player_stats"))
	mux.HandleFunc("/stats/opponents/", MetricsMiddleware(s.statsHandler.HandleOpponentStats, "opponent_stats"))
	mux.HandleFunc("/stats/keepers/", MetricsMiddleware(s.statsHandler.HandleKeeperStats, "keeper_stats"))
	mux.HandleFunc("/shotmap/", MetricsMiddleware(s.shotMapHandler.HandleShotMap, "shotmap"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleLeaderboard, "leaderboard"))
	mux.HandleFunc("/roster/players", MetricsMiddleware(s.rosterHandler.HandlePlayers, "roster_players"))
	mux.HandleFunc("/roster/opponents", MetricsMiddleware(s.rosterHandler.HandleOpponents, "roster_opponents"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.sessionHandler.HandleReset, "reset"))
	mux.HandleFunc("/export", MetricsMiddleware(s.sessionHandler.HandleExport, "export"))
}

// shotRequest mirrors the JSON body of POST /shots.
type shotRequest struct {
	ActorID   int     `json:"actor_id"`
	Result    string  `json:"result"`
	Region    string  `json:"region"`
	Click     pointDT `json:"click"`
	Rect      rectDT  `json:"rect"`
	RequestID string  `json:"request_id"`
}

type pointDT struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rectDT struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r shotRequest) toShot() app.ShotRequest {
	return app.ShotRequest{
		ActorID: r.ActorID,
		Result:  r.Result,
		Region:  geometry.Region(r.Region),
		Click:   geometry.Point{X: r.Click.X, Y: r.Click.Y},
		Rect:    geometry.Rect{Width: r.Rect.Width, Height: r.Rect.Height},
	}
}

// technicalErrorRequest mirrors the JSON body of POST /technical-errors.
type technicalErrorRequest struct {
	PlayerID  int    `json:"player_id"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type duplicateResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeRecordingError maps the validation sentinels onto status codes.
func writeRecordingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eventlog.ErrEmptySelection):
		writeError(w, http.StatusBadRequest, "empty_selection", err)
	case errors.Is(err, eventlog.ErrInvalidActor):
		writeError(w, http.StatusUnprocessableEntity, "invalid_actor", err)
	case errors.Is(err, geometry.ErrInvalidGeometry):
		writeError(w, http.StatusBadRequest, "invalid_geometry", err)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", err)
	}
}
