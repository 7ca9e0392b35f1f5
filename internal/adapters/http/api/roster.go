// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/skudd/internal/domain/model"
)

// RosterDependencies is the roster management surface. Roster editing is
// plumbing around the core; entries are referenced by events afterwards
// and never mutated.
type RosterDependencies interface {
	AddPlayer(ctx context.Context, name string, number int, isKeeper bool) model.Player
	AddOpponent(ctx context.Context, name string, number int) model.Opponent
	Players(ctx context.Context) []model.Player
	Opponents(ctx context.Context) []model.Opponent
}

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

type playerRequest struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	IsKeeper bool   `json:"isKeeper"`
}

type opponentRequest struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// HandlePlayers handles GET and POST /roster/players requests.
func (h *RosterHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
	case http.MethodPost:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, h.deps.AddPlayer(r.Context(), req.Name, req.Number, req.IsKeeper))
	default:
		http.NotFound(w, r)
	}
}

// HandleOpponents handles GET and POST /roster/opponents requests.
func (h *RosterHandler) HandleOpponents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Opponents(r.Context()))
	case http.MethodPost:
		var req opponentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, h.deps.AddOpponent(r.Context(), req.Name, req.Number))
	default:
		http.NotFound(w, r)
	}
}
