// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/skudd/internal/app"
	"github.com/okian/skudd/internal/domain/eventlog"
	"github.com/okian/skudd/internal/domain/model"
)

// MatchHandler mutates the session state parameterizing new events.
type MatchHandler struct {
	deps Dependencies
}

// NewMatchHandler creates a new match-state handler.
func NewMatchHandler(deps Dependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

type halfRequest struct {
	Half int `json:"half"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type keeperRequest struct {
	PlayerID int `json:"player_id"`
}

// HandleSetHalf handles POST /match/half requests.
func (h *MatchHandler) HandleSetHalf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req halfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetHalf(r.Context(), req.Half); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"half": req.Half})
}

// HandleSetMode handles POST /match/mode requests. Accepted values are the
// stored tags and their English aliases.
func (h *MatchHandler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetMode(r.Context(), req.Mode); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	mode, _ := model.NormalizeMode(req.Mode)
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

// HandleSetKeeper handles POST /match/keeper requests; player_id 0 clears
// the active keeper.
func (h *MatchHandler) HandleSetKeeper(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req keeperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetKeeper(r.Context(), req.PlayerID); err != nil {
		switch {
		case errors.Is(err, eventlog.ErrInvalidActor):
			writeError(w, http.StatusUnprocessableEntity, "invalid_actor", err)
		case errors.Is(err, app.ErrNotAKeeper):
			writeError(w, http.StatusUnprocessableEntity, "not_a_keeper", err)
		default:
			writeError(w, http.StatusBadRequest, "bad_request", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"keeper": req.PlayerID})
}
