// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/skudd/internal/domain/model"
)

// StatsHandler serves the per-entity aggregations.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new statistics handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandlePlayerStats handles GET /stats/players/{id}?half=N requests.
func (h *StatsHandler) HandlePlayerStats(w http.ResponseWriter, r *http.Request) {
	id, half, ok := statsParams(w, r, "/stats/players/")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PlayerStats(r.Context(), id, half))
}

// HandleOpponentStats handles GET /stats/opponents/{id}?half=N requests.
func (h *StatsHandler) HandleOpponentStats(w http.ResponseWriter, r *http.Request) {
	id, half, ok := statsParams(w, r, "/stats/opponents/")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.OpponentStats(r.Context(), id, half))
}

// HandleKeeperStats handles GET /stats/keepers/{id} requests.
func (h *StatsHandler) HandleKeeperStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathID(w, r, "/stats/keepers/")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.KeeperStats(r.Context(), id))
}

// statsParams extracts the path id and the optional half filter.
func statsParams(w http.ResponseWriter, r *http.Request, prefix string) (id, half int, ok bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return 0, 0, false
	}
	id, ok = pathID(w, r, prefix)
	if !ok {
		return 0, 0, false
	}
	half = model.HalfBoth
	if v := r.URL.Query().Get("half"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != model.HalfFirst && n != model.HalfSecond) {
			writeError(w, http.StatusBadRequest, "bad_request", model.ErrInvalidHalf)
			return 0, 0, false
		}
		half = n
	}
	return id, half, true
}

// pathID parses the numeric id after prefix.
func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return 0, false
	}
	return id, true
}
