// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/skudd/internal/domain/stats"
)

// ShotMapHandler serves the spatial shot sequences used for rendering.
type ShotMapHandler struct {
	deps Dependencies
}

// NewShotMapHandler creates a new shot map handler.
func NewShotMapHandler(deps Dependencies) *ShotMapHandler {
	return &ShotMapHandler{deps: deps}
}

// HandleShotMap handles GET /shotmap/{role}/{id} requests, where role is
// player, opponent or keeper.
func (h *ShotMapHandler) HandleShotMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/shotmap/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var role stats.Role
	switch parts[0] {
	case string(stats.RolePlayer):
		role = stats.RolePlayer
	case string(stats.RoleOpponent):
		role = stats.RoleOpponent
	case string(stats.RoleKeeper):
		role = stats.RoleKeeper
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ShotMap(r.Context(), id, role))
}
