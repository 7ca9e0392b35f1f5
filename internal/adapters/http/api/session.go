// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/skudd/internal/app"
)

// SessionHandler serves the bulk session operations: reset and export.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// HandleReset handles POST /reset requests. The whole-log replace is
// irreversible, so the body must carry confirm:true.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.Reset(r.Context(), req.Confirm); err != nil {
		if errors.Is(err, app.ErrResetNotConfirmed) {
			writeError(w, http.StatusConflict, "not_confirmed", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// HandleExport handles GET /export requests, serving the snapshot document
// as a download.
func (h *SessionHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	doc := h.deps.Export(r.Context())
	w.Header().Set("Content-Disposition", `attachment; filename="kampdata.json"`)
	writeJSON(w, http.StatusOK, doc)
}
