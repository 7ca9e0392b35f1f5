// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// ShotsHandler handles the two recording endpoints.
type ShotsHandler struct {
	deps Dependencies
}

// NewShotsHandler creates a new recording handler.
func NewShotsHandler(deps Dependencies) *ShotsHandler {
	return &ShotsHandler{deps: deps}
}

// HandlePostShot handles POST /shots requests. The body carries the fully
// resolved recording tuple; classification and append happen server-side
// as one atomic call.
func (h *ShotsHandler) HandlePostShot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req shotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Optional retry protection: a request_id already seen means the
	// original append succeeded and must not repeat.
	if req.RequestID != "" && h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, duplicateResponse{Status: "duplicate", Duplicate: true})
		return
	}

	e, err := h.deps.RecordShot(r.Context(), req.toShot())
	if err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeRecordingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandlePostTechnicalError handles POST /technical-errors requests.
func (h *ShotsHandler) HandlePostTechnicalError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req technicalErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if req.RequestID != "" && h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, duplicateResponse{Status: "duplicate", Duplicate: true})
		return
	}

	e, err := h.deps.RecordTechnicalError(r.Context(), req.PlayerID)
	if err != nil {
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeRecordingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}
