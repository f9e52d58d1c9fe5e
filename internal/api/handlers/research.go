package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/pkg/logger"
)

const maxListLimit = 500

// ResearchHandler runs and serves research sessions
type ResearchHandler struct {
	orchestrator *research.Orchestrator
	logger       *logger.Logger
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(o *research.Orchestrator, log *logger.Logger) *ResearchHandler {
	return &ResearchHandler{
		orchestrator: o,
		logger:       log,
	}
}

// Run executes a research session
// POST /api/research
func (h *ResearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req research.Request
	if !decode(w, r, &req) {
		return
	}
	req.Source = "api"

	session, err := h.orchestrator.Run(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "run research")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// Get returns a stored session
// GET /api/research/{id}
func (h *ResearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.orchestrator.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "load research session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// List returns recent session summaries
// GET /api/research?limit=N
func (h *ResearchHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxListLimit {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "limit must be an integer in [0, 500]",
				FieldError{Field: "limit", Message: "invalid value " + strconv.Quote(v)})
			return
		}
		limit = n
	}

	sessions, err := h.orchestrator.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list research sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}
