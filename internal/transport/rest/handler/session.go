package handler

import (
	"checkin/internal/live"
	"checkin/internal/model"
	"checkin/internal/service"
	"checkin/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const defaultHistoryLimit = 10

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	querySvc   *service.QueryService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, querySvc *service.QueryService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		querySvc:   querySvc,
	}
}

// Start handles POST /v1/sessions
// @Summary Start a session
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.StartSessionRequest true "target headcount"
// @Success 201 {object} model.Session
// @Router /sessions [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.StartSession(r.Context(), middleware.GetIdentity(r.Context()), req.RequiredContacts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// End handles POST /v1/sessions/active/end
// @Summary End the active session
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.EndSessionRequest true "session the admin is looking at"
// @Success 200 {object} model.Session
// @Router /sessions/active/end [post]
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req model.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.EndSession(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Active handles GET /v1/sessions/active
// @Summary Active session state
// @Produce json
// @Success 200 {object} live.SessionState
// @Router /sessions/active [get]
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	session, err := h.querySvc.ActiveSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, live.DeriveSessionState(session))
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > service.MaxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	sessions, err := h.querySvc.RecentSessions(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, live.DeriveHistory(sessions))
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.querySvc.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, session)
}
