package handler

import (
	"checkin/internal/iplookup"
	"checkin/internal/live"
	"checkin/internal/model"
	"checkin/internal/service"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// ParticipantHandler handles registration and participant lists
type ParticipantHandler struct {
	registrarSvc *service.RegistrarService
	querySvc     *service.QueryService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(registrarSvc *service.RegistrarService, querySvc *service.QueryService) *ParticipantHandler {
	return &ParticipantHandler{
		registrarSvc: registrarSvc,
		querySvc:     querySvc,
	}
}

// Register handles POST /v1/sessions/{id}/participants
// @Summary Register for a session
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body model.RegisterRequest true "attendee"
// @Success 201 {object} live.ParticipantRow
// @Router /sessions/{id}/participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := iplookup.WithClientIP(r.Context(), iplookup.ClientIPFromRequest(r))
	p, err := h.registrarSvc.Register(ctx, sessionID, req.Name, req.Phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The attendee gets their own row back without the stored address
	writeJSON(w, http.StatusCreated, live.ParticipantRow{
		ID:       p.ID,
		Name:     p.Name,
		Phone:    p.Phone,
		JoinedAt: p.JoinedAt,
	})
}

// List handles GET /v1/sessions/{id}/participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.querySvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	participants, err := h.querySvc.Participants(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, live.DeriveParticipantsState(session, participants, live.RoleAdmin))
}
