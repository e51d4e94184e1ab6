package handler

import (
	"checkin/internal/model"
	"checkin/internal/service"
	"checkin/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
// @Summary Admin sign-in
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "credentials"
// @Success 200 {object} model.LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /v1/auth/logout
// @Summary Admin sign-out
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.SignOut(r.Context(), middleware.GetToken(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetIdentity(r.Context()))
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Error codes let clients tell the 409 kinds apart
const (
	codeValidation = "validation"
	codeAuth       = "auth"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeDuplicate  = "duplicate"
	codeState      = "state"
	codeInternal   = "internal"
)

const retryMessage = "something went wrong, please try again"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, service.ErrValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, service.ErrAuth):
		status, code = http.StatusUnauthorized, codeAuth
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, codeConflict
	case errors.Is(err, service.ErrDuplicate):
		status, code = http.StatusConflict, codeDuplicate
	case errors.Is(err, service.ErrState):
		status, code = http.StatusConflict, codeState
	}

	message := err.Error()
	if code == codeInternal {
		log.Printf("[http] %v", err)
		message = retryMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}
