package handler

import (
	"encoding/json"
	"net/http"

	"zip-gate/internal/model"
	"zip-gate/internal/service"
	"zip-gate/internal/token"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionCookie is the name of the shopper session cookie.
const SessionCookie = "zg_session"

// CheckHandler handles public availability check HTTP requests.
type CheckHandler struct {
	service service.CheckService
	tokens  *token.Manager
	logger  zerolog.Logger
}

// NewCheckHandler creates a new check handler.
func NewCheckHandler(service service.CheckService, tokens *token.Manager, logger zerolog.Logger) *CheckHandler {
	return &CheckHandler{
		service: service,
		tokens:  tokens,
		logger:  logger.With().Str("handler", "check").Logger(),
	}
}

// Token handles GET /api/v1/check/token requests. It establishes the shopper
// session if needed and issues a short-lived token bound to it.
func (h *CheckHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	sessionID := h.ensureSession(w, r)

	tok, err := h.tokens.Issue(sessionID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: tok})
}

// Check handles POST /api/v1/check requests.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req model.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid request body", h.logger)
		return
	}

	sessionID := h.ensureSession(w, r)

	if err := h.tokens.Verify(req.Token, sessionID); err != nil {
		writeDomainError(w, model.ErrInvalidToken, h.logger)
		return
	}

	resp, err := h.service.Check(r.Context(), sessionID, req.ZipCode, req.ProductID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /api/v1/check/status requests. It reports the outcome of
// the most recent check recorded for the shopper session.
func (h *CheckHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		writeDomainError(w, model.ErrNoCheckRecorded, h.logger)
		return
	}

	result, ok := h.service.LastResult(cookie.Value)
	if !ok {
		writeDomainError(w, model.ErrNoCheckRecorded, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ensureSession returns the shopper session ID from the request cookie,
// minting a fresh one and setting the cookie when absent.
func (h *CheckHandler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
