package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"zip-gate/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto the wire. Domain errors carry
// their own status and code; anything else is reported as a 500 without
// leaking internals.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		logger.Warn().
			Str("code", domainErr.Code).
			Int("status", domainErr.Status).
			Msg(domainErr.Message)
		writeJSON(w, domainErr.Status, model.ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
			Field:   domainErr.Field,
		})
		return
	}

	logger.Error().Err(err).Msg("unexpected handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "An unexpected error occurred.",
	})
}
