package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"productlist/internal/middleware"
	"productlist/internal/model"

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

// writeError writes an ErrorResponse with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).Str("message", message).Int("status", status).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps a service error to its status code. Store failures
// and unexpected errors are reported without their internal detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status := statusFor(err)
	code := model.ErrorCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
		message = "failed to process request"
		if code == model.ErrCodeRepositoryFailure {
			message = model.ErrRepositoryFailure.Message
		}
	}

	writeError(w, r, status, code, message, logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidIdentifier),
		errors.Is(err, model.ErrInvalidPage),
		errors.Is(err, model.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
