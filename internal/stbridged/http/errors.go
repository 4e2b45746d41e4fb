package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// errorResponse is the JSON body for all error responses
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a domain error onto an HTTP status and JSON body
func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	message := "an unexpected error occurred"

	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		code = "BOX_NOT_FOUND"
		message = "box not found"

	case errors.IsInvalidInput(err):
		status = http.StatusBadRequest
		code = "INVALID_INPUT"
		message = err.Error()

	case errors.IsChannelUnknown(err):
		status = http.StatusBadRequest
		code = "CHANNEL_UNKNOWN"
		message = "channel not in lineup"

	case errors.IsNotConnected(err):
		status = http.StatusServiceUnavailable
		code = "BROKER_UNAVAILABLE"
		message = "broker connection unavailable"
	}

	if status >= 500 {
		logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message}); encodeErr != nil {
		logger.Error("failed to write error response",
			"error", encodeErr,
			"originalError", err,
		)
	}
}
