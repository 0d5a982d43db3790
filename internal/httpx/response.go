package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"restaurant-staffing/internal/apperror"
	"restaurant-staffing/internal/logger"
)

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// StatusFor maps an error code to an HTTP status
func StatusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes not_found and bad_request errors with their
// literal message and hides everything else behind a logged 500
func WriteServiceError(w http.ResponseWriter, log *logger.Logger, action string, err error, requestID string) {
	code := apperror.GetCode(err)
	status := StatusFor(code)

	if status == http.StatusInternalServerError {
		log.Error(action, "Internal error while handling request", requestID, err, nil)
		WriteError(w, status, "Internal server error", requestID)
		return
	}

	log.Debug(action, err.Error(), requestID, map[string]interface{}{
		"code": string(code),
	})
	WriteError(w, status, err.Error(), requestID)
}
