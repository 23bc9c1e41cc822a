package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/history"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/schema"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Warnw("writeJSON encode error", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// parseUUID extracts and validates a UUID path parameter.
func parseUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

// classify maps a domain error to an HTTP status and error code.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, schema.ErrMalformed),
		errors.Is(err, schema.ErrMissingSchema),
		errors.Is(err, schema.ErrMissingNaming):
		return http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, artifact.ErrUnknownKind):
		return http.StatusBadRequest, "UNKNOWN_KIND"
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "TOO_LARGE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// errorToHTTP writes the response for err. Internal errors are logged and
// their text is not exposed.
func errorToHTTP(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logger.Get().Errorw("internal error", "error", err)
		writeError(w, status, code, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}
