package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fennwick/choreboard/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// okEnvelope wraps a payload in the API's success envelope. Fields merge
// at the top level next to "status".
func okEnvelope(fields map[string]any) map[string]any {
	out := map[string]any{"status": "ok"}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func writeOK(w http.ResponseWriter, fields map[string]any) {
	writeJSON(w, http.StatusOK, okEnvelope(fields))
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{"status": "error", "error": err.Error()})
}
