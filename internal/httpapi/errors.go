package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spigell/lead-scorer/internal/session"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeSessionError maps session error categories onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	var collab *session.CollaboratorError

	switch {
	case errors.Is(err, session.ErrValidation):
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, session.ErrPrecondition):
		WriteError(w, r, http.StatusBadRequest, "precondition_failed", err.Error())
	case errors.As(err, &collab):
		WriteError(w, r, http.StatusInternalServerError, "collaborator_error", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
