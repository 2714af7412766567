package httpapi

import (
	"net/http"

	"github.com/spigell/lead-scorer/internal/scoring"
	"github.com/spigell/lead-scorer/internal/session"
)

const banner = "Lead Intent Scoring API is running!"

type HealthHandler struct {
	Sessions *session.Coordinator
}

type statusResponse struct {
	Layers   []scoring.Layer `json:"layers"`
	Session  session.State   `json:"session"`
	Sessions int             `json:"sessions"`
}

func (h HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}

func (h HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(sessionID(r))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Layers:   h.Sessions.Scorer().Describe(),
		Session:  s.State(),
		Sessions: h.Sessions.Len(),
	})
}
