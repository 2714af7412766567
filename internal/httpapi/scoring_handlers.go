package httpapi

import (
	"net/http"
	"os"

	"github.com/spigell/lead-scorer/internal/session"
)

const exportFilename = "scored_results.csv"

type ScoringHandler struct {
	Sessions *session.Coordinator
}

func (h ScoringHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(sessionID(r))
	if err != nil {
		writeSessionError(w, r, err)
		return nil, false
	}
	return s, true
}

func (h ScoringHandler) Run(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	results, err := s.Run(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Scoring complete",
		"results": results,
	})
}

func (h ScoringHandler) Results(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	results, err := s.Results()
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, results)
}

func (h ScoringHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	path, err := s.Export()
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	http.ServeContent(w, r, exportFilename, info.ModTime(), f)
}

func (h ScoringHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	summary, err := s.Summarize(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"summary":     summary.Text,
		"sentToSlack": summary.Sent,
	})
}

func (h ScoringHandler) NotifyTop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	top, err := s.NotifyTop(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Posted top leads to Slack",
		"topLeads": top,
	})
}
