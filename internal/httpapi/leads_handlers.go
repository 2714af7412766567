package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/spigell/lead-scorer/internal/leads"
	"github.com/spigell/lead-scorer/internal/session"
)

const (
	defaultMaxUpload = 10 << 20
	uploadField      = "file"
)

type LeadsHandler struct {
	Sessions       *session.Coordinator
	MaxUploadBytes int64
}

func (h LeadsHandler) NewSession(w http.ResponseWriter, _ *http.Request) {
	s := h.Sessions.New()
	WriteJSON(w, http.StatusCreated, map[string]string{"session_id": s.ID()})
}

func (h LeadsHandler) SetOffer(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(sessionID(r))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	var offer leads.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid offer body: %v", err))
		return
	}

	stored, err := s.SetOffer(&offer)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Offer saved successfully",
		"offer":   stored,
	})
}

// Upload accepts a multipart form with a "file" field or a raw text/csv body.
func (h LeadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(sessionID(r))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	body, closeBody, err := uploadBody(r, limit)
	if err != nil {
		if tooLarge(err) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, "too_large", err.Error())
			return
		}
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	defer closeBody()

	count, err := s.UploadLeads(body)
	if err != nil {
		if tooLarge(err) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, "too_large", err.Error())
			return
		}
		writeSessionError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Leads uploaded successfully",
		"count":   count,
	})
}

func uploadBody(r *http.Request, limit int64) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "text/csv", "application/csv":
		return r.Body, func() {}, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, nil, fmt.Errorf("parsing upload: %w", err)
		}
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			return nil, nil, errors.New("csv file is required")
		}
		return file, func() { _ = file.Close() }, nil
	default:
		return nil, nil, errors.New("csv file is required")
	}
}

func tooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}
