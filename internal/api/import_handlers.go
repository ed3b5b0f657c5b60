package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/vocab"
)

type importResponse struct {
	Queued int `json:"queued"`
}

// handleImport accepts a YAML vocabulary list as the request body and queues
// it for import. An optional tutor_id query parameter attributes the entries.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	student := studentFromContext(r.Context())

	var tutorID *int64
	if raw := r.URL.Query().Get("tutor_id"); raw != "" {
		id, err := queryInt(r, "tutor_id", 0)
		if err != nil || id == 0 {
			handleError(w, r, errors.NewBadRequestError("invalid tutor_id: "+raw))
			return
		}
		tutor, err := s.ProfileService.GetProfile(r.Context(), int64(id))
		if err != nil {
			handleError(w, r, err)
			return
		}
		if !tutor.IsTutor() {
			handleError(w, r, errors.NewValidationError("tutor_id", "profile is not a tutor"))
			return
		}
		tutorID = &tutor.ID
	}

	entries, err := vocab.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if stderrors.Is(err, vocab.ErrEmpty) {
			handleError(w, r, errors.NewValidationError("entries", "cannot be empty"))
			return
		}
		handleError(w, r, errors.NewBadRequestError("invalid vocabulary file: "+err.Error()))
		return
	}

	if err := s.ImportService.QueueImport(r.Context(), s.Jobs, student.ID, tutorID, entries); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("vocabulary import queued: entries=%d", len(entries))
	writeJSON(w, r, http.StatusAccepted, importResponse{Queued: len(entries)})
}
