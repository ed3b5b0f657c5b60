package api

import (
	"net/http"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

type logMistakeResponse struct {
	Mistake *models.Mistake `json:"mistake"`
	Card    *models.Card    `json:"card"`
}

func (s *Server) handleLogMistake(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	student := studentFromContext(r.Context())

	var input models.MistakeInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	input.StudentID = student.ID

	m, c, err := s.MistakeService.LogMistake(r.Context(), input, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("mistake logged: mistake_id=%d, card_id=%s", m.ID, c.ID)
	writeJSON(w, r, http.StatusCreated, logMistakeResponse{Mistake: m, Card: c})
}

func (s *Server) handleMistakes(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())

	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	mistakes, err := s.MistakeService.ListMistakes(r.Context(), student.ID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if mistakes == nil {
		mistakes = []models.Mistake{}
	}

	writeJSON(w, r, http.StatusOK, mistakes)
}

func (s *Server) handleDeleteMistake(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	mistakeID, err := int64Param(r, "mistakeID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.MistakeService.DeleteMistake(r.Context(), student.ID, mistakeID); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
