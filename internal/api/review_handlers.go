package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

type cardListResponse struct {
	Cards []models.CardWithMistake `json:"cards"`
	Total int                      `json:"total"`
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	q := r.URL.Query()

	filter := models.CardFilter{
		StudentID: student.ID,
		Term:      q.Get("term"),
		OrderBy:   q.Get("order_by"),
		OrderDir:  q.Get("order_dir"),
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", 50); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Lapsed, err = queryBool(r, "lapsed"); err != nil {
		handleError(w, r, err)
		return
	}
	due, err := queryBool(r, "due")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if due {
		now := s.now()
		filter.DueBefore = &now
	}

	cards, total, err := s.ReviewService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.CardWithMistake{}
	}

	writeJSON(w, r, http.StatusOK, cardListResponse{Cards: cards, Total: total})
}

func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	student := studentFromContext(r.Context())

	card, err := s.ReviewService.NextCard(r.Context(), student.ID, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	if card == nil {
		log.Debug("no cards due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.ReviewService.DueCards(r.Context(), student.ID, s.now(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.CardWithMistake{}
	}

	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	student := studentFromContext(r.Context())

	var input models.ReviewInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	input.CardID = chi.URLParam(r, "cardID")
	input.StudentID = student.ID

	log = log.WithFields(map[string]any{
		"card_id":      input.CardID,
		"grade":        input.Grade.String(),
		"time_seconds": input.TimeSeconds,
	})
	log.Debug("reviewing card")

	card, err := s.ReviewService.ReviewCard(r.Context(), input, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed, next review in %d days (%s)", card.IntervalDays, card.DueAt.Format(time.RFC3339))
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logs, err := s.ReviewService.History(r.Context(), chi.URLParam(r, "cardID"), student.ID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.ReviewLog{}
	}

	writeJSON(w, r, http.StatusOK, logs)
}
