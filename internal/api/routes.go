package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/vocabflash/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Get("/{id}", s.handleGetProfile)
			r.Delete("/{id}", s.handleDeleteProfile)
		})

		r.Route("/students/{id}", func(r chi.Router) {
			r.Use(s.studentMiddleware)

			r.Get("/mistakes", s.handleMistakes)
			r.Post("/mistakes", s.handleLogMistake)
			r.Delete("/mistakes/{mistakeID}", s.handleDeleteMistake)
			r.Post("/imports", s.handleImport)

			r.Get("/cards", s.handleCards)
			r.Post("/cards/{cardID}/review", s.handleReviewCard)
			r.Get("/cards/{cardID}/history", s.handleCardHistory)

			r.Get("/reviews/next", s.handleNextCard)
			r.Get("/reviews/due", s.handleDueCards)

			r.Get("/stats", s.handleStats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
