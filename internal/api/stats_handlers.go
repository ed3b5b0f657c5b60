package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())

	stats, err := s.StatsService.GetCardStats(r.Context(), student.ID, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, stats)
}
