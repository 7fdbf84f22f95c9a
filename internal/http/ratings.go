package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/rating"
)

// handleAddRating records one rating for a movie and refreshes its cached
// average. The movie is also marked seen for the rater, best effort.
func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	var req struct {
		Rating *float64 `json:"rating"`
	}
	if err := decodeJSONBody(w, r, &req); err != nil || req.Rating == nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	// Fractional scores never reach the ledger.
	if *req.Rating != math.Trunc(*req.Rating) {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	email := auth.EmailFromContext(r.Context())

	if _, err := s.ratings.Submit(r.Context(), movieID, email, int(*req.Rating)); err != nil {
		if errors.Is(err, rating.ErrValidation) {
			s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
			return
		}
		s.logger.Error().Err(err).Int64("movie_id", movieID).Msg("http: add rating")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while adding rating")
		return
	}

	if err := s.movies.MarkSeen(r.Context(), email, movieID); err != nil {
		s.logger.Warn().Err(err).Int64("movie_id", movieID).Str("email", email).Msg("http: mark seen")
	}

	s.respondMessage(w, http.StatusOK, "Rating added")
}
