package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filmstack/filmstack/internal/comments"
)

type addCommentRequest struct {
	Username string `json:"username"`
	Title    string `json:"title"`
	Comment  string `json:"comment"`
	Rating   *int   `json:"rating"`
}

// handleAddComment stores one comment on a movie.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil || movieID <= 0 {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	var req addCommentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if req.Username == "" || req.Title == "" || req.Comment == "" || req.Rating == nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	_, err = s.comments.Add(r.Context(), comments.AddParams{
		MovieID:  movieID,
		Username: req.Username,
		Title:    req.Title,
		Comment:  req.Comment,
		Rating:   *req.Rating,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("movie_id", movieID).Msg("http: add comment")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while adding comment")
		return
	}

	s.respondMessage(w, http.StatusOK, "Comment added")
}

// handleGetComments returns all comments for a movie.
func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil || movieID <= 0 {
		s.respondMessage(w, http.StatusBadRequest, "movie id missing")
		return
	}

	list, err := s.comments.ByMovie(r.Context(), movieID)
	if err != nil {
		s.logger.Error().Err(err).Int64("movie_id", movieID).Msg("http: fetch comments")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while fetching comments")
		return
	}

	s.respondJSON(w, http.StatusOK, list)
}
