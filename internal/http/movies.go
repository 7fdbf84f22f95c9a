package httpserver

import (
	"net/http"
	"strings"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/catalog"
	"github.com/filmstack/filmstack/internal/domain"
)

const topRatedLimit = 10

// movieResponse is the wire shape for one catalog entry.
type movieResponse struct {
	ID             int64   `json:"movie_id"`
	Title          string  `json:"title"`
	ReleaseDate    string  `json:"release_date"`
	Rating         float64 `json:"rating"`
	Category       string  `json:"type"`
	Author         *string `json:"author,omitempty"`
	Poster         *string `json:"poster,omitempty"`
	BackdropPoster *string `json:"backdrop_poster,omitempty"`
	Overview       *string `json:"overview,omitempty"`
}

func toMovieResponse(m domain.Movie) movieResponse {
	return movieResponse{
		ID:             m.ID,
		Title:          m.Title,
		ReleaseDate:    m.ReleaseDate.Format("2006-01-02"),
		Rating:         m.Rating,
		Category:       m.Category,
		Author:         m.Author,
		Poster:         m.Poster,
		BackdropPoster: m.BackdropPoster,
		Overview:       m.Overview,
	}
}

func toMovieResponses(movies []domain.Movie) []movieResponse {
	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	return out
}

// handleGetMovies returns the catalog. Without a category filter the whole
// catalog is returned grouped by category; with ?category= only that
// category's movies are returned, newest release first.
func (s *Server) handleGetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		movies, err := s.movies.ByCategory(ctx, category)
		if err != nil {
			s.logger.Error().Err(err).Str("category", category).Msg("http: fetch movies by category")
			s.respondError(w, http.StatusInternalServerError, "Exception occured while fetching movies")
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]any{"movies": toMovieResponses(movies)})
		return
	}

	movies, err := s.movies.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: fetch movies")
		s.respondError(w, http.StatusInternalServerError, "Exception occured while fetching movies")
		return
	}

	grouped := make(map[string][]movieResponse, 4)
	for category, group := range catalog.GroupByCategory(movies) {
		grouped[category] = toMovieResponses(group)
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"movies": grouped})
}

// handleTopRatedMovies returns the highest-rated movies.
func (s *Server) handleTopRatedMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.TopRated(r.Context(), topRatedLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: fetch top rated movies")
		s.respondError(w, http.StatusInternalServerError, "Exception occured while fetching top rated movies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"movies": toMovieResponses(movies)})
}

// handleSeenMovies returns the movies the authenticated user has seen.
func (s *Server) handleSeenMovies(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())

	movies, err := s.movies.SeenBy(r.Context(), email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("http: fetch seen movies")
		s.respondError(w, http.StatusInternalServerError, "Exception occured while fetching seen movies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"movies": toMovieResponses(movies)})
}
