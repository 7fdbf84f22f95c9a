// Package httpserver wires HTTP routing, middleware, and the route handlers
// for the catalog, rating, comment, message, and account surfaces.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/comments"
	"github.com/filmstack/filmstack/internal/config"
	"github.com/filmstack/filmstack/internal/docstore"
	"github.com/filmstack/filmstack/internal/domain"
	"github.com/filmstack/filmstack/internal/repository"
	"github.com/filmstack/filmstack/internal/store"
)

// MovieSource is the catalog read/mark surface the handlers need.
type MovieSource interface {
	All(ctx context.Context) ([]domain.Movie, error)
	ByCategory(ctx context.Context, category string) ([]domain.Movie, error)
	TopRated(ctx context.Context, limit int) ([]domain.Movie, error)
	SeenBy(ctx context.Context, email string) ([]domain.Movie, error)
	MarkSeen(ctx context.Context, email string, movieID int64) error
}

// UserStore is the account surface the handlers need.
type UserStore interface {
	Register(ctx context.Context, params repository.RegisterParams) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// RatingSubmitter runs the rating submission flow.
type RatingSubmitter interface {
	Submit(ctx context.Context, movieID int64, raterEmail string, score int) (float64, error)
}

// CommentStore is the comment surface the handlers need.
type CommentStore interface {
	Add(ctx context.Context, params comments.AddParams) (domain.Comment, error)
	ByMovie(ctx context.Context, movieID int64) ([]domain.Comment, error)
}

// MessageStore is the message surface the handlers need.
type MessageStore interface {
	Add(ctx context.Context, name, userEmail string) (domain.Message, error)
}

// SessionStore is the server-side session surface the handlers need.
type SessionStore interface {
	Create(ctx context.Context, email string) (auth.Session, error)
	Get(ctx context.Context, id string) (auth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries the collaborators the server dispatches into. Store and
// Docstore are only used by the health endpoint and may be nil in tests.
type Deps struct {
	Store    *store.Store
	Docstore *docstore.Store
	Movies   MovieSource
	Users    UserStore
	Ratings  RatingSubmitter
	Comments CommentStore
	Messages MessageStore
	Sessions SessionStore
	JWT      *auth.JWTManager
	Logger   zerolog.Logger
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	store    *store.Store
	docs     *docstore.Store
	movies   MovieSource
	users    UserStore
	ratings  RatingSubmitter
	comments CommentStore
	messages MessageStore
	sessions SessionStore
	jwt      *auth.JWTManager
	validate *validator.Validate
	logger   zerolog.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, deps Deps) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s := &Server{
		cfg:      cfg,
		store:    deps.Store,
		docs:     deps.Docstore,
		movies:   deps.Movies,
		users:    deps.Users,
		ratings:  deps.Ratings,
		comments: deps.Comments,
		messages: deps.Messages,
		sessions: deps.Sessions,
		jwt:      deps.JWT,
		validate: validator.New(),
		logger:   deps.Logger,
		router:   r,
	}
	r.Use(s.requestLogger)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	authLimit := httprate.LimitByIP(10, time.Minute)

	s.router.Route("/auth", func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/login", s.handleLogin)
	})
	s.router.Route("/users", func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/register", s.handleRegister)
	})

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleGetMovies)
		r.Get("/top", s.handleTopRatedMovies)
		r.With(s.requireJWT).Get("/me", s.handleSeenMovies)
	})

	s.router.With(s.requireJWT).Post("/rating/movies/{movieId}/rating", s.handleAddRating)

	s.router.Route("/comments", func(r chi.Router) {
		r.Get("/{movieId}", s.handleGetComments)
		r.With(s.requireJWT).Post("/{movieId}", s.handleAddComment)
	})

	s.router.Post("/messages/add/message", s.handleAddMessage)

	s.router.Route("/profile", func(r chi.Router) {
		r.With(s.requireJWT).Put("/password", s.handleEditPassword)
		r.Post("/logout", s.handleLogout)
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info().Str("port", s.cfg.Port).Msg("http: listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router exposes the handler tree, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.HealthCheck(ctx); err != nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	if s.docs != nil {
		if err := s.docs.HealthCheck(); err != nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
