package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/repository"
)

const sessionCookieName = "filmstack_session"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// handleLogin verifies credentials, opens a server-side session, and returns
// a bearer token for the API surface.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusBadRequest, "User not found")
			return
		}
		s.logger.Error().Err(err).Msg("http: login lookup")
		s.respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusBadRequest, "Email or password don't match")
		return
	}

	session, err := s.sessions.Create(r.Context(), user.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: create session")
		s.respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := s.jwt.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: generate token")
		s.respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Country  string  `json:"country" validate:"required"`
	Street   *string `json:"street"`
	City     *string `json:"city"`
}

// handleRegister creates an account with its address.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: hash password")
		s.respondMessage(w, http.StatusInternalServerError, "Exception occurred while registering")
		return
	}

	err = s.users.Register(r.Context(), repository.RegisterParams{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Country:      req.Country,
		Street:       req.Street,
		City:         req.City,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.respondMessage(w, http.StatusConflict, "User already has an account")
			return
		}
		s.logger.Error().Err(err).Msg("http: register user")
		s.respondMessage(w, http.StatusInternalServerError, "Exception occurred while registering")
		return
	}

	s.respondMessage(w, http.StatusOK, "User created")
}

type editPasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// handleEditPassword rotates the authenticated user's password.
func (s *Server) handleEditPassword(w http.ResponseWriter, r *http.Request) {
	var req editPasswordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if req.OldPassword == req.NewPassword {
		s.respondMessage(w, http.StatusBadRequest, "New password cannot be equal to old password")
		return
	}

	email := auth.EmailFromContext(r.Context())

	user, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("http: password lookup")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while updating password")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		s.respondMessage(w, http.StatusBadRequest, "Incorrect password")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: hash password")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while updating password")
		return
	}
	if err := s.users.UpdatePassword(r.Context(), email, hash); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("http: update password")
		s.respondError(w, http.StatusInternalServerError, "Exception occurred while updating password")
		return
	}

	s.respondMessage(w, http.StatusOK, "Password updated")
}

// handleLogout tears down the server-side session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Warn().Err(err).Msg("http: delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.respondMessage(w, http.StatusOK, "Disconnected")
}
