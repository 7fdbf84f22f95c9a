package httpserver

import (
	"net/http"
)

type addMessageRequest struct {
	Message struct {
		Name string `json:"name"`
	} `json:"message"`
}

// handleAddMessage stores a user message. The caller is identified by the
// session cookie rather than a bearer token; body validation runs first so a
// malformed payload is reported even for unauthenticated callers.
func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	if err := decodeJSONBody(w, r, &req); err != nil || req.Message.Name == "" {
		s.respondError(w, http.StatusBadRequest, "missing information")
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		s.respondError(w, http.StatusInternalServerError, "You are not authenticated")
		return
	}
	session, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "You are not authenticated")
		return
	}

	message, err := s.messages.Add(r.Context(), req.Message.Name, session.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("http: add message")
		s.respondError(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	s.respondJSON(w, http.StatusOK, message)
}
