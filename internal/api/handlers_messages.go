package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

type messageRequest struct {
	Body string `json:"body"`
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var since int
	if raw := r.URL.Query().Get("since"); raw != "" {
		if since, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: since must be a message ID", errBadRequest))
			return
		}
	}
	msgs, err := s.Chat.List(r.Context(), userFromContext(r.Context()), types.ProjectID(id), types.MessageID(since))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	msg, err := s.Chat.Send(r.Context(), userFromContext(r.Context()), types.ProjectID(id), req.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
