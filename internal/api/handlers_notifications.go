package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/settings"
)

type settingsRequest struct {
	Email           map[models.Category]bool `json:"email"`
	InApp           map[models.Category]bool `json:"in_app"`
	DigestFrequency *models.DigestFrequency  `json:"digest_frequency"`
	QuietHoursStart *int                     `json:"quiet_hours_start"`
	QuietHoursEnd   *int                     `json:"quiet_hours_end"`
}

type testEmailResponse struct {
	Sent    bool     `json:"sent"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.Settings.Get(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.Settings.Update(r.Context(), userFromContext(r.Context()), settings.UpdateRequest{
		Email:           req.Email,
		InApp:           req.InApp,
		DigestFrequency: req.DigestFrequency,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) resetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.Settings.Reset(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// sendTestEmail delivers a test message to the caller synchronously so the
// outcome can be reported
func (s *Server) sendTestEmail(w http.ResponseWriter, r *http.Request) {
	if s.Mailer == nil {
		s.writeError(w, r, errMailDisabled)
		return
	}
	actor := userFromContext(r.Context())
	msg, err := s.Mailer.DeliverTest(r.Context(), actor.Email)
	if err != nil {
		if errors.Is(err, mail.ErrNoRecipients) {
			s.writeError(w, r, err)
			return
		}
		s.Logger.Warn("test email failed", "user_id", actor.ID, "error", err)
		s.writeError(w, r, fmt.Errorf("%w: %v", errMailFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, testEmailResponse{Sent: true, To: msg.To, Subject: msg.Subject})
}
