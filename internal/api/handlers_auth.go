package api

import (
	"net/http"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/user"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type updateMeRequest struct {
	Name            *string       `json:"name"`
	Email           *string       `json:"email"`
	Avatar          *string       `json:"avatar"`
	Theme           *models.Theme `json:"theme"`
	CurrentPassword string        `json:"current_password"`
	NewPassword     string        `json:"new_password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.Users.Register(r.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issue(w, r, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issue(w, r, http.StatusOK, u)
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, exp, err := s.Tokens.Issue(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: exp, User: u})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

// updateMe applies profile fields, then the theme, then the password change
func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())
	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()

	if req.Name != nil || req.Email != nil || req.Avatar != nil {
		if _, err := s.Users.UpdateProfile(ctx, actor, user.UpdateProfileRequest{
			Name:   req.Name,
			Email:  req.Email,
			Avatar: req.Avatar,
		}); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Theme != nil {
		if err := s.Users.SetTheme(ctx, actor, *req.Theme); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.NewPassword != "" {
		if err := s.Users.ChangePassword(ctx, actor, req.CurrentPassword, req.NewPassword); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	updated, err := s.Users.GetUser(ctx, actor.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
