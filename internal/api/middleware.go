package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
	"github.com/NamashivayamS/Support-Sphere/internal/services/user"
)

type contextKey string

const userContextKey contextKey = "user"

// authenticate resolves the bearer token to an active account
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeError(w, r, errUnauthorized)
			return
		}
		claims, err := s.Tokens.Verify(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := s.Users.GetUser(r.Context(), claims.UserID)
		if errors.Is(err, user.ErrUserNotFound) {
			s.writeError(w, r, errUnauthorized)
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !u.IsActive {
			s.writeError(w, r, user.ErrInactiveAccount)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// requireRole rejects actors outside roles with 403
func requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := userFromContext(r.Context())
			if u == nil {
				writeProblem(w, http.StatusUnauthorized, "unauthorized", errUnauthorized.Error())
				return
			}
			if !slices.Contains(roles, u.Role) {
				writeProblem(w, http.StatusForbidden, "forbidden", access.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}
