// Package user registers accounts and manages profiles.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/NamashivayamS/Support-Sphere/internal/auth"
	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

// Service defines all account operations
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id types.UserID) (*models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, req UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, actor *models.User, current, next string) error
	SetTheme(ctx context.Context, actor *models.User, theme models.Theme) error
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// RegisterRequest carries a new account
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UpdateProfileRequest changes only the non-nil fields
type UpdateProfileRequest struct {
	Name   *string
	Email  *string
	Avatar *string
}

// repository defines the data access methods needed by the user service
type repository interface {
	CreateUserWithSettings(ctx context.Context, u *models.User, settings *models.NotificationSettings) (*models.User, error)
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateUserProfile(ctx context.Context, id types.UserID, name, email, avatar string) error
	UpdateUserPassword(ctx context.Context, id types.UserID, hash string) error
	UpdateUserTheme(ctx context.Context, id types.UserID, theme models.Theme) error
}

type service struct {
	repo repository
}

func NewService(repo repository) Service {
	return &service{repo: repo}
}

// Register validates and stores a new account together with its default
// notification settings
func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if utf8.RuneCountInString(name) < minNameLength {
		return nil, ErrNameTooShort
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.CreateUserWithSettings(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Theme:        models.ThemeLight,
	}, models.DefaultNotificationSettings(0))
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id types.UserID) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *service) UpdateProfile(ctx context.Context, actor *models.User, req UpdateProfileRequest) (*models.User, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	current, err := s.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	name, email, avatar := current.Name, current.Email, current.Avatar
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			return nil, ErrNameTooShort
		}
	}
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(ctx, email, actor.ID); err != nil {
			return nil, err
		}
	}
	if req.Avatar != nil {
		avatar = strings.TrimSpace(*req.Avatar)
	}

	if err := s.repo.UpdateUserProfile(ctx, actor.ID, name, email, avatar); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUser(ctx, actor.ID)
}

func (s *service) ChangePassword(ctx context.Context, actor *models.User, current, next string) error {
	if actor == nil {
		return ErrForbidden
	}
	u, err := s.GetUser(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(u.PasswordHash, current); err != nil {
		return ErrWrongPassword
	}
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserPassword(ctx, actor.ID, hash)
}

func (s *service) SetTheme(ctx context.Context, actor *models.User, theme models.Theme) error {
	if actor == nil {
		return ErrForbidden
	}
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return ErrInvalidTheme
	}
	return s.repo.UpdateUserTheme(ctx, actor.ID, theme)
}

func (s *service) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.repo.ListUsersByRole(ctx, role)
}

// ensureEmailFree fails when email belongs to anyone other than self
func (s *service) ensureEmailFree(ctx context.Context, email string, self types.UserID) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != self:
		return ErrEmailTaken
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, ".") {
		return ErrInvalidEmail
	}
	return nil
}
