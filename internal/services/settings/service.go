// Package settings manages per-user notification preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Service defines notification preference operations
type Service interface {
	Get(ctx context.Context, actor *models.User) (*models.NotificationSettings, error)
	Update(ctx context.Context, actor *models.User, req UpdateRequest) (*models.NotificationSettings, error)
	Reset(ctx context.Context, actor *models.User) (*models.NotificationSettings, error)
	CreateMissing(ctx context.Context) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.UserSettings, error)
}

// UpdateRequest changes only what is set. Email and InApp are keyed by
// category.
type UpdateRequest struct {
	Email           map[models.Category]bool
	InApp           map[models.Category]bool
	DigestFrequency *models.DigestFrequency
	QuietHoursStart *int
	QuietHoursEnd   *int
}

type repository interface {
	GetNotificationSettings(ctx context.Context, userID types.UserID) (*models.NotificationSettings, error)
	CreateNotificationSettings(ctx context.Context, s *models.NotificationSettings) (*models.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, s *models.NotificationSettings) error
	ListUsersWithoutSettings(ctx context.Context) ([]*models.User, error)
	ListUserSettings(ctx context.Context) ([]*models.UserSettings, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) Service {
	return &service{repo: repo}
}

// Get returns the actor's settings, creating the defaults on first access
func (s *service) Get(ctx context.Context, actor *models.User) (*models.NotificationSettings, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	current, err := s.repo.GetNotificationSettings(ctx, actor.ID)
	if errors.Is(err, database.ErrNotFound) {
		return s.repo.CreateNotificationSettings(ctx, models.DefaultNotificationSettings(actor.ID))
	}
	return current, err
}

// Update validates the whole request before writing anything, so a bad
// field leaves the stored row unchanged
func (s *service) Update(ctx context.Context, actor *models.User, req UpdateRequest) (*models.NotificationSettings, error) {
	current, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	next := *current

	for cat, on := range req.Email {
		if !next.SetEmail(cat, on) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
		}
	}
	for cat, on := range req.InApp {
		if !setInApp(&next, cat, on) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
		}
	}
	if req.DigestFrequency != nil {
		if !req.DigestFrequency.Valid() {
			return nil, ErrInvalidDigestFrequency
		}
		next.DigestFrequency = *req.DigestFrequency
	}
	if req.QuietHoursStart != nil {
		if !models.ValidHour(*req.QuietHoursStart) {
			return nil, ErrInvalidQuietHours
		}
		next.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		if !models.ValidHour(*req.QuietHoursEnd) {
			return nil, ErrInvalidQuietHours
		}
		next.QuietHoursEnd = *req.QuietHoursEnd
	}

	if err := s.repo.UpdateNotificationSettings(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return s.repo.GetNotificationSettings(ctx, actor.ID)
}

// Reset restores the defaults
func (s *service) Reset(ctx context.Context, actor *models.User) (*models.NotificationSettings, error) {
	if _, err := s.Get(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNotificationSettings(ctx, models.DefaultNotificationSettings(actor.ID)); err != nil {
		return nil, fmt.Errorf("failed to reset settings: %w", err)
	}
	return s.repo.GetNotificationSettings(ctx, actor.ID)
}

// CreateMissing gives every account without settings the defaults and
// returns the accounts it repaired
func (s *service) CreateMissing(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListUsersWithoutSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users without settings: %w", err)
	}

	created := make([]*models.User, 0, len(users))
	for _, u := range users {
		if _, err := s.repo.CreateNotificationSettings(ctx, models.DefaultNotificationSettings(u.ID)); err != nil {
			return created, fmt.Errorf("failed to create settings for user %d: %w", u.ID, err)
		}
		slog.Info("created default notification settings", "user_id", u.ID, "email", u.Email)
		created = append(created, u)
	}
	return created, nil
}

func (s *service) ListAll(ctx context.Context) ([]*models.UserSettings, error) {
	return s.repo.ListUserSettings(ctx)
}

func setInApp(s *models.NotificationSettings, category models.Category, on bool) bool {
	switch category {
	case models.CategoryTaskAssigned:
		s.InAppTaskAssigned = on
	case models.CategoryDeadlineReminder:
		s.InAppDeadlineReminder = on
	case models.CategoryProjectStatusChange:
		s.InAppProjectStatusChange = on
	case models.CategoryTaskCompleted:
		s.InAppTaskCompleted = on
	case models.CategoryNewMessage:
		s.InAppNewMessage = on
	case models.CategoryTeamUpdate:
		s.InAppTeamUpdate = on
	default:
		return false
	}
	return true
}
