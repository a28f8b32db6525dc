// Package notify decides who gets which email and delivers it through a
// bounded pool of sender goroutines.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Decision reasons
const (
	ReasonAllowed          = "allowed"
	ReasonNoSettings       = "no_settings"
	ReasonCategoryDisabled = "category_disabled"
	ReasonQuietHours       = "quiet_hours"
	ReasonLookupFailed     = "lookup_failed"
)

// Decision is the resolver's verdict for one recipient and category
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// SettingsReader loads a user's preferences, returning database.ErrNotFound
// when none exist
type SettingsReader interface {
	GetNotificationSettings(ctx context.Context, userID types.UserID) (*models.NotificationSettings, error)
}

// Resolver applies per-user notification preferences
type Resolver struct {
	settings SettingsReader
	loc      *time.Location
	now      func() time.Time
}

// NewResolver evaluates quiet hours in loc; nil means UTC
func NewResolver(settings SettingsReader, loc *time.Location, now func() time.Time) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{settings: settings, loc: loc, now: now}
}

// Decide evaluates category for userID at the resolver's current time
func (r *Resolver) Decide(ctx context.Context, userID types.UserID, category models.Category, checkQuietHours bool) Decision {
	return r.DecideAt(ctx, userID, category, checkQuietHours, r.now())
}

// DecideAt evaluates category for userID as of at. Missing or unreadable
// settings allow the send.
func (r *Resolver) DecideAt(ctx context.Context, userID types.UserID, category models.Category, checkQuietHours bool, at time.Time) Decision {
	s, err := r.settings.GetNotificationSettings(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return Decision{Allowed: true, Reason: ReasonNoSettings}
	}
	if err != nil {
		slog.Warn("failed to load notification settings, allowing send",
			"user_id", userID, "category", category, "error", err)
		return Decision{Allowed: true, Reason: ReasonLookupFailed}
	}
	return r.evaluate(s, category, checkQuietHours, at)
}

func (r *Resolver) evaluate(s *models.NotificationSettings, category models.Category, checkQuietHours bool, at time.Time) Decision {
	if !s.ShouldSendEmail(category) {
		return Decision{Allowed: false, Reason: ReasonCategoryDisabled}
	}
	if checkQuietHours && s.IsQuietHour(at.In(r.loc)) {
		return Decision{Allowed: false, Reason: ReasonQuietHours}
	}
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

// Now returns the resolver clock reading
func (r *Resolver) Now() time.Time {
	return r.now()
}
