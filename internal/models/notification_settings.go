package models

import (
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Category names a kind of notification a user can opt in or out of
type Category string

const (
	CategoryTaskAssigned        Category = "task_assigned"
	CategoryDeadlineReminder    Category = "deadline_reminder"
	CategoryProjectStatusChange Category = "project_status_change"
	CategoryTaskCompleted       Category = "task_completed"
	CategoryNewMessage          Category = "new_message"
	CategoryTeamUpdate          Category = "team_update"

	// CategoryTest marks operator test messages. It has no preference flag.
	CategoryTest Category = "test"
)

// Categories lists the six preference-bearing categories
var Categories = []Category{
	CategoryTaskAssigned,
	CategoryDeadlineReminder,
	CategoryProjectStatusChange,
	CategoryTaskCompleted,
	CategoryNewMessage,
	CategoryTeamUpdate,
}

// DigestFrequency controls batching of notifications. Only immediate delivery
// is acted on; the other values are stored for the user's benefit.
type DigestFrequency string

const (
	DigestImmediate DigestFrequency = "immediate"
	DigestDaily     DigestFrequency = "daily"
	DigestWeekly    DigestFrequency = "weekly"
)

// Valid reports whether f is a known frequency
func (f DigestFrequency) Valid() bool {
	switch f {
	case DigestImmediate, DigestDaily, DigestWeekly:
		return true
	}
	return false
}

const (
	DefaultQuietHoursStart = 22
	DefaultQuietHoursEnd   = 8
)

// NotificationSettings holds a user's per-category email and in-app switches
// plus the quiet window. One row per user.
type NotificationSettings struct {
	ID     int          `json:"id"`
	UserID types.UserID `json:"user_id"`

	EmailTaskAssigned        bool `json:"email_task_assigned"`
	EmailDeadlineReminder    bool `json:"email_deadline_reminder"`
	EmailProjectStatusChange bool `json:"email_project_status_change"`
	EmailTaskCompleted       bool `json:"email_task_completed"`
	EmailNewMessage          bool `json:"email_new_message"`
	EmailTeamUpdate          bool `json:"email_team_update"`

	InAppTaskAssigned        bool `json:"inapp_task_assigned"`
	InAppDeadlineReminder    bool `json:"inapp_deadline_reminder"`
	InAppProjectStatusChange bool `json:"inapp_project_status_change"`
	InAppTaskCompleted       bool `json:"inapp_task_completed"`
	InAppNewMessage          bool `json:"inapp_new_message"`
	InAppTeamUpdate          bool `json:"inapp_team_update"`

	DigestFrequency DigestFrequency `json:"digest_frequency"`
	QuietHoursStart int             `json:"quiet_hours_start"`
	QuietHoursEnd   int             `json:"quiet_hours_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultNotificationSettings returns the settings a new account starts with:
// everything on, immediate delivery, quiet from 22:00 to 08:00.
func DefaultNotificationSettings(userID types.UserID) *NotificationSettings {
	return &NotificationSettings{
		UserID:                   userID,
		EmailTaskAssigned:        true,
		EmailDeadlineReminder:    true,
		EmailProjectStatusChange: true,
		EmailTaskCompleted:       true,
		EmailNewMessage:          true,
		EmailTeamUpdate:          true,
		InAppTaskAssigned:        true,
		InAppDeadlineReminder:    true,
		InAppProjectStatusChange: true,
		InAppTaskCompleted:       true,
		InAppNewMessage:          true,
		InAppTeamUpdate:          true,
		DigestFrequency:          DigestImmediate,
		QuietHoursStart:          DefaultQuietHoursStart,
		QuietHoursEnd:            DefaultQuietHoursEnd,
	}
}

// ShouldSendEmail returns the email flag for category. Categories without a
// flag are allowed.
func (s *NotificationSettings) ShouldSendEmail(category Category) bool {
	switch category {
	case CategoryTaskAssigned:
		return s.EmailTaskAssigned
	case CategoryDeadlineReminder:
		return s.EmailDeadlineReminder
	case CategoryProjectStatusChange:
		return s.EmailProjectStatusChange
	case CategoryTaskCompleted:
		return s.EmailTaskCompleted
	case CategoryNewMessage:
		return s.EmailNewMessage
	case CategoryTeamUpdate:
		return s.EmailTeamUpdate
	}
	return true
}

// ShouldNotifyInApp is ShouldSendEmail over the in-app flags.
func (s *NotificationSettings) ShouldNotifyInApp(category Category) bool {
	switch category {
	case CategoryTaskAssigned:
		return s.InAppTaskAssigned
	case CategoryDeadlineReminder:
		return s.InAppDeadlineReminder
	case CategoryProjectStatusChange:
		return s.InAppProjectStatusChange
	case CategoryTaskCompleted:
		return s.InAppTaskCompleted
	case CategoryNewMessage:
		return s.InAppNewMessage
	case CategoryTeamUpdate:
		return s.InAppTeamUpdate
	}
	return true
}

// IsQuietHourAt reports whether hour (0-23) falls inside the quiet window.
// The window is half-open [start, end) and wraps past midnight when
// start > end. Equal bounds mean there is no quiet window.
func (s *NotificationSettings) IsQuietHourAt(hour int) bool {
	start, end := s.QuietHoursStart, s.QuietHoursEnd
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

// IsQuietHour evaluates the quiet window at t's hour in t's location.
func (s *NotificationSettings) IsQuietHour(t time.Time) bool {
	return s.IsQuietHourAt(t.Hour())
}

// SetEmail toggles the email flag for category. Unknown categories are ignored
// and reported as false.
func (s *NotificationSettings) SetEmail(category Category, on bool) bool {
	switch category {
	case CategoryTaskAssigned:
		s.EmailTaskAssigned = on
	case CategoryDeadlineReminder:
		s.EmailDeadlineReminder = on
	case CategoryProjectStatusChange:
		s.EmailProjectStatusChange = on
	case CategoryTaskCompleted:
		s.EmailTaskCompleted = on
	case CategoryNewMessage:
		s.EmailNewMessage = on
	case CategoryTeamUpdate:
		s.EmailTeamUpdate = on
	default:
		return false
	}
	return true
}

// ValidHour reports whether h is a clock hour
func ValidHour(h int) bool {
	return h >= 0 && h <= 23
}

// UserSettings pairs an account with its settings row, nil when missing
type UserSettings struct {
	User     *User                 `json:"user"`
	Settings *NotificationSettings `json:"settings"`
}
