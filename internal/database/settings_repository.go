package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// SettingsRepo handles notification preference rows
type SettingsRepo struct {
	db *sql.DB
}

const settingsColumns = `s.id, s.user_id,
	s.email_task_assigned, s.email_deadline_reminder, s.email_project_status_change,
	s.email_task_completed, s.email_new_message, s.email_team_update,
	s.inapp_task_assigned, s.inapp_deadline_reminder, s.inapp_project_status_change,
	s.inapp_task_completed, s.inapp_new_message, s.inapp_team_update,
	s.digest_frequency, s.quiet_hours_start, s.quiet_hours_end, s.created_at, s.updated_at`

func settingsDest(s *models.NotificationSettings) []any {
	return []any{&s.ID, &s.UserID,
		&s.EmailTaskAssigned, &s.EmailDeadlineReminder, &s.EmailProjectStatusChange,
		&s.EmailTaskCompleted, &s.EmailNewMessage, &s.EmailTeamUpdate,
		&s.InAppTaskAssigned, &s.InAppDeadlineReminder, &s.InAppProjectStatusChange,
		&s.InAppTaskCompleted, &s.InAppNewMessage, &s.InAppTeamUpdate,
		&s.DigestFrequency, &s.QuietHoursStart, &s.QuietHoursEnd, &s.CreatedAt, &s.UpdatedAt}
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSettings(ctx context.Context, ex execer, s *models.NotificationSettings) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO notification_settings (user_id,
			email_task_assigned, email_deadline_reminder, email_project_status_change,
			email_task_completed, email_new_message, email_team_update,
			inapp_task_assigned, inapp_deadline_reminder, inapp_project_status_change,
			inapp_task_completed, inapp_new_message, inapp_team_update,
			digest_frequency, quiet_hours_start, quiet_hours_end)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID,
		s.EmailTaskAssigned, s.EmailDeadlineReminder, s.EmailProjectStatusChange,
		s.EmailTaskCompleted, s.EmailNewMessage, s.EmailTeamUpdate,
		s.InAppTaskAssigned, s.InAppDeadlineReminder, s.InAppProjectStatusChange,
		s.InAppTaskCompleted, s.InAppNewMessage, s.InAppTeamUpdate,
		s.DigestFrequency, s.QuietHoursStart, s.QuietHoursEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification settings: %w", err)
	}
	return res.LastInsertId()
}

// GetNotificationSettings returns ErrNotFound when the user has no row
func (r *SettingsRepo) GetNotificationSettings(ctx context.Context, userID types.UserID) (*models.NotificationSettings, error) {
	var s models.NotificationSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM notification_settings s WHERE s.user_id = ?`, userID).
		Scan(settingsDest(&s)...)
	if err != nil {
		return nil, notFound(err, "notification settings")
	}
	return &s, nil
}

func (r *SettingsRepo) CreateNotificationSettings(ctx context.Context, s *models.NotificationSettings) (*models.NotificationSettings, error) {
	if _, err := insertSettings(ctx, r.db, s); err != nil {
		return nil, err
	}
	return r.GetNotificationSettings(ctx, s.UserID)
}

// UpdateNotificationSettings overwrites every preference column for s.UserID
func (r *SettingsRepo) UpdateNotificationSettings(ctx context.Context, s *models.NotificationSettings) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_settings SET
			email_task_assigned = ?, email_deadline_reminder = ?, email_project_status_change = ?,
			email_task_completed = ?, email_new_message = ?, email_team_update = ?,
			inapp_task_assigned = ?, inapp_deadline_reminder = ?, inapp_project_status_change = ?,
			inapp_task_completed = ?, inapp_new_message = ?, inapp_team_update = ?,
			digest_frequency = ?, quiet_hours_start = ?, quiet_hours_end = ?, updated_at = ?
		 WHERE user_id = ?`,
		s.EmailTaskAssigned, s.EmailDeadlineReminder, s.EmailProjectStatusChange,
		s.EmailTaskCompleted, s.EmailNewMessage, s.EmailTeamUpdate,
		s.InAppTaskAssigned, s.InAppDeadlineReminder, s.InAppProjectStatusChange,
		s.InAppTaskCompleted, s.InAppNewMessage, s.InAppTeamUpdate,
		s.DigestFrequency, s.QuietHoursStart, s.QuietHoursEnd, dbTime(time.Now()),
		s.UserID)
	if err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	return requireAffected(res, "notification settings")
}

// ListUsersWithoutSettings finds accounts created before settings existed
func (r *SettingsRepo) ListUsersWithoutSettings(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users u
		 LEFT JOIN notification_settings s ON s.user_id = u.id
		 WHERE s.id IS NULL ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users without settings: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var row userRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, row.model())
	}
	return users, rows.Err()
}

// ListUserSettings pairs every user with their settings; Settings is nil
// where the row is missing.
func (r *SettingsRepo) ListUserSettings(ctx context.Context) ([]*models.UserSettings, error) {
	users, err := (&UserRepo{db: r.db}).ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+settingsColumns+` FROM notification_settings s`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification settings: %w", err)
	}
	defer rows.Close()

	byUser := make(map[types.UserID]*models.NotificationSettings)
	for rows.Next() {
		var s models.NotificationSettings
		if err := rows.Scan(settingsDest(&s)...); err != nil {
			return nil, fmt.Errorf("failed to scan notification settings: %w", err)
		}
		byUser[s.UserID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.UserSettings, 0, len(users))
	for _, u := range users {
		out = append(out, &models.UserSettings{User: u, Settings: byUser[u.ID]})
	}
	return out, nil
}
