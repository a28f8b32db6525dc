package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
)

// NotificationLogRepo keeps one row per dispatch outcome
type NotificationLogRepo struct {
	db *sql.DB
}

func (r *NotificationLogRepo) RecordNotification(ctx context.Context, entry *models.NotificationLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_log (recipient, category, subject, status, error) VALUES (?, ?, ?, ?, ?)`,
		entry.Recipient, entry.Category, entry.Subject, entry.Status, nullString(entry.Error))
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// ListNotificationLogs returns the most recent entries first
func (r *NotificationLogRepo) ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipient, category, subject, status, error, created_at
		 FROM notification_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification log: %w", err)
	}
	defer rows.Close()

	var out []*models.NotificationLog
	for rows.Next() {
		var (
			e       models.NotificationLog
			errText sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Category, &e.Subject, &e.Status, &errText, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		e.Error = NullStringToString(errText)
		out = append(out, &e)
	}
	return out, rows.Err()
}
