package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// ReminderRepo persists the per-task reminder watermark
type ReminderRepo struct {
	db *sql.DB
}

// LastReminded returns when a reminder of category was last enqueued for
// the task. ok is false when none was ever recorded.
func (r *ReminderRepo) LastReminded(ctx context.Context, taskID types.TaskID, category models.Category) (time.Time, bool, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT reminded_at FROM reminder_log WHERE task_id = ? AND category = ?`, taskID, category).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read reminder watermark: %w", err)
	}
	return at.UTC(), true, nil
}

// MarkReminded moves the watermark to at
func (r *ReminderRepo) MarkReminded(ctx context.Context, taskID types.TaskID, category models.Category, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminder_log (task_id, category, reminded_at) VALUES (?, ?, ?)
		 ON CONFLICT (task_id, category) DO UPDATE SET reminded_at = excluded.reminded_at`,
		taskID, category, dbTime(at))
	if err != nil {
		return fmt.Errorf("failed to write reminder watermark: %w", err)
	}
	return nil
}
