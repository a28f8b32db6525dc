package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('manager', 'team_member', 'customer')),
		avatar TEXT,
		theme TEXT NOT NULL DEFAULT 'light',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS notification_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		email_task_assigned BOOLEAN NOT NULL DEFAULT 1,
		email_deadline_reminder BOOLEAN NOT NULL DEFAULT 1,
		email_project_status_change BOOLEAN NOT NULL DEFAULT 1,
		email_task_completed BOOLEAN NOT NULL DEFAULT 1,
		email_new_message BOOLEAN NOT NULL DEFAULT 1,
		email_team_update BOOLEAN NOT NULL DEFAULT 1,
		inapp_task_assigned BOOLEAN NOT NULL DEFAULT 1,
		inapp_deadline_reminder BOOLEAN NOT NULL DEFAULT 1,
		inapp_project_status_change BOOLEAN NOT NULL DEFAULT 1,
		inapp_task_completed BOOLEAN NOT NULL DEFAULT 1,
		inapp_new_message BOOLEAN NOT NULL DEFAULT 1,
		inapp_team_update BOOLEAN NOT NULL DEFAULT 1,
		digest_frequency TEXT NOT NULL DEFAULT 'immediate',
		quiet_hours_start INTEGER NOT NULL DEFAULT 22,
		quiet_hours_end INTEGER NOT NULL DEFAULT 8,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		complexity TEXT,
		status TEXT NOT NULL DEFAULT 'Pending',
		progress INTEGER NOT NULL DEFAULT 0,
		budget_range TEXT,
		nda_required BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deadline DATETIME,
		completed_at DATETIME,
		customer_id INTEGER NOT NULL,
		manager_id INTEGER,
		FOREIGN KEY (customer_id) REFERENCES users(id),
		FOREIGN KEY (manager_id) REFERENCES users(id)
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		role TEXT,
		assigned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		UNIQUE (project_id, user_id),
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		role TEXT,
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'Pending',
		progress INTEGER NOT NULL DEFAULT 0,
		estimated_hours REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deadline DATETIME,
		completed_at DATETIME,
		assignee_id INTEGER,
		created_by_id INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (assignee_id) REFERENCES users(id),
		FOREIGN KEY (created_by_id) REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,

	`CREATE TABLE IF NOT EXISTS task_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		task_id INTEGER NOT NULL,
		depends_on_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (task_id, depends_on_id),
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (depends_on_id) REFERENCES tasks(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		progress INTEGER NOT NULL DEFAULT 0,
		deadline DATETIME,
		completed_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		sender_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (sender_id) REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_project ON chat_messages(project_id, id)`,

	`CREATE TABLE IF NOT EXISTS reminder_log (
		task_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		reminded_at DATETIME NOT NULL,
		UNIQUE (task_id, category),
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS notification_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient TEXT NOT NULL,
		category TEXT NOT NULL,
		subject TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('sent', 'failed', 'suppressed')),
		error TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
