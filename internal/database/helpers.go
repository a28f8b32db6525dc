package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// requireAffected turns a zero-row update into ErrNotFound
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// dbTime normalises a timestamp before it is written. Stored timestamps are
// compared as text, so every value goes in as UTC at second precision.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// nullTime converts an optional timestamp for writing
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dbTime(*t), Valid: true}
}

// nullTimeToPtr converts sql.NullTime to *time.Time.
// Returns nil if the value is not valid.
func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time.UTC()
		return &t
	}
	return nil
}

// NullStringToString converts sql.NullString to string.
// Returns empty string if the value is not valid.
func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUserID(id *types.UserID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func nullInt64ToUserID(n sql.NullInt64) *types.UserID {
	if n.Valid {
		id := types.UserID(n.Int64)
		return &id
	}
	return nil
}

// Column lists shared by every query that loads a full row. Each has a
// matching *Row type whose dest() returns scan targets in the same order.

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.avatar, u.theme, u.is_active, u.created_at`

// userRow scans nullable columns so it also serves LEFT JOINs
type userRow struct {
	id        sql.NullInt64
	name      sql.NullString
	email     sql.NullString
	hash      sql.NullString
	role      sql.NullString
	avatar    sql.NullString
	theme     sql.NullString
	isActive  sql.NullBool
	createdAt sql.NullTime
}

func (r *userRow) dest() []any {
	return []any{&r.id, &r.name, &r.email, &r.hash, &r.role, &r.avatar, &r.theme, &r.isActive, &r.createdAt}
}

// model returns nil when the joined user was absent
func (r *userRow) model() *models.User {
	if !r.id.Valid {
		return nil
	}
	return &models.User{
		ID:           types.UserID(r.id.Int64),
		Name:         r.name.String,
		Email:        r.email.String,
		PasswordHash: r.hash.String,
		Role:         models.Role(r.role.String),
		Avatar:       r.avatar.String,
		Theme:        models.Theme(r.theme.String),
		IsActive:     r.isActive.Bool,
		CreatedAt:    r.createdAt.Time.UTC(),
	}
}

const projectColumns = `p.id, p.title, p.description, p.complexity, p.status, p.progress, p.budget_range,
	p.nda_required, p.created_at, p.deadline, p.completed_at, p.customer_id, p.manager_id`

type projectRow struct {
	p           models.Project
	complexity  sql.NullString
	budget      sql.NullString
	deadline    sql.NullTime
	completedAt sql.NullTime
	managerID   sql.NullInt64
}

func (r *projectRow) dest() []any {
	return []any{&r.p.ID, &r.p.Title, &r.p.Description, &r.complexity, &r.p.Status, &r.p.Progress,
		&r.budget, &r.p.NDARequired, &r.p.CreatedAt, &r.deadline, &r.completedAt, &r.p.CustomerID, &r.managerID}
}

func (r *projectRow) model() *models.Project {
	p := r.p
	p.Complexity = r.complexity.String
	p.BudgetRange = r.budget.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.Deadline = nullTimeToPtr(r.deadline)
	p.CompletedAt = nullTimeToPtr(r.completedAt)
	p.ManagerID = nullInt64ToUserID(r.managerID)
	return &p
}

const taskColumns = `t.id, t.project_id, t.title, t.description, t.role, t.priority, t.status, t.progress,
	t.estimated_hours, t.created_at, t.deadline, t.completed_at, t.assignee_id, t.created_by_id`

type taskRow struct {
	t           models.Task
	description sql.NullString
	role        sql.NullString
	deadline    sql.NullTime
	completedAt sql.NullTime
	assigneeID  sql.NullInt64
}

func (r *taskRow) dest() []any {
	return []any{&r.t.ID, &r.t.ProjectID, &r.t.Title, &r.description, &r.role, &r.t.Priority, &r.t.Status,
		&r.t.Progress, &r.t.EstimatedHours, &r.t.CreatedAt, &r.deadline, &r.completedAt, &r.assigneeID, &r.t.CreatedByID}
}

func (r *taskRow) model() *models.Task {
	t := r.t
	t.Description = r.description.String
	t.Role = r.role.String
	t.CreatedAt = t.CreatedAt.UTC()
	t.Deadline = nullTimeToPtr(r.deadline)
	t.CompletedAt = nullTimeToPtr(r.completedAt)
	t.AssigneeID = nullInt64ToUserID(r.assigneeID)
	return &t
}
