package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// UserRepo handles account persistence
type UserRepo struct {
	db *sql.DB
}

// CreateUserWithSettings inserts an account and its notification settings in
// one transaction so no user ever exists without a settings row.
func (r *UserRepo) CreateUserWithSettings(ctx context.Context, u *models.User, settings *models.NotificationSettings) (*models.User, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (name, email, password_hash, role, avatar, theme, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.Name, u.Email, u.PasswordHash, u.Role, nullString(u.Avatar), themeOrDefault(u.Theme), true)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user ID: %w", err)
		}
		if settings != nil {
			s := *settings
			s.UserID = types.UserID(id)
			if _, err := insertSettings(ctx, tx, &s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, types.UserID(id))
}

func (r *UserRepo) GetUserByID(ctx context.Context, id types.UserID) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)
}

// GetUserByEmail matches case-insensitively
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = ? COLLATE NOCASE`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var row userRow
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(row.dest()...); err != nil {
		return nil, notFound(err, "user")
	}
	return row.model(), nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
}

// ListUsersByRole returns active users holding role
func (r *UserRepo) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users u WHERE u.role = ? AND u.is_active = 1 ORDER BY u.name`, role)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
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

func (r *UserRepo) UpdateUserProfile(ctx context.Context, id types.UserID, name, email, avatar string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, avatar = ? WHERE id = ?`,
		name, email, nullString(avatar), id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *UserRepo) UpdateUserPassword(ctx context.Context, id types.UserID, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *UserRepo) UpdateUserTheme(ctx context.Context, id types.UserID, theme models.Theme) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET theme = ? WHERE id = ?`, theme, id)
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return requireAffected(res, "user")
}

func themeOrDefault(t models.Theme) models.Theme {
	if t == "" {
		return models.ThemeLight
	}
	return t
}
