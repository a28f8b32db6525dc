package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// ProjectRepo handles projects, their team assignments and milestones
type ProjectRepo struct {
	db *sql.DB
}

func (r *ProjectRepo) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	status := p.Status
	if status == "" {
		status = models.ProjectPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (title, description, complexity, status, progress, budget_range,
			nda_required, deadline, customer_id, manager_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, nullString(p.Complexity), status, p.Progress, nullString(p.BudgetRange),
		p.NDARequired, nullTime(p.Deadline), p.CustomerID, nullUserID(p.ManagerID))
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get project ID: %w", err)
	}
	return r.GetProjectByID(ctx, types.ProjectID(id))
}

func (r *ProjectRepo) GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	var row projectRow
	err := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id).
		Scan(row.dest()...)
	if err != nil {
		return nil, notFound(err, "project")
	}
	return row.model(), nil
}

// ListProjects returns every project, newest first
func (r *ProjectRepo) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects p ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *ProjectRepo) ListProjectsByCustomer(ctx context.Context, customerID types.UserID) ([]*models.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.customer_id = ?
		ORDER BY p.created_at DESC, p.id DESC`, customerID)
}

// ListProjectsByTeamMember returns projects the user is actively assigned to
func (r *ProjectRepo) ListProjectsByTeamMember(ctx context.Context, userID types.UserID) ([]*models.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects p
		JOIN team_members tm ON tm.project_id = p.id
		WHERE tm.user_id = ? AND tm.is_active = 1
		ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var row projectRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, row.model())
	}
	return projects, rows.Err()
}

// UpdateProjectStatus stores a new status. Completing a project pins its
// progress at 100 and stamps completed_at; any other status clears the stamp.
func (r *ProjectRepo) UpdateProjectStatus(ctx context.Context, id types.ProjectID, status models.ProjectStatus, at time.Time) error {
	var (
		res sql.Result
		err error
	)
	if status == models.ProjectCompleted {
		res, err = r.db.ExecContext(ctx,
			`UPDATE projects SET status = ?, progress = 100, completed_at = ? WHERE id = ?`,
			status, dbTime(at), id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE projects SET status = ?, completed_at = NULL WHERE id = ?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *ProjectRepo) SetProjectManager(ctx context.Context, id types.ProjectID, managerID types.UserID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET manager_id = ? WHERE id = ?`, managerID, id)
	if err != nil {
		return fmt.Errorf("failed to set project manager: %w", err)
	}
	return requireAffected(res, "project")
}

// DeleteProject removes the project; tasks, team rows, milestones and chat
// cascade.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id types.ProjectID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res, "project")
}

// RecalculateProjectProgress sets the project's progress to the integer mean
// of its task progress (0 without tasks) and returns the stored value.
// Completed projects stay at 100.
func (r *ProjectRepo) RecalculateProjectProgress(ctx context.Context, id types.ProjectID) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET progress = CASE
			WHEN status = 'Completed' THEN 100
			ELSE COALESCE((SELECT SUM(progress) / COUNT(*) FROM tasks WHERE project_id = projects.id), 0)
		 END
		 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to recalculate project progress: %w", err)
	}
	if err := requireAffected(res, "project"); err != nil {
		return 0, err
	}

	var progress int
	if err := r.db.QueryRowContext(ctx, `SELECT progress FROM projects WHERE id = ?`, id).Scan(&progress); err != nil {
		return 0, notFound(err, "project")
	}
	return progress, nil
}

// ReplaceTeam swaps the project's assignments for members in one transaction
func (r *ProjectRepo) ReplaceTeam(ctx context.Context, projectID types.ProjectID, members []models.TeamMember) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM team_members WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("failed to clear team: %w", err)
		}
		for _, m := range members {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO team_members (project_id, user_id, role, is_active) VALUES (?, ?, ?, 1)`,
				projectID, m.UserID, nullString(m.Role))
			if err != nil {
				return fmt.Errorf("failed to add team member %d: %w", m.UserID, err)
			}
		}
		return nil
	})
}

// ListTeamMembers returns the active team's user accounts
func (r *ProjectRepo) ListTeamMembers(ctx context.Context, projectID types.ProjectID) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users u
		 JOIN team_members tm ON tm.user_id = u.id
		 WHERE tm.project_id = ? AND tm.is_active = 1
		 ORDER BY u.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var row userRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		users = append(users, row.model())
	}
	return users, rows.Err()
}

func (r *ProjectRepo) IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE project_id = ? AND user_id = ? AND is_active = 1`,
		projectID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return n > 0, nil
}

func (r *ProjectRepo) CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (project_id, title, description, progress, deadline) VALUES (?, ?, ?, ?, ?)`,
		m.ProjectID, m.Title, nullString(m.Description), m.Progress, nullTime(m.Deadline))
	if err != nil {
		return nil, fmt.Errorf("failed to insert milestone: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = types.MilestoneID(id)
	return &out, nil
}

func (r *ProjectRepo) ListMilestones(ctx context.Context, projectID types.ProjectID) ([]*models.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, title, description, progress, deadline, completed_at, created_at
		 FROM milestones WHERE project_id = ? ORDER BY deadline IS NULL, deadline, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var out []*models.Milestone
	for rows.Next() {
		var (
			m                     models.Milestone
			desc                  sql.NullString
			deadline, completedAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &desc, &m.Progress, &deadline, &completedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		m.Description = desc.String
		m.Deadline = nullTimeToPtr(deadline)
		m.CompletedAt = nullTimeToPtr(completedAt)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CompleteMilestone marks the milestone done at the given time
func (r *ProjectRepo) CompleteMilestone(ctx context.Context, id types.MilestoneID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE milestones SET progress = 100, completed_at = ? WHERE id = ?`, dbTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to complete milestone: %w", err)
	}
	return requireAffected(res, "milestone")
}
