package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// TaskRepo handles tasks, their notes and dependency edges
type TaskRepo struct {
	db *sql.DB
}

func (r *TaskRepo) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	status := t.Status
	if status == "" {
		status = models.TaskPending
	}
	priority := t.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (project_id, title, description, role, priority, status, progress,
			estimated_hours, deadline, assignee_id, created_by_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.Title, nullString(t.Description), nullString(t.Role), priority, status, t.Progress,
		t.EstimatedHours, nullTime(t.Deadline), nullUserID(t.AssigneeID), t.CreatedByID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get task ID: %w", err)
	}
	return r.GetTaskByID(ctx, types.TaskID(id))
}

func (r *TaskRepo) GetTaskByID(ctx context.Context, id types.TaskID) (*models.Task, error) {
	var row taskRow
	err := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id).
		Scan(row.dest()...)
	if err != nil {
		return nil, notFound(err, "task")
	}
	return row.model(), nil
}

func (r *TaskRepo) ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.project_id = ?
		ORDER BY t.deadline IS NULL, t.deadline, t.id`, projectID)
}

func (r *TaskRepo) ListTasksByAssignee(ctx context.Context, userID types.UserID) ([]*models.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.assignee_id = ?
		ORDER BY t.deadline IS NULL, t.deadline, t.id`, userID)
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var row taskRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, row.model())
	}
	return tasks, rows.Err()
}

// AssignTask sets the assignee, status and progress together. Any status
// other than Completed clears the completion stamp.
func (r *TaskRepo) AssignTask(ctx context.Context, id types.TaskID, assigneeID types.UserID, status models.TaskStatus, progress int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assignee_id = ?, status = ?, progress = ?,
			completed_at = CASE WHEN ? = ? THEN completed_at ELSE NULL END
		 WHERE id = ?`,
		assigneeID, status, progress, status, models.TaskCompleted, id)
	if err != nil {
		return fmt.Errorf("failed to assign task: %w", err)
	}
	return requireAffected(res, "task")
}

// UpdateTaskProgress stores progress, status and the completion stamp
func (r *TaskRepo) UpdateTaskProgress(ctx context.Context, id types.TaskID, progress int, status models.TaskStatus, completedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET progress = ?, status = ?, completed_at = ? WHERE id = ?`,
		progress, status, nullTime(completedAt), id)
	if err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *TaskRepo) DeleteTask(ctx context.Context, id types.TaskID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res, "task")
}

// RecordTaskProgress stores progress, status and the completion stamp and,
// when note is set, the note in the same transaction
func (r *TaskRepo) RecordTaskProgress(ctx context.Context, id types.TaskID, progress int, status models.TaskStatus, completedAt *time.Time, note *models.TaskNote) (*models.TaskNote, error) {
	var noteID int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET progress = ?, status = ?, completed_at = ? WHERE id = ?`,
			progress, status, nullTime(completedAt), id)
		if err != nil {
			return fmt.Errorf("failed to update task progress: %w", err)
		}
		if err := requireAffected(res, "task"); err != nil {
			return err
		}
		if note == nil {
			return nil
		}
		noteID, err = insertNote(ctx, tx, note)
		return err
	})
	if err != nil || note == nil {
		return nil, err
	}
	return r.getNote(ctx, noteID)
}

func (r *TaskRepo) AddTaskNote(ctx context.Context, n *models.TaskNote) (*models.TaskNote, error) {
	id, err := insertNote(ctx, r.db, n)
	if err != nil {
		return nil, err
	}
	return r.getNote(ctx, id)
}

func insertNote(ctx context.Context, ex execer, n *models.TaskNote) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO task_notes (task_id, author_id, body) VALUES (?, ?, ?)`, n.TaskID, n.AuthorID, n.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task note: %w", err)
	}
	return res.LastInsertId()
}

func (r *TaskRepo) getNote(ctx context.Context, id int64) (*models.TaskNote, error) {
	var out models.TaskNote
	err := r.db.QueryRowContext(ctx,
		`SELECT id, task_id, author_id, body, created_at FROM task_notes WHERE id = ?`, id).
		Scan(&out.ID, &out.TaskID, &out.AuthorID, &out.Body, &out.CreatedAt)
	if err != nil {
		return nil, notFound(err, "task note")
	}
	return &out, nil
}

func (r *TaskRepo) ListTaskNotes(ctx context.Context, taskID types.TaskID) ([]*models.TaskNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, author_id, body, created_at FROM task_notes WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.TaskNote
	for rows.Next() {
		var n models.TaskNote
		if err := rows.Scan(&n.ID, &n.TaskID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task note: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func (r *TaskRepo) AddTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)`, taskID, dependsOnID)
	if err != nil {
		return fmt.Errorf("failed to add dependency: %w", err)
	}
	return nil
}

func (r *TaskRepo) RemoveTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ? AND depends_on_id = ?`, taskID, dependsOnID)
	if err != nil {
		return fmt.Errorf("failed to remove dependency: %w", err)
	}
	return requireAffected(res, "task dependency")
}

// ListTaskDependencies returns the tasks taskID depends on
func (r *TaskRepo) ListTaskDependencies(ctx context.Context, taskID types.TaskID) ([]types.TaskID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT depends_on_id FROM task_dependencies WHERE task_id = ? ORDER BY depends_on_id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var ids []types.TaskID
	for rows.Next() {
		var id types.TaskID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DependencyPathExists reports whether from already depends on to, directly
// or transitively.
func (r *TaskRepo) DependencyPathExists(ctx context.Context, from, to types.TaskID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`WITH RECURSIVE reach(id) AS (
			SELECT depends_on_id FROM task_dependencies WHERE task_id = ?
			UNION
			SELECT d.depends_on_id FROM task_dependencies d JOIN reach ON d.task_id = reach.id
		 )
		 SELECT COUNT(*) FROM reach WHERE id = ?`, from, to).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to walk dependencies: %w", err)
	}
	return n > 0, nil
}

// CountTasksByStatus returns a status breakdown across all projects
func (r *TaskRepo) CountTasksByStatus(ctx context.Context) ([]models.TaskStatusCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	var out []models.TaskStatusCount
	for rows.Next() {
		var c models.TaskStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const dueTaskQuery = `SELECT ` + taskColumns + `, ` + projectColumns + `, ` + userColumns + `
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	LEFT JOIN users u ON u.id = t.assignee_id`

// ListDueTasks returns unfinished tasks with from < deadline <= to, earliest
// first. With assignedOnly, tasks without an assignee are skipped.
func (r *TaskRepo) ListDueTasks(ctx context.Context, from, to time.Time, assignedOnly bool) ([]*models.DueTask, error) {
	query := dueTaskQuery + ` WHERE t.deadline > ? AND t.deadline <= ? AND t.status != ?`
	if assignedOnly {
		query += ` AND t.assignee_id IS NOT NULL`
	}
	query += ` ORDER BY t.deadline, t.id`
	return r.listDue(ctx, query, dbTime(from), dbTime(to), models.TaskCompleted)
}

// ListOverdueTasks returns pending or in-progress tasks whose deadline passed
func (r *TaskRepo) ListOverdueTasks(ctx context.Context, now time.Time) ([]*models.DueTask, error) {
	query := dueTaskQuery + ` WHERE t.deadline <= ? AND t.status IN (?, ?) ORDER BY t.deadline, t.id`
	return r.listDue(ctx, query, dbTime(now), models.TaskPending, models.TaskInProgress)
}

func (r *TaskRepo) listDue(ctx context.Context, query string, args ...any) ([]*models.DueTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer rows.Close()

	var out []*models.DueTask
	for rows.Next() {
		var (
			tr taskRow
			pr projectRow
			ur userRow
		)
		dest := append(append(tr.dest(), pr.dest()...), ur.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan due task: %w", err)
		}
		out = append(out, &models.DueTask{Task: tr.model(), Project: pr.model(), Assignee: ur.model()})
	}
	return out, rows.Err()
}
