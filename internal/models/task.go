package models

import (
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Task is a unit of work inside a project
type Task struct {
	ID             types.TaskID    `json:"id"`
	ProjectID      types.ProjectID `json:"project_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Role           string          `json:"role,omitempty"`
	Priority       Priority        `json:"priority"`
	Status         TaskStatus      `json:"status"`
	Progress       int             `json:"progress"`
	EstimatedHours float64         `json:"estimated_hours,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	AssigneeID     *types.UserID   `json:"assignee_id,omitempty"`
	CreatedByID    types.UserID    `json:"created_by_id"`
}

// IsOverdue reports whether the deadline passed and the task is unfinished
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && now.After(*t.Deadline) && t.Status != TaskCompleted
}

// IsAssignedTo reports whether userID is the task's assignee
func (t *Task) IsAssignedTo(userID types.UserID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// HoursUntilDeadline returns whole hours left, zero once passed
func (t *Task) HoursUntilDeadline(now time.Time) int {
	if t.Deadline == nil {
		return 0
	}
	d := t.Deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d.Hours())
}

func (t *Task) GetID() int {
	return int(t.ID)
}

// TaskNote is an append-only progress note left by the assignee
type TaskNote struct {
	ID        types.NoteID `json:"id"`
	TaskID    types.TaskID `json:"task_id"`
	AuthorID  types.UserID `json:"author_id"`
	Body      string       `json:"body"`
	CreatedAt time.Time    `json:"created_at"`
}

// TaskDependency says TaskID cannot finish before DependsOnID
type TaskDependency struct {
	TaskID      types.TaskID `json:"task_id"`
	DependsOnID types.TaskID `json:"depends_on_id"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DueTask bundles a task with the rows needed to notify about it. Assignee
// is nil for unassigned tasks.
type DueTask struct {
	Task     *Task    `json:"task"`
	Project  *Project `json:"project"`
	Assignee *User    `json:"assignee,omitempty"`
}

// TaskStatusCount is one row of a status breakdown
type TaskStatusCount struct {
	Status TaskStatus `json:"status"`
	Count  int        `json:"count"`
}
