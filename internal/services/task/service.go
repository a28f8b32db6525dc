// Package task implements task assignment, progress reporting with project
// roll-up, notes and dependencies.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

const (
	maxTitleLength = 200
	maxNoteLength  = 2000
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	Get(ctx context.Context, actor *models.User, id types.TaskID) (*Detail, error)
	ListForAssignee(ctx context.Context, actor *models.User) ([]*models.Task, error)

	// Write operations
	Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Task, error)
	Assign(ctx context.Context, actor *models.User, id types.TaskID, assigneeID types.UserID) (*models.Task, error)
	UpdateProgress(ctx context.Context, actor *models.User, id types.TaskID, req ProgressRequest) (*ProgressResult, error)
	AddNote(ctx context.Context, actor *models.User, id types.TaskID, body string) (*models.TaskNote, error)
	AddDependency(ctx context.Context, actor *models.User, id, dependsOn types.TaskID) error
	RemoveDependency(ctx context.Context, actor *models.User, id, dependsOn types.TaskID) error
	Delete(ctx context.Context, actor *models.User, id types.TaskID) error
}

// CreateRequest carries a new task. Priority accepts any casing and
// defaults to Medium.
type CreateRequest struct {
	ProjectID      types.ProjectID
	Title          string
	Description    string
	Role           string
	Priority       string
	EstimatedHours float64
	Deadline       *time.Time
	AssigneeID     *types.UserID
}

// ProgressRequest is an assignee's update. Nil fields stay as they are.
type ProgressRequest struct {
	Progress *int
	Status   *models.TaskStatus
	Note     string
}

// ProgressResult reports the stored task and the recalculated project
// progress
type ProgressResult struct {
	Task            *models.Task     `json:"task"`
	Note            *models.TaskNote `json:"note,omitempty"`
	ProjectProgress int              `json:"project_progress"`
}

// Detail is a task with its notes and dependencies
type Detail struct {
	Task         *models.Task       `json:"task"`
	Notes        []*models.TaskNote `json:"notes"`
	Dependencies []types.TaskID     `json:"dependencies"`
	Overdue      bool               `json:"overdue"`
	HoursLeft    int                `json:"hours_left"`
}

// Notifier receives task events after they are committed
type Notifier interface {
	TaskAssigned(ctx context.Context, task *models.Task, project *models.Project, assignee *models.User) bool
	TaskCompleted(ctx context.Context, task *models.Task, project *models.Project, completedBy, recipient *models.User) bool
}

// repository defines the data access methods needed by the task service
type repository interface {
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	GetTaskByID(ctx context.Context, id types.TaskID) (*models.Task, error)
	ListTasksByAssignee(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	AssignTask(ctx context.Context, id types.TaskID, assigneeID types.UserID, status models.TaskStatus, progress int) error
	RecordTaskProgress(ctx context.Context, id types.TaskID, progress int, status models.TaskStatus, completedAt *time.Time, note *models.TaskNote) (*models.TaskNote, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	AddTaskNote(ctx context.Context, n *models.TaskNote) (*models.TaskNote, error)
	ListTaskNotes(ctx context.Context, taskID types.TaskID) ([]*models.TaskNote, error)
	AddTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error
	RemoveTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error
	ListTaskDependencies(ctx context.Context, taskID types.TaskID) ([]types.TaskID, error)
	DependencyPathExists(ctx context.Context, from, to types.TaskID) (bool, error)

	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	RecalculateProjectProgress(ctx context.Context, id types.ProjectID) (int, error)
	IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
}

type service struct {
	repo     repository
	notifier Notifier
	now      func() time.Time
}

// NewService creates a task service. notifier may be nil; now defaults to
// time.Now.
func NewService(repo repository, notifier Notifier, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, notifier: notifier, now: now}
}

// Get is allowed for managers, the assignee and anyone with access to the
// task's project
func (s *service) Get(ctx context.Context, actor *models.User, id types.TaskID) (*Detail, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrForbidden
	}
	if !actor.IsManager() && !t.IsAssignedTo(actor.ID) {
		project, err := s.project(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := access.RequireProject(ctx, s.repo, actor, project); err != nil {
			return nil, err
		}
	}

	notes, err := s.repo.ListTaskNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := s.repo.ListTaskDependencies(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Detail{
		Task:         t,
		Notes:        notes,
		Dependencies: deps,
		Overdue:      t.IsOverdue(now),
		HoursLeft:    t.HoursUntilDeadline(now),
	}, nil
}

func (s *service) ListForAssignee(ctx context.Context, actor *models.User) ([]*models.Task, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListTasksByAssignee(ctx, actor.ID)
}

// Create stores a task on a project. An initial assignee is notified.
func (s *service) Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Task, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	priority, err := validateCreate(&req)
	if err != nil {
		return nil, err
	}
	project, err := s.project(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	var assignee *models.User
	if req.AssigneeID != nil {
		if assignee, err = s.assignee(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateTask(ctx, &models.Task{
		ProjectID:      project.ID,
		Title:          req.Title,
		Description:    req.Description,
		Role:           req.Role,
		Priority:       priority,
		Status:         models.TaskPending,
		EstimatedHours: req.EstimatedHours,
		Deadline:       req.Deadline,
		AssigneeID:     req.AssigneeID,
		CreatedByID:    actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.rollup(ctx, project.ID)

	if assignee != nil && s.notifier != nil {
		s.notifier.TaskAssigned(ctx, created, project, assignee)
	}
	return created, nil
}

// Assign hands the task to a team member and marks it In Progress. The new
// assignee is notified only when the assignee changes.
func (s *service) Assign(ctx context.Context, actor *models.User, id types.TaskID, assigneeID types.UserID) (*models.Task, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.assignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	changed := !t.IsAssignedTo(assigneeID)
	// assigning a completed task reopens it and the new assignee starts over
	progress := t.Progress
	reopened := t.Status == models.TaskCompleted
	if reopened {
		progress = 0
	}
	if err := s.repo.AssignTask(ctx, id, assigneeID, models.TaskInProgress, progress); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	if reopened {
		s.rollup(ctx, t.ProjectID)
	}
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed && s.notifier != nil {
		if project, err := s.project(ctx, updated.ProjectID); err != nil {
			slog.Warn("failed to load project for assignment email", "task_id", id, "error", err)
		} else {
			s.notifier.TaskAssigned(ctx, updated, project, assignee)
		}
	}
	return updated, nil
}

// UpdateProgress records the assignee's progress, recalculates the project
// and tells the task's creator when the task was just completed
func (s *service) UpdateProgress(ctx context.Context, actor *models.User, id types.TaskID, req ProgressRequest) (*ProgressResult, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !t.IsAssignedTo(actor.ID) {
		return nil, ErrForbidden
	}

	progress, status, completedAt := t.Progress, t.Status, t.CompletedAt
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, ErrInvalidProgress
		}
		progress = *req.Progress
	}
	if req.Status != nil {
		next := *req.Status
		if !next.Valid() {
			return nil, ErrInvalidStatus
		}
		if !t.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, t.Status, next)
		}
		status = next
	}
	note := strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(note) > maxNoteLength {
		return nil, ErrNoteTooLong
	}

	justCompleted := status == models.TaskCompleted && t.Status != models.TaskCompleted
	if status == models.TaskCompleted {
		progress = 100
		if completedAt == nil {
			now := s.now()
			completedAt = &now
		}
	} else {
		completedAt = nil
	}

	var pending *models.TaskNote
	if note != "" {
		pending = &models.TaskNote{TaskID: id, AuthorID: actor.ID, Body: note}
	}
	stored, err := s.repo.RecordTaskProgress(ctx, id, progress, status, completedAt, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to update task progress: %w", err)
	}

	result := &ProgressResult{Note: stored}

	result.ProjectProgress = s.rollup(ctx, t.ProjectID)
	if result.Task, err = s.load(ctx, id); err != nil {
		return nil, err
	}

	if justCompleted && s.notifier != nil && t.CreatedByID != actor.ID {
		s.notifyCompleted(ctx, result.Task, actor)
	}
	return result, nil
}

func (s *service) AddNote(ctx context.Context, actor *models.User, id types.TaskID, body string) (*models.TaskNote, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !t.IsAssignedTo(actor.ID) {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyNote
	}
	if utf8.RuneCountInString(body) > maxNoteLength {
		return nil, ErrNoteTooLong
	}
	return s.repo.AddTaskNote(ctx, &models.TaskNote{TaskID: id, AuthorID: actor.ID, Body: body})
}

// AddDependency records that id cannot finish before dependsOn. Self edges
// and edges closing a cycle are rejected.
func (s *service) AddDependency(ctx context.Context, actor *models.User, id, dependsOn types.TaskID) error {
	if err := access.RequireManager(actor); err != nil {
		return err
	}
	if id == dependsOn {
		return ErrCircularDependency
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	dep, err := s.load(ctx, dependsOn)
	if err != nil {
		return err
	}
	if t.ProjectID != dep.ProjectID {
		return ErrCrossProjectDependency
	}

	existing, err := s.repo.ListTaskDependencies(ctx, id)
	if err != nil {
		return err
	}
	if slices.Contains(existing, dependsOn) {
		return ErrDuplicateDependency
	}

	cycle, err := s.repo.DependencyPathExists(ctx, dependsOn, id)
	if err != nil {
		return err
	}
	if cycle {
		return ErrCircularDependency
	}
	return s.repo.AddTaskDependency(ctx, id, dependsOn)
}

func (s *service) RemoveDependency(ctx context.Context, actor *models.User, id, dependsOn types.TaskID) error {
	if err := access.RequireManager(actor); err != nil {
		return err
	}
	err := s.repo.RemoveTaskDependency(ctx, id, dependsOn)
	if errors.Is(err, database.ErrNotFound) {
		return ErrDependencyNotFound
	}
	return err
}

// Delete removes the task and recalculates its project
func (s *service) Delete(ctx context.Context, actor *models.User, id types.TaskID) error {
	if err := access.RequireManager(actor); err != nil {
		return err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.rollup(ctx, t.ProjectID)
	return nil
}

// rollup recalculates project progress. A failure is logged; the task
// change that triggered it is already committed.
func (s *service) rollup(ctx context.Context, projectID types.ProjectID) int {
	progress, err := s.repo.RecalculateProjectProgress(ctx, projectID)
	if err != nil {
		slog.Error("failed to recalculate project progress", "project_id", projectID, "error", err)
	}
	return progress
}

func (s *service) notifyCompleted(ctx context.Context, t *models.Task, completedBy *models.User) {
	creator, err := s.repo.GetUserByID(ctx, t.CreatedByID)
	if err != nil {
		slog.Warn("failed to load task creator", "task_id", t.ID, "error", err)
		return
	}
	project, err := s.project(ctx, t.ProjectID)
	if err != nil {
		slog.Warn("failed to load project for completion email", "task_id", t.ID, "error", err)
		return
	}
	s.notifier.TaskCompleted(ctx, t, project, completedBy, creator)
}

func (s *service) assignee(ctx context.Context, id types.UserID) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidAssignee
	}
	if err != nil {
		return nil, err
	}
	if !u.IsTeamMember() || !u.IsActive {
		return nil, ErrInvalidAssignee
	}
	return u, nil
}

func (s *service) load(ctx context.Context, id types.TaskID) (*models.Task, error) {
	if id <= 0 {
		return nil, ErrInvalidTaskID
	}
	t, err := s.repo.GetTaskByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

func (s *service) project(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	p, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func validateCreate(req *CreateRequest) (models.Priority, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Role = strings.TrimSpace(req.Role)

	if req.Title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	if req.Role == "" {
		return "", ErrMissingRole
	}
	if req.Deadline == nil {
		return "", ErrMissingDeadline
	}
	if req.Priority == "" {
		return models.PriorityMedium, nil
	}
	return models.ParsePriority(req.Priority)
}
