package task

import (
	"errors"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
)

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title cannot exceed 200 characters")
	ErrMissingRole     = errors.New("task role is required")
	ErrMissingDeadline = errors.New("task deadline is required")
	ErrInvalidPriority = models.ErrInvalidPriority
	ErrInvalidStatus   = models.ErrInvalidStatus
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrEmptyNote       = errors.New("note cannot be empty")
	ErrNoteTooLong     = errors.New("note cannot exceed 2000 characters")
	ErrInvalidTaskID   = errors.New("invalid task ID")
	ErrInvalidAssignee = errors.New("tasks can only be assigned to team members")

	// Business logic errors
	ErrTaskNotFound           = errors.New("task not found")
	ErrProjectNotFound        = errors.New("project not found")
	ErrInvalidTransition      = errors.New("task status change not allowed")
	ErrCircularDependency     = errors.New("circular dependency detected")
	ErrDuplicateDependency    = errors.New("dependency already exists")
	ErrCrossProjectDependency = errors.New("dependencies must stay within one project")
	ErrDependencyNotFound     = errors.New("dependency not found")
	ErrForbidden              = access.ErrForbidden
)
