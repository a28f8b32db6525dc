package project

import (
	"errors"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
)

// Domain errors for project service
var (
	// Validation errors
	ErrTitleTooShort       = errors.New("project title must be at least 5 characters")
	ErrDescriptionTooShort = errors.New("project description must be at least 20 characters")
	ErrMissingComplexity   = errors.New("project complexity is required")
	ErrMissingDeadline     = errors.New("project deadline is required")
	ErrDeadlinePassed      = errors.New("project deadline must be in the future")
	ErrInvalidStatus       = models.ErrInvalidStatus
	ErrInvalidProjectID    = errors.New("invalid project ID")

	// Business logic errors
	ErrProjectNotFound   = errors.New("project not found")
	ErrInvalidCustomer   = errors.New("project customer must be an existing customer account")
	ErrInvalidTeamMember = errors.New("team assignments must reference team member accounts")
	ErrInvalidTransition = errors.New("project status change not allowed")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrForbidden         = access.ErrForbidden
)
