package chat

import (
	"errors"

	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
)

// Chat-related errors
var (
	// Validation errors
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrMessageTooLong   = errors.New("message cannot exceed 4000 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")

	// Business logic errors
	ErrProjectNotFound = errors.New("project not found")
	ErrForbidden       = access.ErrForbidden
)
