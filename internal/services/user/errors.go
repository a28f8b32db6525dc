package user

import (
	"errors"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
)

// Domain errors for the user service
var (
	// Validation errors
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidRole      = models.ErrInvalidRole
	ErrInvalidTheme     = errors.New("theme must be light or dark")

	// Business logic errors
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrForbidden          = access.ErrForbidden
)
