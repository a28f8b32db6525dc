package models

import "errors"

// Validation errors for closed value sets
var (
	ErrInvalidRole     = errors.New("invalid role (must be: manager, team_member, customer)")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority (must be: low, medium, high, critical)")
)
