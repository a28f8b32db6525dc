package settings

import (
	"errors"

	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
)

// Domain errors for the settings service
var (
	ErrInvalidQuietHours      = errors.New("quiet hours must be between 0 and 23")
	ErrInvalidDigestFrequency = errors.New("digest frequency must be immediate, daily or weekly")
	ErrUnknownCategory        = errors.New("unknown notification category")
	ErrForbidden              = access.ErrForbidden
)
