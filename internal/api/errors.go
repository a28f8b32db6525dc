package api

import (
	"errors"
	"net/http"

	"github.com/NamashivayamS/Support-Sphere/internal/auth"
	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
	"github.com/NamashivayamS/Support-Sphere/internal/services/chat"
	"github.com/NamashivayamS/Support-Sphere/internal/services/project"
	"github.com/NamashivayamS/Support-Sphere/internal/services/settings"
	"github.com/NamashivayamS/Support-Sphere/internal/services/task"
	"github.com/NamashivayamS/Support-Sphere/internal/services/user"
)

var (
	errBadRequest   = errors.New("malformed request")
	errUnauthorized = errors.New("authentication required")
	errMailFailed   = errors.New("test email could not be delivered")
	errMailDisabled = errors.New("mail dispatcher is not configured")
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	status int
	code   string
	errs   []error
}

// errorTable is checked in order; the first match wins
var errorTable = []errorMapping{
	{http.StatusUnauthorized, "unauthorized", []error{
		errUnauthorized, auth.ErrInvalidToken, user.ErrInvalidCredentials,
	}},
	{http.StatusForbidden, "forbidden", []error{
		access.ErrForbidden, user.ErrInactiveAccount,
	}},
	{http.StatusNotFound, "not_found", []error{
		project.ErrProjectNotFound, project.ErrMilestoneNotFound,
		task.ErrTaskNotFound, task.ErrProjectNotFound, task.ErrDependencyNotFound,
		chat.ErrProjectNotFound, user.ErrUserNotFound, database.ErrNotFound,
	}},
	{http.StatusConflict, "conflict", []error{
		user.ErrEmailTaken,
		project.ErrInvalidTransition,
		task.ErrInvalidTransition, task.ErrCircularDependency, task.ErrDuplicateDependency,
	}},
	{http.StatusBadGateway, "mail_failed", []error{errMailFailed}},
	{http.StatusServiceUnavailable, "unavailable", []error{errMailDisabled}},
	{http.StatusBadRequest, "invalid_request", []error{
		errBadRequest,
		models.ErrInvalidRole, models.ErrInvalidStatus, models.ErrInvalidPriority,
		user.ErrNameTooShort, user.ErrInvalidEmail, user.ErrPasswordTooShort,
		user.ErrInvalidTheme, user.ErrWrongPassword,
		project.ErrTitleTooShort, project.ErrDescriptionTooShort, project.ErrMissingComplexity,
		project.ErrMissingDeadline, project.ErrDeadlinePassed, project.ErrInvalidProjectID,
		project.ErrInvalidCustomer, project.ErrInvalidTeamMember,
		task.ErrEmptyTitle, task.ErrTitleTooLong, task.ErrMissingRole, task.ErrMissingDeadline,
		task.ErrInvalidProgress, task.ErrEmptyNote, task.ErrNoteTooLong, task.ErrInvalidTaskID,
		task.ErrInvalidAssignee, task.ErrCrossProjectDependency,
		chat.ErrEmptyMessage, chat.ErrMessageTooLong, chat.ErrInvalidProjectID,
		settings.ErrInvalidQuietHours, settings.ErrInvalidDigestFrequency, settings.ErrUnknownCategory,
		mail.ErrNoRecipients,
	}},
}

// classify maps an error to a status and code. Unknown errors are 500.
func classify(err error) (int, string) {
	for _, m := range errorTable {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				return m.status, m.code
			}
		}
	}
	return http.StatusInternalServerError, "internal"
}

// writeError logs server faults and writes the error envelope
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeProblem(w, status, code, msg)
}

func writeProblem(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
