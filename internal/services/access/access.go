// Package access holds the project access rule shared by the services.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// ErrForbidden is returned when the acting user may not perform an operation
var ErrForbidden = errors.New("operation not permitted for this user")

// TeamChecker reports team membership
type TeamChecker interface {
	IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)
}

// CanAccessProject applies the role rule: managers see every project,
// customers their own, team members the ones they are assigned to.
func CanAccessProject(ctx context.Context, tc TeamChecker, actor *models.User, project *models.Project) (bool, error) {
	if actor == nil || project == nil {
		return false, nil
	}
	switch actor.Role {
	case models.RoleManager:
		return true, nil
	case models.RoleCustomer:
		return project.CustomerID == actor.ID, nil
	case models.RoleTeamMember:
		ok, err := tc.IsTeamMember(ctx, project.ID, actor.ID)
		if err != nil {
			return false, fmt.Errorf("failed to check team membership: %w", err)
		}
		return ok, nil
	}
	return false, nil
}

// RequireProject is CanAccessProject returning ErrForbidden on denial
func RequireProject(ctx context.Context, tc TeamChecker, actor *models.User, project *models.Project) error {
	ok, err := CanAccessProject(ctx, tc, actor, project)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireManager returns ErrForbidden unless actor is a manager
func RequireManager(actor *models.User) error {
	if actor == nil || !actor.IsManager() {
		return ErrForbidden
	}
	return nil
}
