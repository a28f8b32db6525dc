package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/testutil"
)

func setup(t *testing.T) (Service, context.Context) {
	t.Helper()
	return NewService(testutil.SetupTestRepo(t)), context.Background()
}

func register(t *testing.T, svc Service, name string, role models.Role) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Name: name, Email: name + "@example.com", Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	t.Parallel()
	repo := testutil.SetupTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{
		Name: "  Riya  ", Email: "Riya@Example.com", Password: "secret123", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "Riya", u.Name)
	assert.Equal(t, "riya@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, u.IsActive)

	settings, err := repo.GetNotificationSettings(ctx, u.ID)
	require.NoError(t, err, "settings created with the account")
	assert.Equal(t, models.DefaultQuietHoursStart, settings.QuietHoursStart)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	svc, ctx := setup(t)
	register(t, svc, "taken", models.RoleCustomer)

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"short name", RegisterRequest{Name: "R", Email: "r@example.com", Password: "secret123", Role: models.RoleCustomer}, ErrNameTooShort},
		{"bad email", RegisterRequest{Name: "Riya", Email: "not-an-email", Password: "secret123", Role: models.RoleCustomer}, ErrInvalidEmail},
		{"short password", RegisterRequest{Name: "Riya", Email: "r@example.com", Password: "123", Role: models.RoleCustomer}, ErrPasswordTooShort},
		{"unknown role", RegisterRequest{Name: "Riya", Email: "r@example.com", Password: "secret123", Role: "admin"}, ErrInvalidRole},
		{"duplicate email", RegisterRequest{Name: "Riya", Email: "TAKEN@example.com", Password: "secret123", Role: models.RoleCustomer}, ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	svc, ctx := setup(t)
	u := register(t, svc, "riya", models.RoleTeamMember)

	got, err := svc.Authenticate(ctx, "RIYA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "riya@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	svc, ctx := setup(t)
	u := register(t, svc, "riya", models.RoleTeamMember)
	other := register(t, svc, "arjun", models.RoleTeamMember)

	name := "Riya Sharma"
	avatar := "https://example.com/riya.png"
	updated, err := svc.UpdateProfile(ctx, u, UpdateProfileRequest{Name: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, avatar, updated.Avatar)
	assert.Equal(t, "riya@example.com", updated.Email)

	taken := other.Email
	_, err = svc.UpdateProfile(ctx, u, UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	same := u.Email
	_, err = svc.UpdateProfile(ctx, u, UpdateProfileRequest{Email: &same})
	assert.NoError(t, err, "keeping your own email is allowed")
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc, ctx := setup(t)
	u := register(t, svc, "riya", models.RoleCustomer)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u, "wrong", "newsecret"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, u, "secret123", "abc"), ErrPasswordTooShort)
	require.NoError(t, svc.ChangePassword(ctx, u, "secret123", "newsecret"))

	_, err := svc.Authenticate(ctx, u.Email, "newsecret")
	assert.NoError(t, err)
}

func TestSetThemeAndListByRole(t *testing.T) {
	t.Parallel()
	svc, ctx := setup(t)
	u := register(t, svc, "riya", models.RoleManager)
	register(t, svc, "arjun", models.RoleCustomer)

	require.NoError(t, svc.SetTheme(ctx, u, models.ThemeDark))
	assert.ErrorIs(t, svc.SetTheme(ctx, u, "neon"), ErrInvalidTheme)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, got.Theme)

	managers, err := svc.ListByRole(ctx, models.RoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, u.ID, managers[0].ID)

	_, err = svc.ListByRole(ctx, "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
