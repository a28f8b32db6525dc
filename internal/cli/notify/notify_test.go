package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/testutil"
	clitest "github.com/NamashivayamS/Support-Sphere/internal/testutil/cli"
)

var now = time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)

// seed creates a manager, a customer, a member and one project
func seed(t *testing.T, env *clitest.Env) (manager, member *models.User, project *models.Project) {
	t.Helper()
	manager = testutil.CreateTestUser(t, env.Repo, "manager", models.RoleManager)
	customer := testutil.CreateTestUser(t, env.Repo, "customer", models.RoleCustomer)
	member = testutil.CreateTestUser(t, env.Repo, "member", models.RoleTeamMember)
	project = testutil.CreateTestProject(t, env.Repo, customer, manager, "Storefront")
	return manager, member, project
}

func TestTestEmail(t *testing.T) {
	t.Run("defaults to the first user", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)
		seed(t, env)

		res := clitest.ExecuteCLICommand(t, env, TestEmailCmd(), "--json")
		require.NoError(t, res.Err)

		out := clitest.ParseJSON(t, res.Stdout)
		assert.Equal(t, true, out["success"])
		data := out["data"].(map[string]any)
		assert.Equal(t, "manager@example.com", data["recipient"])

		sent := env.Transport.Messages()
		require.Len(t, sent, 1, "test email is delivered synchronously")
		assert.Equal(t, []string{"manager@example.com"}, sent[0].To)
	})

	t.Run("explicit recipient quiet", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)

		res := clitest.ExecuteCLICommand(t, env, TestEmailCmd(), "--to", "ops@example.com", "--quiet")
		require.NoError(t, res.Err)
		assert.Equal(t, "ops@example.com\n", res.Stdout)
	})

	t.Run("no users", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)

		res := clitest.ExecuteCLICommand(t, env, TestEmailCmd(), "--json")
		assert.Equal(t, cli.ExitNotFound, res.ExitCode())
		out := clitest.ParseJSON(t, res.Stdout)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "NO_USERS", out["error"].(map[string]any)["code"])
	})

	t.Run("invalid recipient", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)

		res := clitest.ExecuteCLICommand(t, env, TestEmailCmd(), "--to", "not-an-address")
		assert.Equal(t, cli.ExitValidation, res.ExitCode())
		assert.Contains(t, res.Stderr, "invalid recipient")
		assert.Empty(t, env.Transport.Messages())
	})

	t.Run("transport failure", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)
		env.Transport.SetErr(errors.New("connection refused"))

		res := clitest.ExecuteCLICommand(t, env, TestEmailCmd(), "--to", "ops@example.com", "--json")
		assert.Equal(t, cli.ExitError, res.ExitCode())
		out := clitest.ParseJSON(t, res.Stdout)
		detail := out["error"].(map[string]any)
		assert.Equal(t, "SMTP_ERROR", detail["code"])
		assert.Contains(t, detail["message"], "connection refused")
	})
}

func TestCheckDeadlines(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)
	manager, member, project := seed(t, env)

	testutil.CreateTestTask(t, env.Repo, project, manager, member, "Due soon", testutil.TimePtr(now.Add(23*time.Hour)))
	testutil.CreateTestTask(t, env.Repo, project, manager, member, "Due later", testutil.TimePtr(now.Add(25*time.Hour)))
	testutil.CreateTestTask(t, env.Repo, project, manager, nil, "Nobody's", testutil.TimePtr(now.Add(2*time.Hour)))

	res := clitest.ExecuteCLICommand(t, env, CheckDeadlinesCmd(), "--json")
	require.NoError(t, res.Err)

	data := clitest.ParseJSON(t, res.Stdout)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["candidates"])
	assert.Equal(t, float64(1), data["sent"])

	sent := env.Flush()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"member@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].Subject, "Due soon")
}

func TestCheckDeadlines_QuietPrintsSentCount(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)
	manager, member, project := seed(t, env)
	testutil.CreateTestTask(t, env.Repo, project, manager, member, "Due soon", testutil.TimePtr(now.Add(3*time.Hour)))

	res := clitest.ExecuteCLICommand(t, env, CheckDeadlinesCmd(), "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "1\n", res.Stdout)

	// once policy: the second scan finds the watermark
	res = clitest.ExecuteCLICommand(t, env, CheckDeadlinesCmd(), "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "0\n", res.Stdout)
}

func TestListSettings(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)
	seed(t, env)
	_, err := env.Repo.CreateUserWithSettings(context.Background(), &models.User{
		Name: "legacy", Email: "legacy@example.com", PasswordHash: "x", Role: models.RoleCustomer,
	}, nil)
	require.NoError(t, err)

	res := clitest.ExecuteCLICommand(t, env, ListSettingsCmd(), "--json")
	require.NoError(t, res.Err)
	rows := clitest.ParseJSON(t, res.Stdout)["data"].([]any)
	assert.Len(t, rows, 4)

	res = clitest.ExecuteCLICommand(t, env, ListSettingsCmd(), "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "legacy@example.com\n", res.Stdout)

	res = clitest.ExecuteCLICommand(t, env, ListSettingsCmd())
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "member@example.com")
	assert.Contains(t, res.Stdout, "22:00 - 08:00")
	assert.Contains(t, res.Stdout, "no notification settings")
}

func TestCreateSettings(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)
	seed(t, env)
	_, err := env.Repo.CreateUserWithSettings(context.Background(), &models.User{
		Name: "legacy", Email: "legacy@example.com", PasswordHash: "x", Role: models.RoleCustomer,
	}, nil)
	require.NoError(t, err)

	res := clitest.ExecuteCLICommand(t, env, CreateSettingsCmd(), "--json")
	require.NoError(t, res.Err)
	data := clitest.ParseJSON(t, res.Stdout)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["created"])

	res = clitest.ExecuteCLICommand(t, env, CreateSettingsCmd(), "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "0\n", res.Stdout)
}

func TestShowDeadlines(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)
	manager, member, project := seed(t, env)

	testutil.CreateTestTask(t, env.Repo, project, manager, member, "Tomorrow", testutil.TimePtr(now.Add(30*time.Hour)))
	testutil.CreateTestTask(t, env.Repo, project, manager, nil, "Tonight", testutil.TimePtr(now.Add(5*time.Hour)))
	testutil.CreateTestTask(t, env.Repo, project, manager, member, "Next month", testutil.TimePtr(now.AddDate(0, 1, 0)))

	res := clitest.ExecuteCLICommand(t, env, ShowDeadlinesCmd(), "--json")
	require.NoError(t, res.Err)
	rows := clitest.ParseJSON(t, res.Stdout)["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Tonight", first["title"])
	assert.Equal(t, "5 hours remaining", first["remaining"])
	_, hasAssignee := first["assignee"]
	assert.False(t, hasAssignee)
	assert.Equal(t, "1 days remaining", rows[1].(map[string]any)["remaining"])

	res = clitest.ExecuteCLICommand(t, env, ShowDeadlinesCmd())
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Unassigned")
	assert.Contains(t, res.Stdout, "Storefront")

	res = clitest.ExecuteCLICommand(t, env, ShowDeadlinesCmd(), "--days", "60", "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "3\n", res.Stdout)

	res = clitest.ExecuteCLICommand(t, env, ShowDeadlinesCmd(), "--days", "0")
	assert.Equal(t, cli.ExitUsage, res.ExitCode())
}

func TestCheckConfig(t *testing.T) {
	t.Run("missing server", func(t *testing.T) {
		env := clitest.SetupCLITest(t, nil, now)

		res := clitest.ExecuteCLICommand(t, env, CheckConfigCmd(), "--json")
		assert.Equal(t, cli.ExitValidation, res.ExitCode())
		data := clitest.ParseJSON(t, res.Stdout)["data"].(map[string]any)
		assert.Equal(t, false, data["valid"])
	})

	t.Run("complete settings", func(t *testing.T) {
		cfg := config.Default()
		cfg.Mail.Host = "smtp.example.com"
		cfg.Mail.Port = 587
		cfg.Mail.Username = "mailer"
		cfg.Mail.Password = "hunter2"
		env := clitest.SetupCLITest(t, cfg, now)

		res := clitest.ExecuteCLICommand(t, env, CheckConfigCmd())
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "*******")
		assert.NotContains(t, res.Stdout, "hunter2")
	})
}

func TestNotifyCmd_Subcommands(t *testing.T) {
	env := clitest.SetupCLITest(t, nil, now)

	res := clitest.ExecuteCLICommand(t, env, NotifyCmd(), "create-settings", "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "0\n", res.Stdout)

	names := map[string]bool{}
	for _, c := range NotifyCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"test-email", "check-deadlines", "list-settings", "create-settings", "show-deadlines", "check-config"} {
		assert.True(t, names[want], want)
	}
}
