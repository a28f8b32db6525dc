package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/auth"
	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/notify"
	"github.com/NamashivayamS/Support-Sphere/internal/services/chat"
	"github.com/NamashivayamS/Support-Sphere/internal/services/project"
	"github.com/NamashivayamS/Support-Sphere/internal/services/settings"
	"github.com/NamashivayamS/Support-Sphere/internal/services/task"
	"github.com/NamashivayamS/Support-Sphere/internal/services/user"
	"github.com/NamashivayamS/Support-Sphere/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	t         *testing.T
	handler   http.Handler
	repo      *database.Repository
	tokens    *auth.TokenIssuer
	transport *mail.RecordingTransport
	users     user.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	clock := func() time.Time { return now }

	composer, err := mail.NewComposer(mail.WithClock(clock))
	require.NoError(t, err)
	transport := &mail.RecordingTransport{}
	dispatcher := notify.NewDispatcher(composer, transport, notify.NewResolver(repo, time.UTC, clock), notify.Options{})
	t.Cleanup(dispatcher.Close)

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	users := user.NewService(repo)
	srv := NewServer(Deps{
		Users:    users,
		Projects: project.NewService(repo, dispatcher, clock),
		Tasks:    task.NewService(repo, dispatcher, clock),
		Chat:     chat.NewService(repo, dispatcher),
		Settings: settings.NewService(repo),
		Tokens:   tokens,
		Mailer:   dispatcher,
		Now:      clock,
	})
	return &harness{t: t, handler: srv.Routes(), repo: repo, tokens: tokens, transport: transport, users: users}
}

// account registers a user and returns it with a bearer token
func (h *harness) account(name string, role models.Role) (*models.User, string) {
	h.t.Helper()
	u, err := h.users.Register(context.Background(), user.RegisterRequest{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(h.t, err)
	token, _, err := h.tokens.Issue(u)
	require.NoError(h.t, err)
	return u, token
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errorBody](t, rec)
	assert.Equal(t, code, body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

type fixture struct {
	*harness
	manager, customer, member          *models.User
	managerTok, customerTok, memberTok string
	projectID                          int
}

// newFixture creates one account per role and a project with the member on
// its team
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{harness: newHarness(t)}
	f.manager, f.managerTok = f.account("manager", models.RoleManager)
	f.customer, f.customerTok = f.account("customer", models.RoleCustomer)
	f.member, f.memberTok = f.account("member", models.RoleTeamMember)

	rec := f.do(http.MethodPost, "/api/projects", f.managerTok, map[string]any{
		"title":       "Storefront rebuild",
		"description": "Rebuild the storefront with a faster checkout flow.",
		"complexity":  "Medium",
		"deadline":    "2026-05-01",
		"customer_id": f.customer.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.projectID = int(decode[models.Project](t, rec).ID)

	rec = f.do(http.MethodPut, f.projectPath("/team"), f.managerTok, map[string]any{
		"members": []map[string]any{{"user_id": f.member.ID}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return f
}

func (f *fixture) projectPath(suffix string) string {
	return fmt.Sprintf("/api/projects/%d%s", f.projectID, suffix)
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Dispatcher)
	assert.Zero(t, resp.Dispatcher.Sent)
}

func TestHealth_DatabaseDown(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{DB: failingPinger{}})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[healthResponse](t, rec).Database)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("disk gone") }

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Priya", "email": "priya@example.com", "password": "secret123", "role": "customer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[tokenResponse](t, rec)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.RoleCustomer, registered.User.Role)

	rec = h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Priya", "email": "PRIYA@example.com", "password": "secret123", "role": "customer",
	})
	assertError(t, rec, http.StatusConflict, "conflict")

	rec = h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Root", "email": "root@example.com", "password": "secret123", "role": "admin",
	})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "priya@example.com", "password": "wrong"})
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "priya@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[tokenResponse](t, rec).Token

	rec = h.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "priya@example.com", decode[models.User](t, rec).Email)

	rec = h.do(http.MethodPatch, "/api/me", token, map[string]any{
		"name": "Priya S", "theme": "dark", "current_password": "secret123", "new_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[models.User](t, rec)
	assert.Equal(t, "Priya S", me.Name)
	assert.Equal(t, models.ThemeDark, me.Theme)

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "priya@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_Rejects(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	assertError(t, h.do(http.MethodGet, "/api/me", "", nil), http.StatusUnauthorized, "unauthorized")
	assertError(t, h.do(http.MethodGet, "/api/me", "not-a-jwt", nil), http.StatusUnauthorized, "unauthorized")

	ghost, _, err := h.tokens.Issue(&models.User{ID: 999, Email: "ghost@example.com", Role: models.RoleManager})
	require.NoError(t, err)
	assertError(t, h.do(http.MethodGet, "/api/me", ghost, nil), http.StatusUnauthorized, "unauthorized")
}

func TestProjects_RoleRules(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/projects", f.memberTok, map[string]any{"title": "Nope"})
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = f.do(http.MethodPatch, f.projectPath("/status"), f.customerTok, map[string]string{"status": "completed"})
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = f.do(http.MethodGet, f.projectPath(""), f.memberTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[project.Detail](t, rec)
	assert.Equal(t, models.ProjectInProgress, detail.Project.Status, "assigning a team starts the project")
	require.Len(t, detail.Team, 1)

	_, outsiderTok := f.account("outsider", models.RoleCustomer)
	assertError(t, f.do(http.MethodGet, f.projectPath(""), outsiderTok, nil), http.StatusForbidden, "forbidden")

	rec = f.do(http.MethodGet, "/api/projects", outsiderTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assertError(t, f.do(http.MethodGet, "/api/projects/999", f.managerTok, nil), http.StatusNotFound, "not_found")
	assertError(t, f.do(http.MethodGet, "/api/projects/abc", f.managerTok, nil), http.StatusBadRequest, "invalid_request")
}

func TestProjects_StatusTransitions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodPatch, f.projectPath("/status"), f.managerTok, map[string]string{"status": "done"})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")

	rec = f.do(http.MethodPatch, f.projectPath("/status"), f.managerTok, map[string]string{"status": "pending"})
	assertError(t, rec, http.StatusConflict, "conflict")

	rec = f.do(http.MethodPatch, f.projectPath("/status"), f.managerTok, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.ProjectCompleted, decode[models.Project](t, rec).Status)

	rec = f.do(http.MethodDelete, f.projectPath(""), f.managerTok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertError(t, f.do(http.MethodGet, f.projectPath(""), f.managerTok, nil), http.StatusNotFound, "not_found")
}

func TestTasks_Flow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	create := func(title string) int {
		rec := f.do(http.MethodPost, f.projectPath("/tasks"), f.managerTok, map[string]any{
			"title": title, "role": "Backend", "priority": "high",
			"deadline": "2026-04-20T17:00:00Z", "assignee_id": f.member.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return int(decode[models.Task](t, rec).ID)
	}
	a, b := create("Design schema"), create("Build API")

	rec := f.do(http.MethodGet, "/api/tasks", f.memberTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Task](t, rec), 2)

	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/progress", a), f.customerTok, map[string]any{"progress": 50})
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/progress", a), f.memberTok, map[string]any{"progress": 150})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")

	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/progress", a), f.memberTok, map[string]any{
		"status": "completed", "note": "schema merged",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[task.ProgressResult](t, rec)
	assert.Equal(t, 100, res.Task.Progress)
	assert.Equal(t, 50, res.ProjectProgress)

	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/notes", b), f.memberTok, map[string]string{"body": "started"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/dependencies/%d", b, a), f.managerTok, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/dependencies/%d", a, b), f.managerTok, nil)
	assertError(t, rec, http.StatusConflict, "conflict")
	rec = f.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/dependencies/%d", a, b), f.memberTok, nil)
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = f.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d/dependencies/%d", b, a), f.managerTok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d/dependencies/%d", b, a), f.managerTok, nil)
	assertError(t, rec, http.StatusNotFound, "not_found")

	rec = f.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", b), f.customerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[task.Detail](t, rec).Notes, 1)
}

func TestMessages(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodPost, f.projectPath("/messages"), f.customerTok, map[string]string{"body": "Any news?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[models.ChatMessage](t, rec)

	rec = f.do(http.MethodPost, f.projectPath("/messages"), f.memberTok, map[string]string{"body": "Demo on Friday"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodGet, f.projectPath(fmt.Sprintf("/messages?since=%d", first.ID)), f.managerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]models.ChatMessage](t, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Demo on Friday", msgs[0].Body)

	rec = f.do(http.MethodPost, f.projectPath("/messages"), f.customerTok, map[string]string{"body": " "})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")

	rec = f.do(http.MethodPost, f.projectPath("/messages"), f.customerTok, map[string]string{"text": "wrong field"})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")
}

func TestNotificationSettings(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/notifications/settings", f.memberTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.NotificationSettings](t, rec).EmailTaskAssigned)

	rec = f.do(http.MethodPut, "/api/notifications/settings", f.memberTok, map[string]any{
		"email": map[string]bool{"task_assigned": false}, "quiet_hours_start": 21,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.NotificationSettings](t, rec)
	assert.False(t, updated.EmailTaskAssigned)
	assert.Equal(t, 21, updated.QuietHoursStart)

	rec = f.do(http.MethodPut, "/api/notifications/settings", f.memberTok, map[string]any{"quiet_hours_end": 24})
	assertError(t, rec, http.StatusBadRequest, "invalid_request")

	rec = f.do(http.MethodPost, "/api/notifications/settings/reset", f.memberTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.NotificationSettings](t, rec).EmailTaskAssigned)
}

func TestSendTestEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/notifications/test", f.customerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[testEmailResponse](t, rec)
	assert.True(t, resp.Sent)
	assert.Equal(t, []string{"customer@example.com"}, resp.To)

	var tests int
	for _, m := range f.transport.Messages() {
		if m.Category == models.CategoryTest {
			tests++
		}
	}
	assert.Equal(t, 1, tests)

	f.transport.SetErr(errors.New("smtp down"))
	rec = f.do(http.MethodPost, "/api/notifications/test", f.customerTok, nil)
	assertError(t, rec, http.StatusBadGateway, "mail_failed")
}

func TestReports_ManagerOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assertError(t, f.do(http.MethodGet, "/api/reports", f.customerTok, nil), http.StatusForbidden, "forbidden")

	rec := f.do(http.MethodGet, "/api/reports", f.managerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[project.Report](t, rec).TotalProjects)

	rec = f.do(http.MethodGet, "/api/dashboard", f.customerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleCustomer, decode[project.Dashboard](t, rec).Role)
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrapped: %w", task.ErrCircularDependency), http.StatusConflict},
		{settings.ErrInvalidQuietHours, http.StatusBadRequest},
		{database.ErrNotFound, http.StatusNotFound},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}
