package project

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

type statusCall struct {
	project    *models.Project
	recipients []*models.User
	from, to   models.ProjectStatus
}

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []statusCall
	teams    [][]*models.User
}

func (n *recordingNotifier) ProjectStatusChanged(_ context.Context, p *models.Project, recipients []*models.User, from, to models.ProjectStatus) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, statusCall{p, recipients, from, to})
	return len(recipients)
}

func (n *recordingNotifier) TeamUpdated(_ context.Context, _ *models.Project, members []*models.User) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.teams = append(n.teams, members)
	return len(members)
}

type env struct {
	repo     *database.Repository
	svc      Service
	notifier *recordingNotifier
	manager  *models.User
	customer *models.User
	member   *models.User
	ctx      context.Context
}

func setup(t *testing.T) *env {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	n := &recordingNotifier{}
	return &env{
		repo:     repo,
		svc:      NewService(repo, n, func() time.Time { return now }),
		notifier: n,
		manager:  testutil.CreateTestUser(t, repo, "manager", models.RoleManager),
		customer: testutil.CreateTestUser(t, repo, "customer", models.RoleCustomer),
		member:   testutil.CreateTestUser(t, repo, "member", models.RoleTeamMember),
		ctx:      context.Background(),
	}
}

func validRequest() CreateRequest {
	return CreateRequest{
		Title:       "Storefront rebuild",
		Description: "Rebuild the storefront with a faster checkout flow.",
		Complexity:  "Medium",
		Deadline:    testutil.TimePtr(now.Add(30 * 24 * time.Hour)),
	}
}

func (e *env) createProject(t *testing.T) *models.Project {
	t.Helper()
	p, err := e.svc.Create(e.ctx, e.customer, validRequest())
	require.NoError(t, err)
	return p
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestCreate_ByCustomer(t *testing.T) {
	t.Parallel()
	e := setup(t)

	p := e.createProject(t)
	assert.Equal(t, e.customer.ID, p.CustomerID)
	assert.Nil(t, p.ManagerID)
	assert.Equal(t, models.ProjectPending, p.Status)
	assert.Equal(t, 0, p.Progress)
}

func TestCreate_ByManager(t *testing.T) {
	t.Parallel()
	e := setup(t)

	req := validRequest()
	req.CustomerID = e.member.ID
	_, err := e.svc.Create(e.ctx, e.manager, req)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	req.CustomerID = 999
	_, err = e.svc.Create(e.ctx, e.manager, req)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	req.CustomerID = e.customer.ID
	p, err := e.svc.Create(e.ctx, e.manager, req)
	require.NoError(t, err)
	assert.Equal(t, e.customer.ID, p.CustomerID)
	require.NotNil(t, p.ManagerID)
	assert.Equal(t, e.manager.ID, *p.ManagerID)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	e := setup(t)

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"short title", func(r *CreateRequest) { r.Title = "App" }, ErrTitleTooShort},
		{"short description", func(r *CreateRequest) { r.Description = "Too short" }, ErrDescriptionTooShort},
		{"no complexity", func(r *CreateRequest) { r.Complexity = " " }, ErrMissingComplexity},
		{"no deadline", func(r *CreateRequest) { r.Deadline = nil }, ErrMissingDeadline},
		{"past deadline", func(r *CreateRequest) { r.Deadline = testutil.TimePtr(now.Add(-48 * time.Hour)) }, ErrDeadlinePassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := e.svc.Create(e.ctx, e.customer, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := e.svc.Create(e.ctx, e.member, validRequest())
	assert.ErrorIs(t, err, ErrForbidden)

	req := validRequest()
	req.Deadline = testutil.TimePtr(now.Add(-time.Hour))
	_, err = e.svc.Create(e.ctx, e.customer, req)
	assert.NoError(t, err, "a deadline earlier today still counts as today")
}

func TestListForActorAndAccess(t *testing.T) {
	t.Parallel()
	e := setup(t)
	other := testutil.CreateTestUser(t, e.repo, "other", models.RoleCustomer)
	p := e.createProject(t)

	mine, err := e.svc.ListForActor(e.ctx, e.customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := e.svc.ListForActor(e.ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := e.svc.ListForActor(e.ctx, e.manager)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assigned, err := e.svc.ListForActor(e.ctx, e.member)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	_, err = e.svc.Get(e.ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.svc.Get(e.ctx, e.member, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.svc.Get(e.ctx, e.manager, 999)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = e.svc.AssignTeam(e.ctx, e.manager, p.ID, []TeamAssignment{{UserID: e.member.ID}})
	require.NoError(t, err)

	ok, err := e.svc.CanAccessProject(e.ctx, e.member, p)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := e.svc.Detail(e.ctx, e.member, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Team, 1)
	assert.Equal(t, 30, detail.DaysLeft)
	assert.False(t, detail.Overdue)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	e := setup(t)
	req := validRequest()
	req.CustomerID = e.customer.ID
	p, err := e.svc.Create(e.ctx, e.manager, req)
	require.NoError(t, err)
	_, err = e.svc.AssignTeam(e.ctx, e.manager, p.ID, []TeamAssignment{{UserID: e.member.ID}})
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(e.ctx, e.customer, p.ID, models.ProjectCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.svc.UpdateStatus(e.ctx, e.manager, p.ID, "Archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := e.svc.UpdateStatus(e.ctx, e.manager, p.ID, models.ProjectCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedAt)

	require.Len(t, e.notifier.statuses, 1)
	call := e.notifier.statuses[0]
	assert.Equal(t, models.ProjectInProgress, call.from)
	assert.Equal(t, models.ProjectCompleted, call.to)
	var emails []string
	for _, r := range call.recipients {
		emails = append(emails, r.Email)
	}
	assert.ElementsMatch(t, []string{"customer@example.com", "member@example.com"}, emails,
		"acting manager is not notified")

	// same status is a no-op
	_, err = e.svc.UpdateStatus(e.ctx, e.manager, p.ID, models.ProjectCompleted)
	require.NoError(t, err)
	assert.Len(t, e.notifier.statuses, 1)

	_, err = e.svc.UpdateStatus(e.ctx, e.manager, p.ID, models.ProjectPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_NotifiesOtherManager(t *testing.T) {
	t.Parallel()
	e := setup(t)
	second := testutil.CreateTestUser(t, e.repo, "second", models.RoleManager)
	req := validRequest()
	req.CustomerID = e.customer.ID
	p, err := e.svc.Create(e.ctx, e.manager, req)
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(e.ctx, second, p.ID, models.ProjectOnHold)
	require.NoError(t, err)

	require.Len(t, e.notifier.statuses, 1)
	assert.Len(t, e.notifier.statuses[0].recipients, 2)
}

func TestAssignTeam(t *testing.T) {
	t.Parallel()
	e := setup(t)
	second := testutil.CreateTestUser(t, e.repo, "second", models.RoleTeamMember)
	p := e.createProject(t)

	_, err := e.svc.AssignTeam(e.ctx, e.manager, p.ID, []TeamAssignment{{UserID: e.customer.ID}})
	assert.ErrorIs(t, err, ErrInvalidTeamMember)

	updated, err := e.svc.AssignTeam(e.ctx, e.manager, p.ID, []TeamAssignment{{UserID: e.member.ID}})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInProgress, updated.Status, "pending project starts with a team")

	_, err = e.svc.AssignTeam(e.ctx, e.manager, p.ID, []TeamAssignment{
		{UserID: e.member.ID}, {UserID: second.ID, Role: "Designer"}, {UserID: second.ID},
	})
	require.NoError(t, err)

	require.Len(t, e.notifier.teams, 2)
	assert.Equal(t, e.member.ID, e.notifier.teams[0][0].ID)
	require.Len(t, e.notifier.teams[1], 1, "only new members are notified")
	assert.Equal(t, second.ID, e.notifier.teams[1][0].ID)

	team, err := e.repo.ListTeamMembers(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, team, 2)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	e := setup(t)
	p := e.createProject(t)
	testutil.CreateTestTask(t, e.repo, p, e.manager, nil, "Cascade me", nil)

	assert.ErrorIs(t, e.svc.Delete(e.ctx, e.customer, p.ID), ErrForbidden)
	require.NoError(t, e.svc.Delete(e.ctx, e.manager, p.ID))
	assert.ErrorIs(t, e.svc.Delete(e.ctx, e.manager, p.ID), ErrProjectNotFound)

	_, err := e.svc.Get(e.ctx, e.manager, p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestDashboardAndReports(t *testing.T) {
	t.Parallel()
	e := setup(t)
	p1 := e.createProject(t)
	e.createProject(t)
	_, err := e.svc.AssignTeam(e.ctx, e.manager, p1.ID, []TeamAssignment{{UserID: e.member.ID}})
	require.NoError(t, err)
	_, err = e.svc.UpdateStatus(e.ctx, e.manager, p1.ID, models.ProjectCompleted)
	require.NoError(t, err)

	testutil.CreateTestTask(t, e.repo, p1, e.manager, e.member, "Late", testutil.TimePtr(now.Add(-time.Hour)))
	testutil.CreateTestTask(t, e.repo, p1, e.manager, e.member, "Fine", testutil.TimePtr(now.Add(time.Hour)))

	d, err := e.svc.Dashboard(e.ctx, e.manager)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Stats.Total)
	assert.Equal(t, 1, d.Stats.Completed)
	assert.Equal(t, 1, d.Stats.Pending)
	assert.Equal(t, 1, d.TeamCount)

	d, err = e.svc.Dashboard(e.ctx, e.member)
	require.NoError(t, err)
	assert.Len(t, d.Projects, 1)
	assert.Len(t, d.Tasks, 2)
	assert.Equal(t, 1, d.OverdueTasks)

	_, err = e.svc.Reports(e.ctx, e.customer)
	assert.ErrorIs(t, err, ErrForbidden)

	r, err := e.svc.Reports(e.ctx, e.manager)
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalProjects)
	assert.Equal(t, 1, r.CompletedProjects)
	assert.Equal(t, 50.0, r.CompletionRate)
	assert.Equal(t, 2, r.TasksByStatus[models.TaskPending])
	assert.Equal(t, 0, r.TasksByStatus[models.TaskBlocked])
}

func TestMilestones(t *testing.T) {
	t.Parallel()
	e := setup(t)
	p := e.createProject(t)

	_, err := e.svc.AddMilestone(e.ctx, e.manager, p.ID, MilestoneRequest{Title: "MVP"})
	assert.ErrorIs(t, err, ErrTitleTooShort)

	m, err := e.svc.AddMilestone(e.ctx, e.manager, p.ID, MilestoneRequest{Title: "Beta launch"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.CompleteMilestone(e.ctx, e.manager, p.ID, m.ID+1), ErrMilestoneNotFound)
	require.NoError(t, e.svc.CompleteMilestone(e.ctx, e.manager, p.ID, m.ID))

	detail, err := e.svc.Detail(e.ctx, e.customer, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Milestones, 1)
	assert.True(t, detail.Milestones[0].IsCompleted())
}
