// Package project implements project lifecycle, team assignment and the
// role-specific dashboards.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

const (
	minTitleLength       = 5
	minDescriptionLength = 20
	defaultTeamRole      = "Developer"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	Get(ctx context.Context, actor *models.User, id types.ProjectID) (*models.Project, error)
	Detail(ctx context.Context, actor *models.User, id types.ProjectID) (*Detail, error)
	ListForActor(ctx context.Context, actor *models.User) ([]*models.Project, error)
	Dashboard(ctx context.Context, actor *models.User) (*Dashboard, error)
	Reports(ctx context.Context, actor *models.User) (*Report, error)
	CanAccessProject(ctx context.Context, actor *models.User, project *models.Project) (bool, error)

	// Write operations
	Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Project, error)
	UpdateStatus(ctx context.Context, actor *models.User, id types.ProjectID, status models.ProjectStatus) (*models.Project, error)
	AssignTeam(ctx context.Context, actor *models.User, id types.ProjectID, members []TeamAssignment) (*models.Project, error)
	Delete(ctx context.Context, actor *models.User, id types.ProjectID) error
	AddMilestone(ctx context.Context, actor *models.User, id types.ProjectID, req MilestoneRequest) (*models.Milestone, error)
	CompleteMilestone(ctx context.Context, actor *models.User, id types.ProjectID, milestoneID types.MilestoneID) error
}

// CreateRequest carries a new project. CustomerID is only read when a
// manager creates a project on a customer's behalf.
type CreateRequest struct {
	Title       string
	Description string
	Complexity  string
	BudgetRange string
	NDARequired bool
	Deadline    *time.Time
	CustomerID  types.UserID
}

// TeamAssignment puts one user on a project. An empty Role becomes
// "Developer".
type TeamAssignment struct {
	UserID types.UserID `json:"user_id"`
	Role   string       `json:"role,omitempty"`
}

type MilestoneRequest struct {
	Title       string
	Description string
	Deadline    *time.Time
}

// Detail is a project with everything shown on its page
type Detail struct {
	Project    *models.Project     `json:"project"`
	Team       []*models.User      `json:"team"`
	Tasks      []*models.Task      `json:"tasks"`
	Milestones []*models.Milestone `json:"milestones"`
	DaysLeft   int                 `json:"days_remaining"`
	Overdue    bool                `json:"overdue"`
}

// Dashboard is the landing summary for one actor. Fields that do not apply to
// the actor's role are left empty.
type Dashboard struct {
	Role         models.Role         `json:"role"`
	Projects     []*models.Project   `json:"projects"`
	Stats        models.ProjectStats `json:"stats"`
	TeamCount    int                 `json:"team_count,omitempty"`
	Tasks        []*models.Task      `json:"tasks,omitempty"`
	OverdueTasks int                 `json:"overdue_tasks,omitempty"`
}

// Report is the manager-wide analytics view
type Report struct {
	TotalProjects     int                       `json:"total_projects"`
	CompletedProjects int                       `json:"completed_projects"`
	ActiveProjects    int                       `json:"active_projects"`
	CompletionRate    float64                   `json:"completion_rate"`
	TasksByStatus     map[models.TaskStatus]int `json:"tasks_by_status"`
}

// Notifier receives project events once the change is committed. Delivery
// problems never reach the caller.
type Notifier interface {
	ProjectStatusChanged(ctx context.Context, project *models.Project, recipients []*models.User, from, to models.ProjectStatus) int
	TeamUpdated(ctx context.Context, project *models.Project, members []*models.User) int
}

// repository defines the data access methods needed by the project service
type repository interface {
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	ListProjectsByCustomer(ctx context.Context, customerID types.UserID) ([]*models.Project, error)
	ListProjectsByTeamMember(ctx context.Context, userID types.UserID) ([]*models.Project, error)
	UpdateProjectStatus(ctx context.Context, id types.ProjectID, status models.ProjectStatus, at time.Time) error
	DeleteProject(ctx context.Context, id types.ProjectID) error
	ReplaceTeam(ctx context.Context, projectID types.ProjectID, members []models.TeamMember) error
	ListTeamMembers(ctx context.Context, projectID types.ProjectID) ([]*models.User, error)
	IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)
	CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error)
	ListMilestones(ctx context.Context, projectID types.ProjectID) ([]*models.Milestone, error)
	CompleteMilestone(ctx context.Context, id types.MilestoneID, at time.Time) error

	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	ListTasksByAssignee(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	CountTasksByStatus(ctx context.Context) ([]models.TaskStatusCount, error)
}

type service struct {
	repo     repository
	notifier Notifier
	now      func() time.Time
}

// NewService creates a project service. notifier may be nil; now defaults to
// time.Now.
func NewService(repo repository, notifier Notifier, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, notifier: notifier, now: now}
}

func (s *service) CanAccessProject(ctx context.Context, actor *models.User, project *models.Project) (bool, error) {
	return access.CanAccessProject(ctx, s.repo, actor, project)
}

func (s *service) Get(ctx context.Context, actor *models.User, id types.ProjectID) (*models.Project, error) {
	if id <= 0 {
		return nil, ErrInvalidProjectID
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireProject(ctx, s.repo, actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Detail(ctx context.Context, actor *models.User, id types.ProjectID) (*Detail, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasksByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	milestones, err := s.repo.ListMilestones(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Detail{
		Project:    p,
		Team:       team,
		Tasks:      tasks,
		Milestones: milestones,
		DaysLeft:   p.DaysRemaining(now),
		Overdue:    p.IsOverdue(now),
	}, nil
}

// ListForActor returns every project for managers, owned projects for
// customers and assigned projects for team members
func (s *service) ListForActor(ctx context.Context, actor *models.User) ([]*models.Project, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	switch actor.Role {
	case models.RoleManager:
		return s.repo.ListProjects(ctx)
	case models.RoleCustomer:
		return s.repo.ListProjectsByCustomer(ctx, actor.ID)
	case models.RoleTeamMember:
		return s.repo.ListProjectsByTeamMember(ctx, actor.ID)
	}
	return nil, ErrForbidden
}

func (s *service) Dashboard(ctx context.Context, actor *models.User) (*Dashboard, error) {
	projects, err := s.ListForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Role: actor.Role, Projects: projects}
	for _, p := range projects {
		d.Stats.Add(p)
	}

	switch actor.Role {
	case models.RoleManager:
		members, err := s.repo.ListUsersByRole(ctx, models.RoleTeamMember)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.IsActive {
				d.TeamCount++
			}
		}
	case models.RoleTeamMember:
		tasks, err := s.repo.ListTasksByAssignee(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		d.Tasks = tasks
		now := s.now()
		for _, t := range tasks {
			if t.IsOverdue(now) {
				d.OverdueTasks++
			}
		}
	}
	return d, nil
}

func (s *service) Reports(ctx context.Context, actor *models.User) (*Report, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountTasksByStatus(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{TotalProjects: len(projects), TasksByStatus: map[models.TaskStatus]int{}}
	for _, st := range models.TaskStatuses {
		r.TasksByStatus[st] = 0
	}
	for _, c := range counts {
		r.TasksByStatus[c.Status] = c.Count
	}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectCompleted:
			r.CompletedProjects++
		case models.ProjectInProgress:
			r.ActiveProjects++
		}
	}
	if r.TotalProjects > 0 {
		rate := float64(r.CompletedProjects) / float64(r.TotalProjects) * 100
		r.CompletionRate = math.Round(rate*10) / 10
	}
	return r, nil
}

// Create validates and stores a project. Customers create their own;
// managers create one for a customer and become its manager.
func (s *service) Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Project, error) {
	if actor == nil || actor.IsTeamMember() {
		return nil, ErrForbidden
	}
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}

	p := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Complexity:  req.Complexity,
		BudgetRange: strings.TrimSpace(req.BudgetRange),
		NDARequired: req.NDARequired,
		Deadline:    req.Deadline,
		Status:      models.ProjectPending,
		CustomerID:  actor.ID,
	}
	if actor.IsManager() {
		customer, err := s.repo.GetUserByID(ctx, req.CustomerID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && !customer.IsCustomer()) {
			return nil, ErrInvalidCustomer
		}
		if err != nil {
			return nil, err
		}
		p.CustomerID = customer.ID
		managerID := actor.ID
		p.ManagerID = &managerID
	}

	created, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

// UpdateStatus moves a project through the transition table and tells the
// customer, the manager (unless acting) and the team
func (s *service) UpdateStatus(ctx context.Context, actor *models.User, id types.ProjectID, status models.ProjectStatus) (*models.Project, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == status {
		return p, nil
	}
	if !p.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, p.Status, status)
	}

	old := p.Status
	if err := s.repo.UpdateProjectStatus(ctx, id, status, s.now()); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		recipients, err := s.stakeholders(ctx, updated, actor)
		if err != nil {
			slog.Warn("failed to resolve status change recipients", "project_id", id, "error", err)
		} else {
			s.notifier.ProjectStatusChanged(ctx, updated, recipients, old, status)
		}
	}
	return updated, nil
}

// AssignTeam replaces the project's team. A pending project starts once it
// has a team. Newly added members are notified.
func (s *service) AssignTeam(ctx context.Context, actor *models.User, id types.ProjectID, members []TeamAssignment) (*models.Project, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, err := s.repo.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	already := make(map[types.UserID]bool, len(previous))
	for _, u := range previous {
		already[u.ID] = true
	}

	rows := make([]models.TeamMember, 0, len(members))
	var added []*models.User
	seen := make(map[types.UserID]bool, len(members))
	for _, m := range members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true

		u, err := s.repo.GetUserByID(ctx, m.UserID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && !u.IsTeamMember()) {
			return nil, fmt.Errorf("%w: user %d", ErrInvalidTeamMember, m.UserID)
		}
		if err != nil {
			return nil, err
		}
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = defaultTeamRole
		}
		rows = append(rows, models.TeamMember{ProjectID: id, UserID: u.ID, Role: role})
		if !already[u.ID] {
			added = append(added, u)
		}
	}

	if err := s.repo.ReplaceTeam(ctx, id, rows); err != nil {
		return nil, fmt.Errorf("failed to assign team: %w", err)
	}
	if p.Status == models.ProjectPending && len(rows) > 0 {
		if err := s.repo.UpdateProjectStatus(ctx, id, models.ProjectInProgress, s.now()); err != nil {
			return nil, fmt.Errorf("failed to start project: %w", err)
		}
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil && len(added) > 0 {
		s.notifier.TeamUpdated(ctx, updated, added)
	}
	return updated, nil
}

// Delete removes the project and everything it owns
func (s *service) Delete(ctx context.Context, actor *models.User, id types.ProjectID) error {
	if err := access.RequireManager(actor); err != nil {
		return err
	}
	err := s.repo.DeleteProject(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}

func (s *service) AddMilestone(ctx context.Context, actor *models.User, id types.ProjectID, req MilestoneRequest) (*models.Milestone, error) {
	if err := access.RequireManager(actor); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return nil, ErrTitleTooShort
	}
	return s.repo.CreateMilestone(ctx, &models.Milestone{
		ProjectID:   id,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Deadline:    req.Deadline,
	})
}

func (s *service) CompleteMilestone(ctx context.Context, actor *models.User, id types.ProjectID, milestoneID types.MilestoneID) error {
	if err := access.RequireManager(actor); err != nil {
		return err
	}
	milestones, err := s.repo.ListMilestones(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range milestones {
		if m.ID == milestoneID {
			return s.repo.CompleteMilestone(ctx, milestoneID, s.now())
		}
	}
	return ErrMilestoneNotFound
}

// stakeholders lists the customer, the manager unless they are the actor,
// and the team, each once
func (s *service) stakeholders(ctx context.Context, p *models.Project, actor *models.User) ([]*models.User, error) {
	seen := map[types.UserID]bool{}
	var out []*models.User
	add := func(u *models.User) {
		if u == nil || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		out = append(out, u)
	}

	customer, err := s.repo.GetUserByID(ctx, p.CustomerID)
	if err != nil {
		return nil, err
	}
	add(customer)

	if p.ManagerID != nil && *p.ManagerID != actor.ID {
		manager, err := s.repo.GetUserByID(ctx, *p.ManagerID)
		if err != nil {
			return nil, err
		}
		add(manager)
	}

	team, err := s.repo.ListTeamMembers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, u := range team {
		add(u)
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	p, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (s *service) validateCreate(req *CreateRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Complexity = strings.TrimSpace(req.Complexity)

	if utf8.RuneCountInString(req.Title) < minTitleLength {
		return ErrTitleTooShort
	}
	if utf8.RuneCountInString(req.Description) < minDescriptionLength {
		return ErrDescriptionTooShort
	}
	if req.Complexity == "" {
		return ErrMissingComplexity
	}
	if req.Deadline == nil {
		return ErrMissingDeadline
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if req.Deadline.UTC().Before(today) {
		return ErrDeadlinePassed
	}
	return nil
}
