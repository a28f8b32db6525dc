package models

import (
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Project is a customer engagement that owns tasks, team assignments,
// milestones and chat messages
type Project struct {
	ID          types.ProjectID `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Complexity  string          `json:"complexity,omitempty"`
	Status      ProjectStatus   `json:"status"`
	Progress    int             `json:"progress"`
	BudgetRange string          `json:"budget_range,omitempty"`
	NDARequired bool            `json:"nda_required"`
	CreatedAt   time.Time       `json:"created_at"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CustomerID  types.UserID    `json:"customer_id"`
	ManagerID   *types.UserID   `json:"manager_id,omitempty"`
}

// DaysRemaining returns whole days until the deadline, floored at zero.
// Projects without a deadline report zero.
func (p *Project) DaysRemaining(now time.Time) int {
	if p.Deadline == nil {
		return 0
	}
	d := p.Deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// IsOverdue reports whether the deadline passed on an unfinished project
func (p *Project) IsOverdue(now time.Time) bool {
	return p.Deadline != nil && now.After(*p.Deadline) && p.Status != ProjectCompleted
}

func (p *Project) GetID() int {
	return int(p.ID)
}

// TeamMember assigns a user to a project
type TeamMember struct {
	ID         types.TeamMemberID `json:"id"`
	ProjectID  types.ProjectID    `json:"project_id"`
	UserID     types.UserID       `json:"user_id"`
	Role       string             `json:"role,omitempty"`
	AssignedAt time.Time          `json:"assigned_at"`
	IsActive   bool               `json:"is_active"`
}

// Milestone marks a checkpoint inside a project
type Milestone struct {
	ID          types.MilestoneID `json:"id"`
	ProjectID   types.ProjectID   `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Progress    int               `json:"progress"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (m *Milestone) IsCompleted() bool {
	return m.CompletedAt != nil
}

// ChatMessage is an append-only message on a project's conversation
type ChatMessage struct {
	ID        types.MessageID `json:"id"`
	ProjectID types.ProjectID `json:"project_id"`
	SenderID  types.UserID    `json:"sender_id"`
	Sender    string          `json:"sender,omitempty"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProjectStats summarises a project list for dashboards
type ProjectStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	OnHold     int `json:"on_hold"`
}

// Add counts p into the matching bucket
func (s *ProjectStats) Add(p *Project) {
	s.Total++
	switch p.Status {
	case ProjectPending:
		s.Pending++
	case ProjectInProgress:
		s.InProgress++
	case ProjectCompleted:
		s.Completed++
	case ProjectOnHold:
		s.OnHold++
	}
}
