// Package database defines repository interfaces for data access
package database

import (
	"context"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// UserRepository covers account storage
type UserRepository interface {
	CreateUserWithSettings(ctx context.Context, u *models.User, settings *models.NotificationSettings) (*models.User, error)
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateUserProfile(ctx context.Context, id types.UserID, name, email, avatar string) error
	UpdateUserPassword(ctx context.Context, id types.UserID, hash string) error
	UpdateUserTheme(ctx context.Context, id types.UserID, theme models.Theme) error
}

// SettingsRepository covers notification preferences
type SettingsRepository interface {
	GetNotificationSettings(ctx context.Context, userID types.UserID) (*models.NotificationSettings, error)
	CreateNotificationSettings(ctx context.Context, s *models.NotificationSettings) (*models.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, s *models.NotificationSettings) error
	ListUsersWithoutSettings(ctx context.Context) ([]*models.User, error)
	ListUserSettings(ctx context.Context) ([]*models.UserSettings, error)
}

// ProjectRepository covers projects, teams, milestones and progress roll-up
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	ListProjectsByCustomer(ctx context.Context, customerID types.UserID) ([]*models.Project, error)
	ListProjectsByTeamMember(ctx context.Context, userID types.UserID) ([]*models.Project, error)
	UpdateProjectStatus(ctx context.Context, id types.ProjectID, status models.ProjectStatus, at time.Time) error
	SetProjectManager(ctx context.Context, id types.ProjectID, managerID types.UserID) error
	DeleteProject(ctx context.Context, id types.ProjectID) error
	RecalculateProjectProgress(ctx context.Context, id types.ProjectID) (int, error)
	ReplaceTeam(ctx context.Context, projectID types.ProjectID, members []models.TeamMember) error
	ListTeamMembers(ctx context.Context, projectID types.ProjectID) ([]*models.User, error)
	IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)
	CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error)
	ListMilestones(ctx context.Context, projectID types.ProjectID) ([]*models.Milestone, error)
	CompleteMilestone(ctx context.Context, id types.MilestoneID, at time.Time) error
}

// TaskRepository covers tasks, notes, dependencies and deadline queries
type TaskRepository interface {
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	GetTaskByID(ctx context.Context, id types.TaskID) (*models.Task, error)
	ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	ListTasksByAssignee(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	AssignTask(ctx context.Context, id types.TaskID, assigneeID types.UserID, status models.TaskStatus, progress int) error
	UpdateTaskProgress(ctx context.Context, id types.TaskID, progress int, status models.TaskStatus, completedAt *time.Time) error
	RecordTaskProgress(ctx context.Context, id types.TaskID, progress int, status models.TaskStatus, completedAt *time.Time, note *models.TaskNote) (*models.TaskNote, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	AddTaskNote(ctx context.Context, n *models.TaskNote) (*models.TaskNote, error)
	ListTaskNotes(ctx context.Context, taskID types.TaskID) ([]*models.TaskNote, error)
	AddTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error
	RemoveTaskDependency(ctx context.Context, taskID, dependsOnID types.TaskID) error
	ListTaskDependencies(ctx context.Context, taskID types.TaskID) ([]types.TaskID, error)
	DependencyPathExists(ctx context.Context, from, to types.TaskID) (bool, error)
	CountTasksByStatus(ctx context.Context) ([]models.TaskStatusCount, error)
	ListDueTasks(ctx context.Context, from, to time.Time, assignedOnly bool) ([]*models.DueTask, error)
	ListOverdueTasks(ctx context.Context, now time.Time) ([]*models.DueTask, error)
}

// MessageRepository covers project chat
type MessageRepository interface {
	CreateChatMessage(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error)
	ListChatMessages(ctx context.Context, projectID types.ProjectID, sinceID types.MessageID) ([]*models.ChatMessage, error)
}

// ReminderRepository covers the reminder watermark
type ReminderRepository interface {
	LastReminded(ctx context.Context, taskID types.TaskID, category models.Category) (time.Time, bool, error)
	MarkReminded(ctx context.Context, taskID types.TaskID, category models.Category, at time.Time) error
}

// NotificationLogRepository covers dispatch outcome history
type NotificationLogRepository interface {
	RecordNotification(ctx context.Context, entry *models.NotificationLog) error
	ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error)
}

// DataStore is the union of every repository. Consumers should depend on the
// smaller interfaces where they can.
type DataStore interface {
	UserRepository
	SettingsRepository
	ProjectRepository
	TaskRepository
	MessageRepository
	ReminderRepository
	NotificationLogRepository
}
