// Package chat implements the per-project conversation
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/services/access"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

const maxMessageLength = 4000

// Service defines chat operations
type Service interface {
	Send(ctx context.Context, actor *models.User, projectID types.ProjectID, body string) (*models.ChatMessage, error)
	List(ctx context.Context, actor *models.User, projectID types.ProjectID, sinceID types.MessageID) ([]*models.ChatMessage, error)
}

// Notifier receives posted messages after they are stored
type Notifier interface {
	NewMessage(ctx context.Context, chat *models.ChatMessage, project *models.Project, sender *models.User, recipients []*models.User) int
}

// repository defines the data access methods needed by the chat service
type repository interface {
	CreateChatMessage(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error)
	ListChatMessages(ctx context.Context, projectID types.ProjectID, sinceID types.MessageID) ([]*models.ChatMessage, error)
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	ListTeamMembers(ctx context.Context, projectID types.ProjectID) ([]*models.User, error)
	IsTeamMember(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
}

type service struct {
	repo     repository
	notifier Notifier
}

// NewService creates a chat service. notifier may be nil.
func NewService(repo repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

// Send stores a message and tells every other participant of the project
func (s *service) Send(ctx context.Context, actor *models.User, projectID types.ProjectID, body string) (*models.ChatMessage, error) {
	project, err := s.authorize(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	msg, err := s.repo.CreateChatMessage(ctx, &models.ChatMessage{
		ProjectID: projectID,
		SenderID:  actor.ID,
		Body:      body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.notifier != nil {
		recipients, err := s.participants(ctx, project, actor.ID)
		if err != nil {
			slog.Warn("failed to resolve chat recipients", "project_id", projectID, "error", err)
		} else if len(recipients) > 0 {
			s.notifier.NewMessage(ctx, msg, project, actor, recipients)
		}
	}
	return msg, nil
}

// List returns messages newer than sinceID in posting order
func (s *service) List(ctx context.Context, actor *models.User, projectID types.ProjectID, sinceID types.MessageID) ([]*models.ChatMessage, error) {
	if _, err := s.authorize(ctx, actor, projectID); err != nil {
		return nil, err
	}
	if sinceID < 0 {
		sinceID = 0
	}
	return s.repo.ListChatMessages(ctx, projectID, sinceID)
}

func (s *service) authorize(ctx context.Context, actor *models.User, projectID types.ProjectID) (*models.Project, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := access.RequireProject(ctx, s.repo, actor, project); err != nil {
		return nil, err
	}
	return project, nil
}

// participants is the customer, the manager and the active team, without
// the sender and without duplicates
func (s *service) participants(ctx context.Context, project *models.Project, senderID types.UserID) ([]*models.User, error) {
	seen := map[types.UserID]bool{senderID: true}
	var out []*models.User
	add := func(u *models.User) {
		if u == nil || seen[u.ID] || !u.IsActive {
			return
		}
		seen[u.ID] = true
		out = append(out, u)
	}

	ids := []types.UserID{project.CustomerID}
	if project.ManagerID != nil {
		ids = append(ids, *project.ManagerID)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		u, err := s.repo.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		add(u)
	}

	team, err := s.repo.ListTeamMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, u := range team {
		add(u)
	}
	return out, nil
}
