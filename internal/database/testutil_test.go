package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestRepo opens an in-memory database with the real migrations
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := InitDB(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func createUser(t *testing.T, repo *Repository, name string, role models.Role) *models.User {
	t.Helper()
	u, err := repo.CreateUserWithSettings(context.Background(), &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hash",
		Role:         role,
	}, models.DefaultNotificationSettings(0))
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

func createProject(t *testing.T, repo *Repository, customer *models.User) *models.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), &models.Project{
		Title:       "Website redesign",
		Description: "Rebuild the storefront with the new brand guide",
		CustomerID:  customer.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return p
}

func createTask(t *testing.T, repo *Repository, p *models.Project, creator, assignee *models.User, deadline *time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		ProjectID:   p.ID,
		Title:       "Implement checkout",
		Priority:    models.PriorityHigh,
		Deadline:    deadline,
		CreatedByID: creator.ID,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssigneeID = &id
	}
	created, err := repo.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	return created
}

func at(t time.Time) *time.Time {
	return &t
}
