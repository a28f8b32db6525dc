// Package testutil holds shared fixtures for package tests
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// SetupTestDB creates an in-memory database with the full schema. It is
// closed when the test ends.
func SetupTestDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepo is SetupTestDB wrapped in a Repository
func SetupTestRepo(t testing.TB) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// CreateTestUser inserts an account with default notification settings.
// The email is derived from name.
func CreateTestUser(t testing.TB, repo database.UserRepository, name string, role models.Role) *models.User {
	t.Helper()
	u, err := repo.CreateUserWithSettings(context.Background(), &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}, models.DefaultNotificationSettings(0))
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return u
}

// CreateTestProject inserts a pending project owned by customer
func CreateTestProject(t testing.TB, repo database.ProjectRepository, customer *models.User, manager *models.User, title string) *models.Project {
	t.Helper()
	p := &models.Project{
		Title:       title,
		Description: "A project created by the test fixtures",
		CustomerID:  customer.ID,
	}
	if manager != nil {
		p.ManagerID = &manager.ID
	}
	project, err := repo.CreateProject(context.Background(), p)
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return project
}

// CreateTestTask inserts a task. A nil assignee or deadline leaves the column
// empty.
func CreateTestTask(t testing.TB, repo database.TaskRepository, project *models.Project, creator, assignee *models.User, title string, deadline *time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		ProjectID:   project.ID,
		Title:       title,
		Description: "Task created by the test fixtures",
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

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}

// UserIDPtr returns a pointer to id
func UserIDPtr(id types.UserID) *types.UserID {
	return &id
}

// Clock is a settable time source for code that takes func() time.Time
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
