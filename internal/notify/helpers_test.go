package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// fakeSettings is an in-memory SettingsReader
type fakeSettings struct {
	mu   sync.Mutex
	rows map[types.UserID]*models.NotificationSettings
	err  error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{rows: map[types.UserID]*models.NotificationSettings{}}
}

func (f *fakeSettings) put(s *models.NotificationSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.UserID] = s
}

func (f *fakeSettings) GetNotificationSettings(_ context.Context, userID types.UserID) (*models.NotificationSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.rows[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return s, nil
}

// fakeRecorder collects persisted outcomes
type fakeRecorder struct {
	mu      sync.Mutex
	entries []*models.NotificationLog
}

func (r *fakeRecorder) RecordNotification(_ context.Context, entry *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRecorder) all() []*models.NotificationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.NotificationLog(nil), r.entries...)
}

var errBoom = errors.New("smtp unavailable")

// noon is outside the default quiet window
var noon = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type harness struct {
	settings   *fakeSettings
	transport  *mail.RecordingTransport
	recorder   *fakeRecorder
	dispatcher *Dispatcher
}

func newHarness(t *testing.T, now time.Time, opts Options) *harness {
	t.Helper()
	composer, err := mail.NewComposer(mail.WithClock(clockAt(now)))
	require.NoError(t, err)

	h := &harness{
		settings:  newFakeSettings(),
		transport: &mail.RecordingTransport{},
		recorder:  &fakeRecorder{},
	}
	opts.Recorder = h.recorder
	if opts.Now == nil {
		opts.Now = clockAt(now)
	}
	resolver := NewResolver(h.settings, time.UTC, clockAt(now))
	h.dispatcher = NewDispatcher(composer, h.transport, resolver, opts)
	return h
}

func user(id int, name string) *models.User {
	return &models.User{ID: types.UserID(id), Name: name, Email: name + "@example.com", Role: models.RoleTeamMember}
}

func sampleTask() (*models.Task, *models.Project) {
	deadline := noon.Add(20 * time.Hour)
	return &models.Task{ID: 1, Title: "Wire checkout", Priority: models.PriorityHigh, Status: models.TaskPending, Deadline: &deadline},
		&models.Project{ID: 1, Title: "Storefront", Status: models.ProjectInProgress}
}
