package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Notification settings
// ============================================================================

func TestIsQuietHourAt_Wraparound(t *testing.T) {
	s := DefaultNotificationSettings(1)

	quiet := []int{22, 23, 0, 3, 7}
	loud := []int{8, 10, 12, 21}

	for _, h := range quiet {
		assert.True(t, s.IsQuietHourAt(h), "hour %d should be quiet", h)
	}
	for _, h := range loud {
		assert.False(t, s.IsQuietHourAt(h), "hour %d should not be quiet", h)
	}
}

func TestIsQuietHourAt_SameDayWindow(t *testing.T) {
	s := DefaultNotificationSettings(1)
	s.QuietHoursStart = 9
	s.QuietHoursEnd = 17

	assert.True(t, s.IsQuietHourAt(9))
	assert.True(t, s.IsQuietHourAt(16))
	assert.False(t, s.IsQuietHourAt(17))
	assert.False(t, s.IsQuietHourAt(8))
	assert.False(t, s.IsQuietHourAt(23))
}

func TestIsQuietHourAt_EqualBoundsMeansNoWindow(t *testing.T) {
	s := DefaultNotificationSettings(1)
	s.QuietHoursStart = 5
	s.QuietHoursEnd = 5

	for h := 0; h < 24; h++ {
		assert.False(t, s.IsQuietHourAt(h))
	}
}

func TestIsQuietHour_UsesLocationHour(t *testing.T) {
	s := DefaultNotificationSettings(1)
	at := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.True(t, s.IsQuietHour(at))
	assert.False(t, s.IsQuietHour(at.Add(10*time.Hour)))
}

func TestShouldSendEmail(t *testing.T) {
	s := DefaultNotificationSettings(1)

	t.Run("defaults allow every category", func(t *testing.T) {
		for _, c := range Categories {
			assert.True(t, s.ShouldSendEmail(c), string(c))
			assert.True(t, s.ShouldNotifyInApp(c), string(c))
		}
	})

	t.Run("stored flag is returned", func(t *testing.T) {
		s.EmailTaskAssigned = false
		assert.False(t, s.ShouldSendEmail(CategoryTaskAssigned))
		assert.True(t, s.ShouldSendEmail(CategoryDeadlineReminder))
	})

	t.Run("unknown category fails open", func(t *testing.T) {
		assert.True(t, s.ShouldSendEmail(Category("weekly_summary")))
		assert.True(t, s.ShouldNotifyInApp(Category("weekly_summary")))
	})
}

func TestSetEmail(t *testing.T) {
	s := DefaultNotificationSettings(1)
	assert.True(t, s.SetEmail(CategoryNewMessage, false))
	assert.False(t, s.ShouldSendEmail(CategoryNewMessage))
	assert.False(t, s.SetEmail(Category("nope"), false))
}

// ============================================================================
// Status enums
// ============================================================================

func TestProjectStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ProjectStatus
		ok       bool
	}{
		{ProjectPending, ProjectInProgress, true},
		{ProjectPending, ProjectCompleted, false},
		{ProjectInProgress, ProjectCompleted, true},
		{ProjectOnHold, ProjectPending, true},
		{ProjectCompleted, ProjectInProgress, true},
		{ProjectCompleted, ProjectOnHold, false},
		{ProjectOnHold, ProjectOnHold, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	assert.True(t, TaskPending.CanTransitionTo(TaskCompleted))
	assert.True(t, TaskBlocked.CanTransitionTo(TaskInProgress))
	assert.False(t, TaskBlocked.CanTransitionTo(TaskCompleted))
	assert.False(t, TaskCompleted.CanTransitionTo(TaskBlocked))
	assert.False(t, TaskStatus("Archived").CanTransitionTo(TaskStatus("Archived")))
}

func TestParseEnums(t *testing.T) {
	st, err := ParseProjectStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, ProjectInProgress, st)

	ts, err := ParseTaskStatus("Blocked")
	require.NoError(t, err)
	assert.Equal(t, TaskBlocked, ts)

	p, err := ParsePriority("critical")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	r, err := ParseRole(" Team_Member ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamMember, r)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = ParseProjectStatus("Archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

// ============================================================================
// Derived values
// ============================================================================

func TestProjectDaysRemaining(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(72*time.Hour + time.Hour)
	p := &Project{Deadline: &deadline}
	assert.Equal(t, 3, p.DaysRemaining(now))

	past := now.Add(-time.Hour)
	p.Deadline = &past
	assert.Equal(t, 0, p.DaysRemaining(now))

	p.Deadline = nil
	assert.Equal(t, 0, p.DaysRemaining(now))
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	task := &Task{Status: TaskInProgress, Deadline: &past}
	assert.True(t, task.IsOverdue(now))

	task.Status = TaskCompleted
	assert.False(t, task.IsOverdue(now))

	task.Deadline = nil
	task.Status = TaskPending
	assert.False(t, task.IsOverdue(now))
}
