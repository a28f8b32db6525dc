// Package reminder periodically scans for tasks nearing their deadline and
// sends one reminder email per assignee.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/notify"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// State is what the poller is doing right now
type State int32

const (
	StateSleeping State = iota
	StateScanning
)

func (s State) String() string {
	if s == StateScanning {
		return "scanning"
	}
	return "sleeping"
}

// Store is the slice of the datastore the poller reads and writes
type Store interface {
	ListDueTasks(ctx context.Context, from, to time.Time, assignedOnly bool) ([]*models.DueTask, error)
	ListOverdueTasks(ctx context.Context, now time.Time) ([]*models.DueTask, error)
	LastReminded(ctx context.Context, taskID types.TaskID, category models.Category) (time.Time, bool, error)
	MarkReminded(ctx context.Context, taskID types.TaskID, category models.Category, at time.Time) error
}

// Decider resolves a user's preference at a point in time
type Decider interface {
	DecideAt(ctx context.Context, userID types.UserID, category models.Category, checkQuietHours bool, at time.Time) notify.Decision
}

// Sender queues reminder emails; *notify.Dispatcher satisfies it
type Sender interface {
	DeadlineReminder(ctx context.Context, task *models.Task, project *models.Project, assignee *models.User) error
	RecordSuppressed(recipient string, category models.Category, reason string)
}

// Config controls scan cadence and duplicate suppression
type Config struct {
	Interval    time.Duration
	Lookahead   time.Duration
	Policy      string
	RepeatAfter time.Duration
	Now         func() time.Time
}

// ConfigFrom maps the notifications config block onto a poller Config
func ConfigFrom(n config.NotificationsConfig) Config {
	return Config{
		Interval:    n.ReminderInterval,
		Lookahead:   n.ReminderLookahead,
		Policy:      n.ReminderPolicy,
		RepeatAfter: n.ReminderRepeatAfter,
	}
}

// ScanResult summarizes one pass
type ScanResult struct {
	Candidates      int       `json:"candidates"`
	Sent            int       `json:"sent"`
	Suppressed      int       `json:"suppressed"`
	AlreadyReminded int       `json:"already_reminded"`
	Failed          int       `json:"failed"`
	Overdue         int       `json:"overdue"`
	StartedAt       time.Time `json:"started_at"`
	Duration        string    `json:"duration"`
}

// Poller owns the reminder loop
type Poller struct {
	store  Store
	decide Decider
	sender Sender
	cfg    Config
	state  atomic.Int32
	scans  atomic.Int64
}

func NewPoller(store Store, decide Decider, sender Sender, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 24 * time.Hour
	}
	if cfg.Policy == "" {
		cfg.Policy = config.PolicyOnce
	}
	if cfg.RepeatAfter <= 0 {
		cfg.RepeatAfter = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Poller{store: store, decide: decide, sender: sender, cfg: cfg}
}

// State reports whether a scan is in progress
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Scans returns how many scans have completed
func (p *Poller) Scans() int64 {
	return p.scans.Load()
}

// Run scans once immediately and then on every tick until ctx is cancelled.
// A failed scan is logged and the loop carries on.
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("reminder poller started",
		"interval", p.cfg.Interval, "lookahead", p.cfg.Lookahead, "policy", p.cfg.Policy)

	p.runOnce(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	res, err := p.Scan(ctx)
	if err != nil {
		slog.Error("deadline scan failed", "error", err)
		return
	}
	slog.Info("deadline scan finished",
		"candidates", res.Candidates,
		"sent", res.Sent,
		"suppressed", res.Suppressed,
		"already_reminded", res.AlreadyReminded,
		"failed", res.Failed,
		"overdue", res.Overdue,
		"duration", res.Duration)
}

// Scan sends reminders for unfinished assigned tasks due within the
// lookahead window. Per-task failures are counted, not returned.
func (p *Poller) Scan(ctx context.Context) (ScanResult, error) {
	p.state.Store(int32(StateScanning))
	defer p.state.Store(int32(StateSleeping))

	now := p.cfg.Now().UTC()
	res := ScanResult{StartedAt: now}

	due, err := p.store.ListDueTasks(ctx, now, now.Add(p.cfg.Lookahead), true)
	if err != nil {
		return res, fmt.Errorf("failed to list due tasks: %w", err)
	}
	res.Candidates = len(due)

	for _, d := range due {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		p.remind(ctx, d, now, &res)
	}

	overdue, err := p.store.ListOverdueTasks(ctx, now)
	if err != nil {
		slog.Warn("failed to list overdue tasks", "error", err)
	} else {
		res.Overdue = len(overdue)
		for _, d := range overdue {
			slog.Debug("task overdue", "task_id", d.Task.ID, "title", d.Task.Title, "deadline", d.Task.Deadline)
		}
	}

	p.scans.Add(1)
	res.Duration = time.Since(now).Round(time.Millisecond).String()
	return res, nil
}

func (p *Poller) remind(ctx context.Context, d *models.DueTask, now time.Time, res *ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			res.Failed++
			slog.Error("reminder for task panicked", "task_id", d.Task.ID, "panic", r)
		}
	}()

	if d.Assignee == nil {
		return
	}
	task := d.Task
	category := models.CategoryDeadlineReminder

	if p.cfg.Policy == config.PolicyOnce {
		last, ok, err := p.store.LastReminded(ctx, task.ID, category)
		if err != nil {
			res.Failed++
			slog.Warn("failed to read reminder watermark", "task_id", task.ID, "error", err)
			return
		}
		if ok && now.Sub(last) < p.cfg.RepeatAfter {
			res.AlreadyReminded++
			return
		}
	}

	decision := p.decide.DecideAt(ctx, d.Assignee.ID, category, true, now)
	if !decision.Allowed {
		res.Suppressed++
		p.sender.RecordSuppressed(d.Assignee.Email, category, decision.Reason)
		slog.Debug("deadline reminder suppressed",
			"task_id", task.ID, "user_id", d.Assignee.ID, "reason", decision.Reason)
		return
	}

	if err := p.sender.DeadlineReminder(ctx, task, d.Project, d.Assignee); err != nil {
		res.Failed++
		slog.Warn("failed to queue deadline reminder", "task_id", task.ID, "error", err)
		return
	}
	res.Sent++

	if err := p.store.MarkReminded(ctx, task.ID, category, now); err != nil {
		slog.Warn("failed to record reminder watermark", "task_id", task.ID, "error", err)
	}
}
