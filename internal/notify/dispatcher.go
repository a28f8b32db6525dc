package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
)

// OutcomeStatus is the final state of one message
type OutcomeStatus string

const (
	StatusSent       OutcomeStatus = "sent"
	StatusFailed     OutcomeStatus = "failed"
	StatusSuppressed OutcomeStatus = "suppressed"
	StatusDropped    OutcomeStatus = "dropped"
)

// Outcome reports what happened to one message
type Outcome struct {
	Message mail.Message
	Status  OutcomeStatus
	Reason  string
	Err     error
	At      time.Time
}

// OutcomeRecorder persists outcomes; database.NotificationLogRepo satisfies it
type OutcomeRecorder interface {
	RecordNotification(ctx context.Context, entry *models.NotificationLog) error
}

// Options tune a Dispatcher. Zero values take the defaults noted per field.
type Options struct {
	// Workers is the number of sender goroutines (2)
	Workers int
	// QueueSize bounds messages waiting for a worker (100)
	QueueSize int
	// EnforceQuietHours gates request-triggered events on quiet hours
	EnforceQuietHours bool
	// SendTimeout bounds one transport call (15s)
	SendTimeout time.Duration
	// Recorder receives every outcome when set
	Recorder OutcomeRecorder
	Now      func() time.Time
}

// Dispatcher renders, gates and delivers notification emails. Enqueueing
// never blocks; a fixed pool of workers drains the queue. Delivery failures
// are logged and recorded, never retried and never returned to the caller
// that triggered the event.
type Dispatcher struct {
	composer     *mail.Composer
	transport    mail.Transport
	resolver     *Resolver
	recorder     OutcomeRecorder
	enforceQuiet bool
	workers      int
	sendTimeout  time.Duration
	now          func() time.Time

	queue    chan mail.Message
	outcomes chan Outcome
	metrics  *Metrics

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(composer *mail.Composer, transport mail.Transport, resolver *Resolver, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		composer:     composer,
		transport:    transport,
		resolver:     resolver,
		recorder:     opts.Recorder,
		enforceQuiet: opts.EnforceQuietHours,
		workers:      opts.Workers,
		sendTimeout:  opts.SendTimeout,
		now:          opts.Now,
		queue:        make(chan mail.Message, opts.QueueSize),
		outcomes:     make(chan Outcome, opts.QueueSize),
		metrics:      NewMetrics(),
	}
}

// Start launches the worker pool. Cancelling ctx does not abort queued
// sends; call Close to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	base := context.WithoutCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			for msg := range d.queue {
				d.deliver(base, msg)
			}
			slog.Debug("notification worker stopped", "worker", id)
		}(i)
	}
	slog.Info("notification dispatcher started", "workers", d.workers, "queue_size", cap(d.queue))
}

// Close stops intake and waits until every queued message was attempted.
// Messages queued before Start are delivered inline.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	started := d.started
	close(d.queue)
	d.mu.Unlock()

	if !started {
		for msg := range d.queue {
			d.deliver(context.Background(), msg)
		}
	}
	d.wg.Wait()
}

// Outcomes delivers one Outcome per message. Outcomes are dropped when the
// buffer is full. The channel is never closed.
func (d *Dispatcher) Outcomes() <-chan Outcome {
	return d.outcomes
}

func (d *Dispatcher) Metrics() MetricsSnapshot {
	snap := d.metrics.GetSnapshot()
	snap.QueueDepth = len(d.queue)
	return snap
}

// TaskAssigned notifies the assignee of a new task. It reports whether a
// message was queued.
func (d *Dispatcher) TaskAssigned(ctx context.Context, task *models.Task, project *models.Project, assignee *models.User) bool {
	msg, err := d.composer.TaskAssigned(task, project, assignee)
	return d.dispatch(ctx, assignee, models.CategoryTaskAssigned, msg, err)
}

// ProjectStatusChanged sends one message per recipient who accepts it and
// returns how many were queued
func (d *Dispatcher) ProjectStatusChanged(ctx context.Context, project *models.Project, recipients []*models.User, from, to models.ProjectStatus) int {
	queued := 0
	for _, r := range recipients {
		msg, err := d.composer.ProjectStatusChanged(project, r, from, to)
		if d.dispatch(ctx, r, models.CategoryProjectStatusChange, msg, err) {
			queued++
		}
	}
	return queued
}

// TaskCompleted notifies recipient that completedBy finished task
func (d *Dispatcher) TaskCompleted(ctx context.Context, task *models.Task, project *models.Project, completedBy, recipient *models.User) bool {
	msg, err := d.composer.TaskCompleted(task, project, completedBy, recipient)
	return d.dispatch(ctx, recipient, models.CategoryTaskCompleted, msg, err)
}

// NewMessage notifies every recipient of a chat message
func (d *Dispatcher) NewMessage(ctx context.Context, chat *models.ChatMessage, project *models.Project, sender *models.User, recipients []*models.User) int {
	queued := 0
	for _, r := range recipients {
		msg, err := d.composer.NewMessage(chat, project, sender, r)
		if d.dispatch(ctx, r, models.CategoryNewMessage, msg, err) {
			queued++
		}
	}
	return queued
}

// TeamUpdated notifies newly assigned members
func (d *Dispatcher) TeamUpdated(ctx context.Context, project *models.Project, members []*models.User) int {
	queued := 0
	for _, m := range members {
		msg, err := d.composer.TeamUpdated(project, m)
		if d.dispatch(ctx, m, models.CategoryTeamUpdate, msg, err) {
			queued++
		}
	}
	return queued
}

// DeadlineReminder queues a reminder without consulting preferences; the
// reminder poller gates before calling it.
func (d *Dispatcher) DeadlineReminder(ctx context.Context, task *models.Task, project *models.Project, assignee *models.User) error {
	msg, err := d.composer.DeadlineReminder(task, project, assignee)
	if err != nil {
		d.renderFailed(assignee.Email, models.CategoryDeadlineReminder, err)
		return err
	}
	return d.enqueue(msg)
}

// SendTest queues the operator test message. Test messages are never gated.
func (d *Dispatcher) SendTest(ctx context.Context, recipient string) error {
	msg, err := d.composer.Test(recipient)
	if err != nil {
		return err
	}
	return d.enqueue(msg)
}

// DeliverTest sends the test message synchronously and returns the
// transport error
func (d *Dispatcher) DeliverTest(ctx context.Context, recipient string) (mail.Message, error) {
	msg, err := d.composer.Test(recipient)
	if err != nil {
		return mail.Message{}, err
	}
	return msg, d.deliver(ctx, msg)
}

// Send queues an ad-hoc message. An empty text body reuses html.
func (d *Dispatcher) Send(ctx context.Context, subject, recipient, html, text string) error {
	msg := d.composer.Custom(models.CategoryTest, recipient, subject, html, text)
	if err := msg.Validate(); err != nil {
		return err
	}
	return d.enqueue(msg)
}

// RecordSuppressed accounts for a message a caller decided not to send
func (d *Dispatcher) RecordSuppressed(recipient string, category models.Category, reason string) {
	d.metrics.IncSuppressed()
	d.finish(mail.Message{To: []string{recipient}, Category: category}, StatusSuppressed, reason, nil)
}

// dispatch gates a rendered message on the recipient's preferences and
// queues it
func (d *Dispatcher) dispatch(ctx context.Context, recipient *models.User, category models.Category, msg mail.Message, renderErr error) bool {
	if renderErr != nil {
		d.renderFailed(recipient.Email, category, renderErr)
		return false
	}

	decision := d.resolver.Decide(ctx, recipient.ID, category, d.enforceQuiet)
	if !decision.Allowed {
		slog.Debug("notification suppressed",
			"user_id", recipient.ID, "category", category, "reason", decision.Reason)
		d.metrics.IncSuppressed()
		d.finish(msg, StatusSuppressed, decision.Reason, nil)
		return false
	}

	return d.enqueue(msg) == nil
}

func (d *Dispatcher) enqueue(msg mail.Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, ErrDispatcherClosed)
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- msg:
		d.metrics.IncEnqueued()
		return nil
	default:
		d.drop(msg, ErrQueueFull)
		return ErrQueueFull
	}
}

func (d *Dispatcher) drop(msg mail.Message, err error) {
	slog.Warn("notification dropped", "to", msg.To, "subject", msg.Subject, "error", err)
	d.metrics.IncDropped()
	d.finish(msg, StatusDropped, "", err)
}

func (d *Dispatcher) renderFailed(recipient string, category models.Category, err error) {
	slog.Error("failed to render notification", "to", recipient, "category", category, "error", err)
	d.metrics.IncFailed()
	d.finish(mail.Message{To: []string{recipient}, Category: category}, StatusFailed, "", err)
}

// deliver performs one transport call and records the outcome
func (d *Dispatcher) deliver(ctx context.Context, msg mail.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
			d.metrics.IncFailed()
			slog.Error("notification transport panicked", "to", msg.To, "panic", r)
			d.finish(msg, StatusFailed, "", err)
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err = d.transport.Send(sendCtx, msg); err != nil {
		d.metrics.IncFailed()
		slog.Warn("failed to send notification",
			"to", msg.To, "subject", msg.Subject, "category", msg.Category, "error", err)
		d.finish(msg, StatusFailed, "", err)
		return err
	}

	d.metrics.IncSent()
	d.finish(msg, StatusSent, "", nil)
	return nil
}

// finish persists and publishes an outcome. Neither step can fail the caller.
func (d *Dispatcher) finish(msg mail.Message, status OutcomeStatus, reason string, err error) {
	out := Outcome{Message: msg, Status: status, Reason: reason, Err: err, At: d.now()}

	if d.recorder != nil {
		entry := &models.NotificationLog{
			Recipient: msg.Recipient(),
			Category:  msg.Category,
			Subject:   msg.Subject,
			Status:    logStatus(status),
			Error:     reason,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if recErr := d.recorder.RecordNotification(ctx, entry); recErr != nil {
			slog.Warn("failed to record notification outcome", "error", recErr)
		}
		cancel()
	}

	select {
	case d.outcomes <- out:
	default:
	}
}

// logStatus folds dropped messages into failed for the persisted log
func logStatus(s OutcomeStatus) models.DeliveryStatus {
	switch s {
	case StatusSent:
		return models.DeliverySent
	case StatusSuppressed:
		return models.DeliverySuppressed
	default:
		return models.DeliveryFailed
	}
}
