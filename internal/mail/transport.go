package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Transport delivers a rendered message
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// LogTransport writes messages to the log instead of delivering them. It is
// used when no SMTP server is configured.
type LogTransport struct {
	Logger *slog.Logger
}

func (t LogTransport) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mail delivery disabled, message logged",
		"to", msg.To, "subject", msg.Subject, "category", msg.Category)
	return nil
}

// RecordingTransport keeps every message in memory. Setting Err makes every
// send fail with it.
type RecordingTransport struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (t *RecordingTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	t.messages = append(t.messages, msg)
	return nil
}

// Messages returns a copy of what was sent so far
func (t *RecordingTransport) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// SetErr changes the injected failure under the lock
func (t *RecordingTransport) SetErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Err = err
}
