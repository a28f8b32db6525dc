package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamashivayamS/Support-Sphere/internal/config"
)

func TestRecordingTransport(t *testing.T) {
	tr := &RecordingTransport{}
	msg := Message{To: []string{"a@example.com"}, Subject: "x"}

	require.NoError(t, tr.Send(context.Background(), msg))
	assert.Len(t, tr.Messages(), 1)

	boom := errors.New("smtp down")
	tr.SetErr(boom)
	assert.ErrorIs(t, tr.Send(context.Background(), msg), boom)
	assert.Len(t, tr.Messages(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Send(ctx, msg), context.Canceled)
}

func TestLogTransport(t *testing.T) {
	var buf bytes.Buffer
	tr := LogTransport{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, tr.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "Hello"}))
	assert.Contains(t, buf.String(), "subject=Hello")

	assert.ErrorIs(t, tr.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipients)
}

func TestSMTPTransport_BuildMsg(t *testing.T) {
	cfg := config.Default().Mail
	cfg.Host = "smtp.example.com"
	tr := NewSMTPTransport(cfg)

	m, err := tr.buildMsg(Message{To: []string{"a@example.com"}, Subject: "Hello", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, m.GetGenHeader("Subject"))

	assert.Len(t, tr.clientOptions(), 3)

	cfg.Username = "ops"
	assert.Len(t, NewSMTPTransport(cfg).clientOptions(), 6)
}

func TestSMTPTransport_RejectsInvalidMessage(t *testing.T) {
	tr := NewSMTPTransport(config.Default().Mail)
	err := tr.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
