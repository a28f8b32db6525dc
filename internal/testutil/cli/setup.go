// Package cli runs operator commands against an in-memory app
package cli

import (
	"context"
	"testing"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/app"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/testutil"
)

// Env is an app over an in-memory database with a recording transport.
// The dispatcher is not started, so queued mail goes out on App.Close.
type Env struct {
	App       *app.App
	Repo      *database.Repository
	Transport *mail.RecordingTransport
	Clock     *testutil.Clock
}

// SetupCLITest builds an Env whose clock starts at now. cfg may be nil.
func SetupCLITest(t *testing.T, cfg *config.Config, now time.Time) *Env {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	db := testutil.SetupTestDB(t)
	env := &Env{
		Repo:      database.NewRepository(db),
		Transport: &mail.RecordingTransport{},
		Clock:     testutil.NewClock(now),
	}

	a, err := app.New(context.Background(), cfg,
		app.WithDB(db),
		app.WithTransport(env.Transport),
		app.WithClock(env.Clock.Now))
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	env.App = a
	return env
}

// Flush drains the dispatcher and returns everything the transport saw
func (e *Env) Flush() []mail.Message {
	_ = e.App.Close()
	return e.Transport.Messages()
}
