package app

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/mail"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	transport mail.Transport
	logger    *slog.Logger
	now       func() time.Time
	db        *sql.DB
}

// WithTransport replaces the transport chosen from the mail config
func WithTransport(t mail.Transport) Option {
	return func(cfg *appConfig) {
		cfg.transport = t
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithClock replaces time.Now everywhere the app reads the time
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.now = now
	}
}

// WithDB uses an already opened and migrated database instead of opening
// the configured path. The caller keeps ownership of it.
func WithDB(db *sql.DB) Option {
	return func(cfg *appConfig) {
		cfg.db = db
	}
}
