// Package app wires configuration, storage, mail delivery and the services
// into one container shared by the daemon and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/api"
	"github.com/NamashivayamS/Support-Sphere/internal/auth"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/database"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/notify"
	"github.com/NamashivayamS/Support-Sphere/internal/reminder"
	chatservice "github.com/NamashivayamS/Support-Sphere/internal/services/chat"
	projectservice "github.com/NamashivayamS/Support-Sphere/internal/services/project"
	settingsservice "github.com/NamashivayamS/Support-Sphere/internal/services/settings"
	taskservice "github.com/NamashivayamS/Support-Sphere/internal/services/task"
	userservice "github.com/NamashivayamS/Support-Sphere/internal/services/user"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	Config *config.Config

	// Repository layer (direct database access)
	db     *sql.DB
	ownsDB bool
	repo   *database.Repository

	// Notification pipeline
	Resolver   *notify.Resolver
	Dispatcher *notify.Dispatcher
	Poller     *reminder.Poller

	// Tokens is nil when no auth secret is configured
	Tokens *auth.TokenIssuer

	// Service layer (business logic)
	UserService     userservice.Service
	ProjectService  projectservice.Service
	TaskService     taskservice.Service
	ChatService     chatservice.Service
	SettingsService settingsservice.Service

	logger *slog.Logger
	now    func() time.Time
}

// New opens the database and builds every service. The dispatcher is
// created stopped; call Start before relying on queued delivery.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	options := &appConfig{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.now == nil {
		options.now = time.Now
	}

	loc, err := cfg.Notifications.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	a := &App{Config: cfg, logger: options.logger, now: options.now, db: options.db}
	if a.db == nil {
		if a.db, err = database.InitDB(ctx, cfg.Database.Path); err != nil {
			return nil, err
		}
		a.ownsDB = true
	}
	a.repo = database.NewRepository(a.db)

	composer, err := mail.NewComposer(mail.WithLocation(loc), mail.WithClock(a.now))
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	transport := options.transport
	if transport == nil {
		transport = newTransport(cfg.Mail, a.logger)
	}

	a.Resolver = notify.NewResolver(a.repo, loc, a.now)
	a.Dispatcher = notify.NewDispatcher(composer, transport, a.Resolver, notify.Options{
		Workers:           cfg.Notifications.Workers,
		QueueSize:         cfg.Notifications.QueueSize,
		EnforceQuietHours: cfg.Notifications.EnforceQuietHours(),
		SendTimeout:       cfg.Mail.Timeout,
		Recorder:          a.repo,
		Now:               a.now,
	})

	pollerCfg := reminder.ConfigFrom(cfg.Notifications)
	pollerCfg.Now = a.now
	a.Poller = reminder.NewPoller(a.repo, a.Resolver, a.Dispatcher, pollerCfg)

	if cfg.Auth.Secret != "" {
		if a.Tokens, err = auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL); err != nil {
			a.closeDB()
			return nil, err
		}
	}

	a.UserService = userservice.NewService(a.repo)
	a.ProjectService = projectservice.NewService(a.repo, a.Dispatcher, a.now)
	a.TaskService = taskservice.NewService(a.repo, a.Dispatcher, a.now)
	a.ChatService = chatservice.NewService(a.repo, a.Dispatcher)
	a.SettingsService = settingsservice.NewService(a.repo)
	return a, nil
}

// newTransport delivers over SMTP when a server is configured and logs
// messages otherwise
func newTransport(cfg config.MailConfig, logger *slog.Logger) mail.Transport {
	if cfg.Enabled() {
		return mail.NewSMTPTransport(cfg)
	}
	logger.Warn("mail server not configured, emails will be logged only")
	return mail.LogTransport{Logger: logger}
}

// Start launches the dispatcher workers
func (a *App) Start(ctx context.Context) {
	a.Dispatcher.Start(ctx)
}

// Handler returns the HTTP API. It needs an auth secret.
func (a *App) Handler() (http.Handler, error) {
	if a.Tokens == nil {
		return nil, auth.ErrNoSecret
	}
	srv := api.NewServer(api.Deps{
		Users:    a.UserService,
		Projects: a.ProjectService,
		Tasks:    a.TaskService,
		Chat:     a.ChatService,
		Settings: a.SettingsService,
		Tokens:   a.Tokens,
		Mailer:   a.Dispatcher,
		DB:       a.db,
		Logger:   a.logger,
		Now:      a.now,
	})
	return srv.Routes(), nil
}

// Repo returns the underlying repository for direct database access by the
// operator CLI.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Now is the app clock
func (a *App) Now() time.Time {
	return a.now()
}

// Close drains the dispatcher and closes the database if the app opened it
func (a *App) Close() error {
	a.Dispatcher.Close()
	return a.closeDB()
}

func (a *App) closeDB() error {
	if !a.ownsDB || a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
