// Package api serves the SupportSphere JSON API over chi.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NamashivayamS/Support-Sphere/internal/auth"
	"github.com/NamashivayamS/Support-Sphere/internal/mail"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/notify"
	"github.com/NamashivayamS/Support-Sphere/internal/services/chat"
	"github.com/NamashivayamS/Support-Sphere/internal/services/project"
	"github.com/NamashivayamS/Support-Sphere/internal/services/settings"
	"github.com/NamashivayamS/Support-Sphere/internal/services/task"
	"github.com/NamashivayamS/Support-Sphere/internal/services/user"
)

// Mailer is the part of the dispatcher the API needs
type Mailer interface {
	DeliverTest(ctx context.Context, recipient string) (mail.Message, error)
	Metrics() notify.MetricsSnapshot
}

// Pinger reports store health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps wires the services into the handlers. Mailer and DB may be nil.
type Deps struct {
	Users    user.Service
	Projects project.Service
	Tasks    task.Service
	Chat     chat.Service
	Settings settings.Service
	Tokens   *auth.TokenIssuer
	Mailer   Mailer
	DB       Pinger
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server holds the handlers
type Server struct {
	Deps
}

func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Server{Deps: deps}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/me", s.me)
			r.Patch("/me", s.updateMe)
			r.Get("/dashboard", s.dashboard)

			r.Get("/projects", s.listProjects)
			r.With(requireRole(models.RoleCustomer, models.RoleManager)).Post("/projects", s.createProject)
			r.Route("/projects/{id}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Get("/messages", s.listMessages)
				r.Post("/messages", s.sendMessage)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(models.RoleManager))
					r.Patch("/status", s.updateProjectStatus)
					r.Put("/team", s.assignTeam)
					r.Delete("/", s.deleteProject)
					r.Post("/tasks", s.createTask)
					r.Post("/milestones", s.addMilestone)
					r.Post("/milestones/{milestone}/complete", s.completeMilestone)
				})
			})

			r.Get("/tasks", s.myTasks)
			r.Route("/tasks/{id}", func(r chi.Router) {
				r.Get("/", s.getTask)
				r.Post("/progress", s.updateProgress)
				r.Post("/notes", s.addNote)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(models.RoleManager))
					r.Post("/assign", s.assignTask)
					r.Delete("/", s.deleteTask)
					r.Post("/dependencies/{dep}", s.addDependency)
					r.Delete("/dependencies/{dep}", s.removeDependency)
				})
			})

			r.With(requireRole(models.RoleManager)).Get("/reports", s.reports)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/settings", s.getSettings)
				r.Put("/settings", s.updateSettings)
				r.Post("/settings/reset", s.resetSettings)
				r.Post("/test", s.sendTestEmail)
			})
		})
	})
	return r
}

// requestLogger logs one line per request through slog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}

type healthResponse struct {
	Status     string                  `json:"status"`
	Time       time.Time               `json:"time"`
	Database   string                  `json:"database"`
	Dispatcher *notify.MetricsSnapshot `json:"dispatcher,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Time: s.Now().UTC(), Database: "ok"}
	status := http.StatusOK
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			s.Logger.Warn("health check failed", "error", err)
			resp.Status, resp.Database = "degraded", "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if s.Mailer != nil {
		m := s.Mailer.Metrics()
		resp.Dispatcher = &m
	}
	writeJSON(w, status, resp)
}
