package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	dateLayout     = "January 02, 2006"
	dateTimeLayout = "January 02, 2006 at 03:04 PM"
)

var statusColors = map[models.ProjectStatus]string{
	models.ProjectPending:    "#6c757d",
	models.ProjectInProgress: "#0d6efd",
	models.ProjectCompleted:  "#198754",
	models.ProjectOnHold:     "#ffc107",
}

// Header colours per message kind
const (
	accentAssigned = "#667eea"
	accentReminder = "#f5576c"
	accentStatus   = "#4facfe"
	accentActivity = "#20c997"
	accentTest     = "#6f42c1"
)

// Composer renders the fixed set of notification emails. It is safe for
// concurrent use.
type Composer struct {
	html    *htmltemplate.Template
	text    *texttemplate.Template
	appName string
	loc     *time.Location
	now     func() time.Time
}

// ComposerOption configures a Composer
type ComposerOption func(*Composer)

// WithLocation renders dates in loc instead of UTC
func WithLocation(loc *time.Location) ComposerOption {
	return func(c *Composer) {
		c.loc = loc
	}
}

// WithClock replaces time.Now for hour and day counts
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) {
		c.now = now
	}
}

// WithAppName changes the product name printed in footers
func WithAppName(name string) ComposerOption {
	return func(c *Composer) {
		c.appName = name
	}
}

// NewComposer parses the embedded templates
func NewComposer(opts ...ComposerOption) (*Composer, error) {
	c := &Composer{appName: "SupportSphere", loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	funcs := map[string]any{
		"date":        c.formatDate(dateLayout),
		"datetime":    c.formatDate(dateTimeLayout),
		"truncate":    truncate,
		"statusColor": statusColor,
	}

	html, err := htmltemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttemplate.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	c.html = html
	c.text = text
	return c, nil
}

type detailRow struct {
	Label string
	Value string
}

// view is the data every template receives
type view struct {
	AppName        string
	Accent         string
	Recipient      *models.User
	Task           *models.Task
	Project        *models.Project
	HoursRemaining int
	DaysRemaining  int
	OldStatus      models.ProjectStatus
	NewStatus      models.ProjectStatus
	Headline       string
	Summary        string
	Rows           []detailRow
	SentAt         *time.Time
}

// TaskAssigned tells the assignee about a new task
func (c *Composer) TaskAssigned(task *models.Task, project *models.Project, assignee *models.User) (Message, error) {
	return c.render("task_assigned", models.CategoryTaskAssigned, assignee.Email,
		"New Task Assigned: "+task.Title,
		view{Accent: accentAssigned, Recipient: assignee, Task: task, Project: project})
}

// DeadlineReminder warns the assignee that the deadline is close
func (c *Composer) DeadlineReminder(task *models.Task, project *models.Project, assignee *models.User) (Message, error) {
	return c.render("deadline_reminder", models.CategoryDeadlineReminder, assignee.Email,
		"Task Deadline Reminder: "+task.Title,
		view{
			Accent:         accentReminder,
			Recipient:      assignee,
			Task:           task,
			Project:        project,
			HoursRemaining: task.HoursUntilDeadline(c.now()),
		})
}

// ProjectStatusChanged tells one recipient about a status transition
func (c *Composer) ProjectStatusChanged(project *models.Project, recipient *models.User, from, to models.ProjectStatus) (Message, error) {
	return c.render("project_status", models.CategoryProjectStatusChange, recipient.Email,
		"Project Status Update: "+project.Title,
		view{
			Accent:        accentStatus,
			Recipient:     recipient,
			Project:       project,
			OldStatus:     from,
			NewStatus:     to,
			DaysRemaining: project.DaysRemaining(c.now()),
		})
}

// TaskCompleted tells the task's creator that it was finished
func (c *Composer) TaskCompleted(task *models.Task, project *models.Project, completedBy, recipient *models.User) (Message, error) {
	return c.render("activity", models.CategoryTaskCompleted, recipient.Email,
		"Task Completed: "+task.Title,
		view{
			Accent:    accentActivity,
			Recipient: recipient,
			Headline:  "Task Completed",
			Summary:   fmt.Sprintf("%s completed a task in the %s project.", completedBy.Name, project.Title),
			Rows: []detailRow{
				{"Task", task.Title},
				{"Project", project.Title},
				{"Project Progress", fmt.Sprintf("%d%%", project.Progress)},
			},
		})
}

// NewMessage tells a project participant about a chat message
func (c *Composer) NewMessage(msg *models.ChatMessage, project *models.Project, sender, recipient *models.User) (Message, error) {
	return c.render("activity", models.CategoryNewMessage, recipient.Email,
		"New Message: "+project.Title,
		view{
			Accent:    accentActivity,
			Recipient: recipient,
			Headline:  "New Message",
			Summary:   fmt.Sprintf("%s posted a message in the %s project.", sender.Name, project.Title),
			Rows:      []detailRow{{"Message", truncate(msg.Body, 200)}},
		})
}

// TeamUpdated tells a member they were assigned to a project team
func (c *Composer) TeamUpdated(project *models.Project, member *models.User) (Message, error) {
	return c.render("activity", models.CategoryTeamUpdate, member.Email,
		"Team Update: "+project.Title,
		view{
			Accent:    accentActivity,
			Recipient: member,
			Headline:  "Team Update",
			Summary:   fmt.Sprintf("You have been added to the team for the %s project.", project.Title),
			Rows: []detailRow{
				{"Project", project.Title},
				{"Status", string(project.Status)},
				{"Deadline", c.formatDate(dateLayout)(project.Deadline)},
			},
		})
}

// Test builds the operator test message
func (c *Composer) Test(recipient string) (Message, error) {
	now := c.now()
	return c.render("test", models.CategoryTest, recipient,
		"Test Email from "+c.appName,
		view{Accent: accentTest, SentAt: &now})
}

// Custom wraps caller-supplied bodies. An empty text body falls back to the
// HTML body.
func (c *Composer) Custom(category models.Category, recipient, subject, html, text string) Message {
	if text == "" {
		text = html
	}
	return Message{To: []string{recipient}, Subject: subject, HTML: html, Text: text, Category: category}
}

func (c *Composer) render(name string, category models.Category, to, subject string, data view) (Message, error) {
	data.AppName = c.appName

	var html, text bytes.Buffer
	if err := c.html.ExecuteTemplate(&html, name, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s html: %w", name, err)
	}
	if err := c.text.ExecuteTemplate(&text, name, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s text: %w", name, err)
	}

	return Message{
		To:       []string{to},
		Subject:  subject,
		HTML:     html.String(),
		Text:     text.String(),
		Category: category,
	}, nil
}

func (c *Composer) formatDate(layout string) func(*time.Time) string {
	return func(t *time.Time) string {
		if t == nil {
			return "No deadline"
		}
		return t.In(c.loc).Format(layout)
	}
}

// truncate shortens s to n runes and marks the cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func statusColor(s models.ProjectStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#6c757d"
}
