package notify

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/spf13/cobra"
)

// ShowDeadlinesCmd returns the notify show-deadlines subcommand
func ShowDeadlinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-deadlines",
		Short: "List unfinished tasks due soon",
		Long:  "List unfinished tasks due within --days, assigned or not, earliest first.",
		Args:  cobra.NoArgs,
		RunE:  runShowDeadlines,
	}

	cmd.Flags().Int("days", 7, "How many days ahead to look")
	addOutputFlags(cmd)

	return cmd
}

// eight columns need more room than a card
const deadlineTableWidth = 132

type upcomingTask struct {
	TaskID    int               `json:"task_id"`
	Title     string            `json:"title"`
	Project   string            `json:"project"`
	Assignee  string            `json:"assignee,omitempty"`
	Priority  models.Priority   `json:"priority"`
	Status    models.TaskStatus `json:"status"`
	Deadline  time.Time         `json:"deadline"`
	Remaining string            `json:"remaining"`
}

type upcomingList []upcomingTask

func (l upcomingList) QuietValue() string { return strconv.Itoa(len(l)) }

func runShowDeadlines(cmd *cobra.Command, args []string) error {
	formatter := formatterFor(cmd)

	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return formatter.Fail(cli.ExitUsage, "INVALID_DAYS", errors.New("--days must be positive"))
	}

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	now := cliInstance.App.Now()
	due, err := cliInstance.App.Repo().ListDueTasks(cmd.Context(), now, now.AddDate(0, 0, days), false)
	if err != nil {
		return formatter.Fail(cli.ExitError, "DATABASE_ERROR", err)
	}

	list := make(upcomingList, 0, len(due))
	for _, d := range due {
		item := upcomingTask{
			TaskID:    int(d.Task.ID),
			Title:     d.Task.Title,
			Project:   d.Project.Title,
			Priority:  d.Task.Priority,
			Status:    d.Task.Status,
			Deadline:  *d.Task.Deadline,
			Remaining: cli.Remaining(*d.Task.Deadline, now),
		}
		if d.Assignee != nil {
			item.Assignee = d.Assignee.Name
		}
		list = append(list, item)
	}

	return formatter.SuccessWith(list, func(w io.Writer) error {
		if len(list) == 0 {
			_, err := fmt.Fprintf(w, "No tasks due in the next %d days\n", days)
			return err
		}
		out, err := styles.Markdown(deadlineTable(list, days), deadlineTableWidth)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

func deadlineTable(list upcomingList, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Tasks due in the next %d days\n\n", days)
	b.WriteString("| # | Task | Project | Assignee | Priority | Status | Deadline | Remaining |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, t := range list {
		assignee := t.Assignee
		if assignee == "" {
			assignee = "Unassigned"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			t.TaskID,
			styles.Cell(cli.Truncate(t.Title, 40)),
			styles.Cell(t.Project),
			styles.Cell(assignee),
			t.Priority,
			t.Status,
			t.Deadline.Format("2006-01-02 15:04"),
			t.Remaining)
	}
	return b.String()
}
