package notify

import (
	"fmt"
	"io"
	"strconv"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/NamashivayamS/Support-Sphere/internal/reminder"
	"github.com/spf13/cobra"
)

// CheckDeadlinesCmd returns the notify check-deadlines subcommand
func CheckDeadlinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-deadlines",
		Short: "Run one deadline reminder scan",
		Long: "Run a single reminder scan now, the same pass the daemon runs on its interval. " +
			"Queued emails are delivered before the command exits.",
		Args: cobra.NoArgs,
		RunE: runCheckDeadlines,
	}

	addOutputFlags(cmd)

	return cmd
}

type scanReport struct {
	reminder.ScanResult
}

func (r scanReport) QuietValue() string { return strconv.Itoa(r.Sent) }

func runCheckDeadlines(cmd *cobra.Command, args []string) error {
	formatter := formatterFor(cmd)

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	res, err := cliInstance.App.Poller.Scan(cmd.Context())
	if err != nil {
		return formatter.Fail(cli.ExitError, "SCAN_ERROR", err)
	}

	return formatter.SuccessWith(scanReport{res}, func(w io.Writer) error {
		fmt.Fprintf(w, "%s Sent %d deadline reminders\n", styles.Mark(true), res.Sent)
		fmt.Fprintln(w, styles.Field("Candidates", strconv.Itoa(res.Candidates)))
		fmt.Fprintln(w, styles.Field("Suppressed", strconv.Itoa(res.Suppressed)))
		fmt.Fprintln(w, styles.Field("Already reminded", strconv.Itoa(res.AlreadyReminded)))
		if res.Failed > 0 {
			fmt.Fprintln(w, styles.WarningStyle.Render(fmt.Sprintf("%d reminders failed", res.Failed)))
		}
		if res.Overdue > 0 {
			fmt.Fprintln(w, styles.WarningStyle.Render(fmt.Sprintf("%d tasks are overdue", res.Overdue)))
		}
		return nil
	})
}
