package notify

import (
	"errors"
	"fmt"
	"io"
	netmail "net/mail"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/spf13/cobra"
)

// TestEmailCmd returns the notify test-email subcommand
func TestEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-email",
		Short: "Send a test email",
		Long:  "Send the test email synchronously to --to, or to the first registered user.",
		Args:  cobra.NoArgs,
		RunE:  runTestEmail,
	}

	cmd.Flags().String("to", "", "Recipient address (defaults to the first user)")
	addOutputFlags(cmd)

	return cmd
}

type testEmailResult struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
}

func (r testEmailResult) QuietValue() string { return r.Recipient }

func runTestEmail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := formatterFor(cmd)
	to, _ := cmd.Flags().GetString("to")

	if to != "" {
		if _, err := netmail.ParseAddress(to); err != nil {
			return formatter.Fail(cli.ExitValidation, "INVALID_RECIPIENT", fmt.Errorf("invalid recipient %q: %w", to, err))
		}
	}

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	if to == "" {
		users, err := cliInstance.App.Repo().ListUsers(ctx)
		if err != nil {
			return formatter.Fail(cli.ExitError, "DATABASE_ERROR", err)
		}
		if len(users) == 0 {
			_ = formatter.ErrorWithSuggestion("NO_USERS", "no users found to send a test email to",
				"register an account or pass --to")
			return cli.Exit(cli.ExitNotFound, errors.New("no users found"))
		}
		to = users[0].Email
	}

	msg, err := cliInstance.App.Dispatcher.DeliverTest(ctx, to)
	if err != nil {
		_ = formatter.ErrorWithSuggestion("SMTP_ERROR", fmt.Sprintf("failed to send test email: %v", err),
			"run 'supportsphere notify check-config' to verify the mail settings")
		return cli.Exit(cli.ExitError, err)
	}

	result := testEmailResult{Recipient: to, Subject: msg.Subject}
	return formatter.SuccessWith(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s Test email sent to %s\n", styles.Mark(true), to)
		return err
	})
}
