package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/spf13/cobra"
)

// ListSettingsCmd returns the notify list-settings subcommand
func ListSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-settings",
		Short: "Show every user's notification settings",
		Args:  cobra.NoArgs,
		RunE:  runListSettings,
	}

	addOutputFlags(cmd)

	return cmd
}

type settingsList []*models.UserSettings

// QuietValue lists the users that have no settings row
func (l settingsList) QuietValue() string {
	var missing []string
	for _, us := range l {
		if us.Settings == nil {
			missing = append(missing, us.User.Email)
		}
	}
	return strings.Join(missing, "\n")
}

func runListSettings(cmd *cobra.Command, args []string) error {
	formatter := formatterFor(cmd)

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	all, err := cliInstance.App.SettingsService.ListAll(cmd.Context())
	if err != nil {
		return formatter.Fail(cli.ExitError, "DATABASE_ERROR", err)
	}

	return formatter.SuccessWith(settingsList(all), func(w io.Writer) error {
		if len(all) == 0 {
			_, err := fmt.Fprintln(w, "No users found")
			return err
		}
		for _, us := range all {
			fmt.Fprintf(w, "%s %s\n",
				styles.TitleStyle.Render(fmt.Sprintf("%s (%s)", us.User.Name, us.User.Email)),
				styles.SubtitleStyle.Render(string(us.User.Role)))
			s := us.Settings
			if s == nil {
				fmt.Fprintf(w, "  %s\n\n", styles.WarningStyle.Render("no notification settings"))
				continue
			}
			fmt.Fprintf(w, "  %s Task assigned emails\n", styles.Mark(s.EmailTaskAssigned))
			fmt.Fprintf(w, "  %s Deadline reminder emails\n", styles.Mark(s.EmailDeadlineReminder))
			fmt.Fprintf(w, "  %s Project update emails\n", styles.Mark(s.EmailProjectStatusChange))
			fmt.Fprintf(w, "  %s\n", styles.Field("Quiet hours",
				fmt.Sprintf("%02d:00 - %02d:00", s.QuietHoursStart, s.QuietHoursEnd)))
			fmt.Fprintf(w, "  %s\n\n", styles.Field("Digest", string(s.DigestFrequency)))
		}
		return nil
	})
}
