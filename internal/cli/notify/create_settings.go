package notify

import (
	"fmt"
	"io"
	"strconv"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/styles"
	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/spf13/cobra"
)

// CreateSettingsCmd returns the notify create-settings subcommand
func CreateSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-settings",
		Short: "Create default settings for users that have none",
		Args:  cobra.NoArgs,
		RunE:  runCreateSettings,
	}

	addOutputFlags(cmd)

	return cmd
}

type createdSettings struct {
	Created int            `json:"created"`
	Users   []*models.User `json:"users"`
}

func (c createdSettings) QuietValue() string { return strconv.Itoa(c.Created) }

func runCreateSettings(cmd *cobra.Command, args []string) error {
	formatter := formatterFor(cmd)

	cliInstance, release, err := open(cmd, formatter)
	if err != nil {
		return err
	}
	defer release()

	users, err := cliInstance.App.SettingsService.CreateMissing(cmd.Context())
	if err != nil {
		return formatter.Fail(cli.ExitError, "DATABASE_ERROR", err)
	}
	if users == nil {
		users = []*models.User{}
	}

	result := createdSettings{Created: len(users), Users: users}
	return formatter.SuccessWith(result, func(w io.Writer) error {
		for _, u := range users {
			fmt.Fprintf(w, "%s Created settings for %s\n", styles.Mark(true), u.Email)
		}
		_, err := fmt.Fprintf(w, "Created notification settings for %d users\n", len(users))
		return err
	})
}
