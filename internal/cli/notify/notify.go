// Package notify holds the operator commands for the notification pipeline
package notify

import (
	"log"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/spf13/cobra"
)

// NotifyCmd returns the notify parent command
func NotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Inspect and exercise email notifications",
	}

	cmd.AddCommand(TestEmailCmd())
	cmd.AddCommand(CheckDeadlinesCmd())
	cmd.AddCommand(ListSettingsCmd())
	cmd.AddCommand(CreateSettingsCmd())
	cmd.AddCommand(ShowDeadlinesCmd())
	cmd.AddCommand(CheckConfigCmd())

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")
}

func formatterFor(cmd *cobra.Command) *cli.OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode, Out: cmd.OutOrStdout(), ErrOut: cmd.ErrOrStderr()}
}

// open returns the CLI for cmd and a func that releases it
func open(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, func(), error) {
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, nil, formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err)
	}
	return cliInstance, func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}, nil
}
