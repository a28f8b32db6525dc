// Package cmd is the supportsphere command tree
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
	"github.com/NamashivayamS/Support-Sphere/internal/cli/notify"
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "supportsphere",
		Short: "SupportSphere - operator tools for the project portal",
		Long: `SupportSphere operator commands. Run the HTTP API and reminder poller
with the supportsphere-daemon binary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			cmd.SetContext(cli.WithConfigPath(cmd.Context(), path))
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default $SUPPORTSPHERE_CONFIG or ~/.config/supportsphere/config.yaml)")
	rootCmd.AddCommand(notify.NotifyCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}
	var ce *cli.CodeError
	if !errors.As(err, &ce) {
		// flag and argument errors from cobra
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitUsage
	}
	return ce.Code
}
