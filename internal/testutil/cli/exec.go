package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"

	supportcli "github.com/NamashivayamS/Support-Sphere/internal/cli"
)

// Result is what one command run printed
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode maps Err to the process exit status
func (r Result) ExitCode() int {
	return supportcli.ExitCode(r.Err)
}

// ExecuteCLICommand runs cmd with args against the Env's app
func ExecuteCLICommand(t *testing.T, env *Env, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	if env == nil || env.App == nil {
		t.Fatal("env cannot be nil - SetupCLITest must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := supportcli.WithApp(context.Background(), env.App)
	err := cmd.ExecuteContext(ctx)
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
