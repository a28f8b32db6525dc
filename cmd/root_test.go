package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NamashivayamS/Support-Sphere/internal/cli"
)

func TestRootCmd_HasNotify(t *testing.T) {
	root := NewRootCmd()
	notifyCmd, _, err := root.Find([]string{"notify", "check-config"})
	assert.NoError(t, err)
	assert.Equal(t, "check-config", notifyCmd.Name())
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestExecute_UsageErrors(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"notify", "show-deadlines", "--no-such-flag"})
	err := root.ExecuteContext(context.Background())
	assert.Error(t, err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err), "cobra errors carry no exit code of their own")
}
