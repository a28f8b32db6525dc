// Package cli holds the plumbing shared by the operator commands: the app
// container, output formatting and exit codes.
package cli

import (
	"context"
	"fmt"

	"github.com/NamashivayamS/Support-Sphere/internal/app"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/logging"
)

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with services

	// owned is false when the app was injected and belongs to the caller
	owned bool
}

// NewCLI loads configuration, sets up logging and opens the app with its
// dispatcher running
func NewCLI(ctx context.Context, configPath string) (*CLI, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		logging.Close()
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	application.Start(ctx)

	return &CLI{App: application, owned: true}, nil
}

// Close drains pending mail and releases the database. Injected apps are
// left to their owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	defer logging.Close()
	return c.App.Close()
}
