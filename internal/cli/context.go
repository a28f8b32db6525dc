package cli

import (
	"context"

	"github.com/NamashivayamS/Support-Sphere/internal/app"
)

type contextKey string

const (
	appKey        contextKey = "app"
	configPathKey contextKey = "configPath"
)

// WithApp makes GetCLIFromContext reuse a instead of opening a new app
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// WithConfigPath records the --config flag for NewCLI
func WithConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, configPathKey, path)
}

// GetCLIFromContext returns a CLI around the injected app, or opens one from
// the configured path
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a}, nil
	}
	path, _ := ctx.Value(configPathKey).(string)
	return NewCLI(ctx, path)
}
