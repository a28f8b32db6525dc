package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadDotEnv reads ./.env into the process environment. Variables that are
// already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}
}

// applyEnv overlays environment variables on values read from YAML
func (c *Config) applyEnv() error {
	setString(&c.Database.Path, "DATABASE_PATH")
	setString(&c.Server.Addr, "SERVER_ADDR")
	setString(&c.Auth.Secret, "JWT_SECRET")
	setString(&c.Logging.Level, "LOG_LEVEL")

	setString(&c.Mail.Host, "MAIL_SERVER")
	setString(&c.Mail.Username, "MAIL_USERNAME")
	setString(&c.Mail.Password, "MAIL_PASSWORD")
	setString(&c.Mail.DefaultSender, "MAIL_DEFAULT_SENDER")

	if v, ok := os.LookupEnv("MAIL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: MAIL_PORT must be a number", ErrInvalidConfig)
		}
		c.Mail.Port = port
	}

	useSSL, err := envBool("MAIL_USE_SSL")
	if err != nil {
		return err
	}
	useTLS, err := envBool("MAIL_USE_TLS")
	if err != nil {
		return err
	}
	switch {
	case useSSL != nil && *useSSL:
		c.Mail.Security = SecuritySSL
	case useTLS != nil && *useTLS:
		c.Mail.Security = SecurityStartTLS
	case useTLS != nil:
		c.Mail.Security = SecurityNone
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// envBool returns nil when key is unset
func envBool(key string) (*bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidConfig, key)
	}
	return &b, nil
}
