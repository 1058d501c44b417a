package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// auth.jwt_secret is required to sign and verify tokens.
	if c.Auth.JWTSecret == "" && c.Auth.JWTSecretFile == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret or auth.jwt_secret_file is required"))
	}

	// auth.token_validity must be positive.
	if c.Auth.TokenValidity <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_validity must be > 0, got %s", c.Auth.TokenValidity))
	}

	// auth.login_attempts_per_minute may be 0 (throttling disabled) but not negative.
	if c.Auth.LoginAttemptsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("auth.login_attempts_per_minute must be >= 0, got %d", c.Auth.LoginAttemptsPerMinute))
	}

	return errors.Join(errs...)
}
