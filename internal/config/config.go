// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package config builds the Skywatch configuration from flag defaults, an
// optional YAML file, SKYWATCH_* environment variables and explicitly set
// flags, in increasing order of precedence.
package config

import (
	"path/filepath"
	"slices"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/logging"
)

// CodeInvalid is the error code for configuration errors.
const CodeInvalid = "CONFIG_INVALID"

// Store drivers.
const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

// Config is the complete Skywatch configuration.
type Config struct {
	DataDir   string          `koanf:"data_dir" yaml:"data_dir" jsonschema:"description=Base directory for relative file paths"`
	Store     StoreConfig     `koanf:"store" yaml:"store"`
	Audit     AuditConfig     `koanf:"audit" yaml:"audit"`
	Auth      AuthConfig      `koanf:"auth" yaml:"auth"`
	Astronomy AstronomyConfig `koanf:"astronomy" yaml:"astronomy"`
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Metrics   MetricsConfig   `koanf:"metrics" yaml:"metrics"`
}

// StoreConfig selects the user table backing.
type StoreConfig struct {
	Driver      string `koanf:"driver" yaml:"driver" jsonschema:"enum=csv,enum=postgres"`
	UsersFile   string `koanf:"users_file" yaml:"users_file"`
	DatabaseURL string `koanf:"database_url" yaml:"database_url,omitempty"`
}

// AuditConfig locates the CSV audit log. The postgres driver writes to the
// audit_log table instead.
type AuditConfig struct {
	File string `koanf:"file" yaml:"file"`
}

// AuthConfig tunes the credential lifecycle.
type AuthConfig struct {
	MaxLoginAttempts int      `koanf:"max_login_attempts" yaml:"max_login_attempts" jsonschema:"minimum=1"`
	BcryptCost       int      `koanf:"bcrypt_cost" yaml:"bcrypt_cost" jsonschema:"minimum=4,maximum=31"`
	EmailDomains     []string `koanf:"email_domains" yaml:"email_domains,omitempty" jsonschema:"description=Glob patterns for domains allowed at account creation"`
}

// AstronomyConfig configures the astronomy API client.
type AstronomyConfig struct {
	Endpoint       string `koanf:"endpoint" yaml:"endpoint" jsonschema:"format=uri"`
	APIKey         string `koanf:"api_key" yaml:"api_key"`
	TimeoutSeconds int    `koanf:"timeout_seconds" yaml:"timeout_seconds" jsonschema:"minimum=1"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format" jsonschema:"enum=text,enum=json"`
	Level  string `koanf:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	File   string `koanf:"file" yaml:"file,omitempty"`
}

// MetricsConfig configures the Prometheus textfile written on exit.
type MetricsConfig struct {
	File string `koanf:"file" yaml:"file,omitempty"`
}

// Default returns the built-in configuration. DataDir is left empty and
// resolved to the XDG data directory by Load.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver:    DriverCSV,
			UsersFile: "users.csv",
		},
		Audit: AuditConfig{
			File: "history.csv",
		},
		Auth: AuthConfig{
			MaxLoginAttempts: auth.DefaultMaxLoginAttempts,
			BcryptCost:       bcrypt.DefaultCost,
		},
		Astronomy: AstronomyConfig{
			Endpoint:       astronomy.DefaultEndpoint,
			TimeoutSeconds: int(astronomy.DefaultTimeout.Seconds()),
		},
		Log: LogConfig{
			Format: logging.FormatText,
			Level:  "info",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV:
		if c.Store.UsersFile == "" {
			return invalid("store.users_file", c.Store.UsersFile, "users file is required for the csv driver")
		}
		if c.Audit.File == "" {
			return invalid("audit.file", c.Audit.File, "audit file is required for the csv driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return invalid("store.database_url", "", "database URL is required for the postgres driver")
		}
	default:
		return invalid("store.driver", c.Store.Driver, "driver must be 'csv' or 'postgres'")
	}

	if c.Auth.MaxLoginAttempts < 1 {
		return invalid("auth.max_login_attempts", c.Auth.MaxLoginAttempts, "must be at least 1")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return invalid("auth.bcrypt_cost", c.Auth.BcryptCost, "bcrypt cost out of range")
	}
	if _, err := auth.NewEmailPolicy(c.Auth.EmailDomains); err != nil {
		return invalid("auth.email_domains", c.Auth.EmailDomains, err.Error())
	}
	if c.Astronomy.TimeoutSeconds < 1 {
		return invalid("astronomy.timeout_seconds", c.Astronomy.TimeoutSeconds, "must be at least 1")
	}

	if !slices.Contains([]string{logging.FormatText, logging.FormatJSON}, c.Log.Format) {
		return invalid("log.format", c.Log.Format, "log format must be 'text' or 'json'")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "log level must be debug, info, warn or error")
	}
	return nil
}

func invalid(field string, value any, msg string) error {
	return oops.Code(CodeInvalid).
		With("field", field).
		With("value", value).
		Errorf("%s: %s", field, msg)
}

// Path resolves p against DataDir unless it is empty or absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.DataDir == "" {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// UsersPath returns the resolved CSV user table path.
func (c *Config) UsersPath() string {
	return c.Path(c.Store.UsersFile)
}

// AuditPath returns the resolved CSV audit log path.
func (c *Config) AuditPath() string {
	return c.Path(c.Audit.File)
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, oops.With("operation", "marshal config").Wrap(err)
	}
	return data, nil
}
