// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/skywatch/skywatch/internal/schema"
	"github.com/skywatch/skywatch/internal/xdg"
)

// SchemaID is the $id of the config file schema.
const SchemaID = "https://skywatch.dev/schemas/config.schema.json"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SKYWATCH_"

// envKeys maps environment variables (without EnvPrefix) to config keys.
var envKeys = map[string]string{
	"DATA_DIR":     "data_dir",
	"STORE_DRIVER": "store.driver",
	"DATABASE_URL": "store.database_url",
	"API_KEY":      "astronomy.api_key",
	"LOG_LEVEL":    "log.level",
	"LOG_FORMAT":   "log.format",
	"LOG_FILE":     "log.file",
	"METRICS_FILE": "metrics.file",
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"data-dir":           "data_dir",
	"store-driver":       "store.driver",
	"users-file":         "store.users_file",
	"database-url":       "store.database_url",
	"audit-file":         "audit.file",
	"max-login-attempts": "auth.max_login_attempts",
	"bcrypt-cost":        "auth.bcrypt_cost",
	"email-domain":       "auth.email_domains",
	"astronomy-endpoint": "astronomy.endpoint",
	"api-key":            "astronomy.api_key",
	"timeout-seconds":    "astronomy.timeout_seconds",
	"log-format":         "log.format",
	"log-level":          "log.level",
	"log-file":           "log.file",
	"metrics-file":       "metrics.file",
}

// RegisterFlags adds the configuration flags to fs with d as defaults.
func RegisterFlags(fs *pflag.FlagSet, d Config) {
	fs.String("data-dir", d.DataDir, "base directory for relative file paths (default: XDG_DATA_HOME/skywatch)")
	fs.String("store-driver", d.Store.Driver, "user table backing (csv or postgres)")
	fs.String("users-file", d.Store.UsersFile, "CSV user table")
	fs.String("database-url", d.Store.DatabaseURL, "PostgreSQL URL for the postgres driver")
	fs.String("audit-file", d.Audit.File, "CSV audit log")
	fs.Int("max-login-attempts", d.Auth.MaxLoginAttempts, "wrong passwords allowed per login")
	fs.Int("bcrypt-cost", d.Auth.BcryptCost, "bcrypt cost factor")
	fs.StringSlice("email-domain", d.Auth.EmailDomains, "allowed email domain glob for new accounts (repeatable)")
	fs.String("astronomy-endpoint", d.Astronomy.Endpoint, "astronomy API URL")
	fs.String("api-key", d.Astronomy.APIKey, "astronomy API key")
	fs.Int("timeout-seconds", d.Astronomy.TimeoutSeconds, "astronomy API timeout in seconds")
	fs.String("log-format", d.Log.Format, "log format (text or json)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("log-file", d.Log.File, "write logs to this file instead of stderr")
	fs.String("metrics-file", d.Metrics.File, "write Prometheus metrics to this file on exit")
}

// Load builds the configuration. path names the YAML file; when empty the
// XDG config file is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "env").Wrap(err)
	}

	if flags != nil {
		// Unchanged flags only fill keys no earlier source set.
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeInvalid).With("operation", "unmarshal").Wrap(err)
	}
	if len(cfg.Auth.EmailDomains) == 0 {
		cfg.Auth.EmailDomains = nil
	}

	if cfg.DataDir == "" {
		dir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		p, err := xdg.ConfigFile()
		if err != nil {
			return nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return oops.Code(CodeInvalid).With("path", path).Wrapf(err, "read config file")
	}

	sch, err := NewSchema()
	if err != nil {
		return err
	}
	if err := sch.ValidateYAML(data); err != nil {
		return oops.Code(CodeInvalid).
			With("path", path).
			Errorf("config file %s: %s", path, schema.FormatError(err))
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code(CodeInvalid).With("path", path).Wrapf(err, "parse config file")
	}
	return nil
}

func envKey(s string) string {
	return envKeys[strings.TrimPrefix(s, EnvPrefix)]
}

func flagKey(flags *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}

func schemaOptions() schema.Options {
	return schema.Options{
		ID:           SchemaID,
		Title:        "Skywatch configuration",
		Description:  "Schema for skywatch config.yaml files",
		FieldNameTag: "koanf",
		// Every key is optional; defaults fill the gaps.
		RequiredByTag: true,
	}
}

// GenerateSchema returns the JSON Schema for the config file.
func GenerateSchema() ([]byte, error) {
	return schema.Generate(&Config{}, schemaOptions())
}

// NewSchema compiles the config file schema.
func NewSchema() (*schema.Schema, error) {
	return schema.New(&Config{}, schemaOptions())
}
