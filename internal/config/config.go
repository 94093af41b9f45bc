// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for outlook-mcp. It supports a
// four-layer override chain (defaults -> config file -> environment ->
// CLI flags).
package config

import (
	"fmt"
	"path/filepath"
)

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Auth    AuthConfig    `toml:"auth"`
	Delta   DeltaConfig   `toml:"delta"`
	Logging LoggingConfig `toml:"logging"`
}

// AuthConfig holds the OAuth2 client registration and token storage
// location. ClientID must be a public-client app registration; there is no
// client secret anywhere in this program.
type AuthConfig struct {
	ClientID  string `toml:"client_id"`
	TenantID  string `toml:"tenant_id"`
	TokenPath string `toml:"token_path"`
}

// DeltaConfig holds the location of the incremental mail sync state
// database.
type DeltaConfig struct {
	DBPath string `toml:"db_path"`
}

// LoggingConfig controls log verbosity and output format. Format "auto"
// picks text when stderr is a terminal and JSON otherwise. Logs always go
// to stderr; stdout is reserved for the MCP stdio transport.
type LoggingConfig struct {
	Level  string `toml:"log_level"`
	Format string `toml:"log_format"`
}

// Default values. These are layer 0 of the override chain.
const (
	defaultTenantID  = "common"
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
	tokenFileName    = "token.json"
	deltaDBFileName  = "delta.db"
)

// DefaultConfig returns a Config populated with all default values.
// Used both as the starting point for TOML decoding (so unset fields retain
// defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			TenantID:  defaultTenantID,
			TokenPath: filepath.Join(DefaultDataDir(), tokenFileName),
		},
		Delta: DeltaConfig{
			DBPath: filepath.Join(DefaultDataDir(), deltaDBFileName),
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// validLogLevels and validLogFormats bound the logging settings.
var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"auto": true, "text": true, "json": true}
)

// Validate checks field values. ClientID is deliberately not required here:
// diagnostic commands (config path, config show) must work before the user
// has registered an application.
func Validate(cfg *Config) error {
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", cfg.Logging.Level)
	}

	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid log_format %q (expected auto, text, or json)", cfg.Logging.Format)
	}

	if cfg.Auth.TenantID == "" {
		return fmt.Errorf("tenant_id must not be empty")
	}

	if cfg.Auth.TokenPath == "" {
		return fmt.Errorf("token_path must not be empty")
	}

	return nil
}
