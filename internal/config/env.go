package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig    = "OUTLOOK_MCP_CONFIG"
	EnvClientID  = "OUTLOOK_MCP_CLIENT_ID"
	EnvTenantID  = "OUTLOOK_MCP_TENANT_ID"
	EnvTokenPath = "OUTLOOK_MCP_TOKEN_PATH"
	EnvLogLevel  = "OUTLOOK_MCP_LOG_LEVEL"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // OUTLOOK_MCP_CONFIG: override config file path
	ClientID   string // OUTLOOK_MCP_CLIENT_ID: app registration client id
	TenantID   string // OUTLOOK_MCP_TENANT_ID: tenant authority
	TokenPath  string // OUTLOOK_MCP_TOKEN_PATH: token cache file location
	LogLevel   string // OUTLOOK_MCP_LOG_LEVEL: log verbosity
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; Resolve applies the fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		ClientID:   os.Getenv(EnvClientID),
		TenantID:   os.Getenv(EnvTenantID),
		TokenPath:  os.Getenv(EnvTokenPath),
		LogLevel:   os.Getenv(EnvLogLevel),
	}
}
