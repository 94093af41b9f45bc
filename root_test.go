package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores global flag state between tests since cobra binds
// flags to package-level variables.
func resetFlags(t *testing.T) {
	t.Helper()

	flagConfigPath = ""
	flagJSON = false
	flagVerbose = false
	flagQuiet = false
	resolvedCfg = nil

	t.Cleanup(func() {
		flagConfigPath = ""
		flagJSON = false
		flagVerbose = false
		flagQuiet = false
		resolvedCfg = nil
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	resetFlags(t)

	cmd := newRootCmd()

	want := []string{"login", "logout", "whoami", "serve", "config"}
	for _, name := range want {
		found := false

		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestConfigPath_PrintsFlagOverride(t *testing.T) {
	resetFlags(t)

	out, err := execute(t, "config", "path", "--config", "/tmp/custom.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/custom.toml")
}

func TestConfigShow_EffectiveConfig(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\nclient_id = \"app-123\"\n"), 0o600))

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "app-123")
	assert.Contains(t, out, "log_level")
}

func TestConfigShow_JSON(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\nclient_id = \"app-123\"\n"), 0o600))

	out, err := execute(t, "config", "show", "--config", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"ClientID": "app-123"`)
}

func TestRootCmd_BrokenConfigRejected(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlog_level = \"loud\"\n"), 0o600))

	_, err := execute(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestRootCmd_ConfigPathSkipsValidation(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlog_level = \"loud\"\n"), 0o600))

	out, err := execute(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestLogin_RequiresClientID(t *testing.T) {
	resetFlags(t)

	// Config without a client_id: login must fail fast with guidance.
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	_, err := execute(t, "login", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestBuildLogger_LevelsFromConfig(t *testing.T) {
	resetFlags(t)

	resolvedCfg = nil
	logger := buildLogger()
	require.NotNil(t, logger)
}
