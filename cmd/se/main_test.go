package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := baseConfig(dir) + `id = "cli"
`
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func baseConfig(dir string) string {
	return `
[bootstrap]
base_url = "http://a.com"

[bootstrap.api_url]
users = "http://api.a.com/users"

[bootstrap.resources]
img = "images"

[session]
path = "` + filepath.ToSlash(filepath.Join(dir, "session.db")) + `"
`
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommandPrintsResolvedTables(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "config")
	require.NoError(t, err)
	require.Contains(t, out, "base url: http://a.com/\n")
	require.Contains(t, out, "api users: http://api.a.com/users\n")
	require.Contains(t, out, "resource img: http://a.com/images/\n")
}

func TestConfigCommandMissingFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "config")
	require.Error(t, err)
}

func TestSessionCommands(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "session", "set", "user", `{"name":"ann"}`)
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "session", "get", "user")
	require.NoError(t, err)
	require.Equal(t, `{"name":"ann"}`, strings.TrimSpace(out))

	out, err = run(t, "--config", cfg, "session", "json", "user")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"ann"}`, out)

	out, err = run(t, "--config", cfg, "session", "json", "missing")
	require.NoError(t, err)
	require.Equal(t, "null", strings.TrimSpace(out))

	out, err = run(t, "--config", cfg, "session", "import", "a=1&b=2")
	require.NoError(t, err)
	require.Contains(t, out, "imported 2 entries")

	out, err = run(t, "--config", cfg, "session", "list")
	require.NoError(t, err)
	require.Equal(t, "a=1\nb=2\nuser={\"name\":\"ann\"}\n", out)

	// another session id sees nothing
	out, err = run(t, "--config", cfg, "--session", "other", "session", "list")
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = run(t, "--config", cfg, "session", "clear")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "session", "get", "user")
	require.ErrorContains(t, err, "user is not set")
}

func TestSessionCommandsWithoutIDResumeLastSession(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(baseConfig(dir)), 0o600))

	_, err := run(t, "--config", cfg, "session", "set", "user", "ann")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "session", "get", "user")
	require.NoError(t, err)
	require.Equal(t, "ann", strings.TrimSpace(out))

	// an explicit id still selects its own session
	_, err = run(t, "--config", cfg, "--session", "other", "session", "get", "user")
	require.ErrorContains(t, err, "user is not set")
}
