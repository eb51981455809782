package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))
	return dir
}

func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	require.NoError(t, Init(customConfigPath))

	assert.Equal(t, filepath.Join(tempDir, "custom", "path"), GetConfigDir())
	assert.Equal(t, customConfigPath, GetConfigFile())

	info, err := os.Stat(GetConfigDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitWithoutPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOCALAPPDATA", home)

	require.NoError(t, Init(""))
	assert.Contains(t, GetConfigDir(), filepath.Join("codereview", "cli"))
}

func TestCredentialsPathUnderConfigDir(t *testing.T) {
	dir := initTemp(t)
	assert.Equal(t, filepath.Join(dir, "credentials"), GetCredentialsPath())
}

func TestDefaults(t *testing.T) {
	dir := initTemp(t)

	assert.Equal(t, "http://localhost:5000", GetString("api.base_url"))
	assert.Equal(t, 30, GetInt("api.timeout"))
	assert.Equal(t, 10.0, GetFloat("api.max_rps"))
	assert.Equal(t, "text", GetString("output.format"))
	assert.Equal(t, "info", GetString("log.level"))
	assert.Equal(t, filepath.Join(dir, "codereview-cli.log"), GetString("log.file"))
	assert.Equal(t, 300*time.Millisecond, GetDuration("mention.debounce"))
	assert.Equal(t, 10, GetInt("mention.suggestion_limit"))
	assert.Equal(t, "block", GetString("mention.on_resolve_error"))
	assert.Equal(t, 4, GetInt("thread.max_depth"))
	assert.Equal(t, 30*time.Second, GetDuration("notifications.poll_interval"))
	assert.False(t, GetBool("some.bool.key"))
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://review.example.com"

[mention]
debounce = "150ms"
on_resolve_error = "defer"

[thread]
max_depth = 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, Init(path))

	assert.Equal(t, "https://review.example.com", GetString("api.base_url"))
	assert.Equal(t, 150*time.Millisecond, GetDuration("mention.debounce"))
	assert.Equal(t, "defer", GetString("mention.on_resolve_error"))
	assert.Equal(t, 6, GetInt("thread.max_depth"))
	// untouched keys keep their defaults
	assert.Equal(t, 30, GetInt("api.timeout"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("CODEREVIEW_API_BASE_URL", "http://env.example:9000")
	t.Setenv("CODEREVIEW_THREAD_MAX_DEPTH", "2")
	initTemp(t)

	assert.Equal(t, "http://env.example:9000", GetString("api.base_url"))
	assert.Equal(t, 2, GetInt("thread.max_depth"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs/cli.log"), expandPath("~/logs/cli.log"))
	assert.Equal(t, "/var/log/cli.log", expandPath("/var/log/cli.log"))
	assert.Equal(t, "", expandPath(""))
}

func TestSetStringPersists(t *testing.T) {
	dir := initTemp(t)

	require.NoError(t, SetString("output.format", "json"))
	assert.Equal(t, "json", GetString("output.format"))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "json")
}

func TestMultipleInitCalls(t *testing.T) {
	tempDir := t.TempDir()

	require.NoError(t, Init(filepath.Join(tempDir, "config1", "config.toml")))
	firstDir := GetConfigDir()

	require.NoError(t, Init(filepath.Join(tempDir, "config2", "config.toml")))
	assert.NotEqual(t, firstDir, GetConfigDir())
}
