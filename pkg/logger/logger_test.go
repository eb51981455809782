package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/config"
)

func TestLoggerFunctions_NoNilPointers(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		Debug("test debug", "key", "value")
		Info("test info", "key", "value")
		Warn("test warn", "key", "value")
		Error("test error", "key", "value")
	})
}

func TestSetOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)

	Debug("hidden message")
	Info("lookup finished", "query", "al", "count", 2)
	Warn("resolve failed", "err", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "lookup finished")
	assert.Contains(t, out, "query=al")
	assert.Contains(t, out, "resolve failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("debug"))
	assert.Equal(t, log.WarnLevel, parseLevel("warn"))
	assert.Equal(t, log.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, log.InfoLevel, parseLevel(""))
}

func TestInitWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))

	Init(true)
	t.Cleanup(func() { _ = Close() })
	assert.Equal(t, log.DebugLevel, GetLogger().GetLevel())

	Debug("written to file", "post", 7)
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "codereview-cli.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
