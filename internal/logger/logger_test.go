package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", Encoding: "json"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_DebugLevel(t *testing.T) {
	l, err := New(Config{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: "info", Encoding: "xml", Output: path})
	require.NoError(t, err)

	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestNormalizeEncoding(t *testing.T) {
	assert.Equal(t, "console", normalizeEncoding(" Console "))
	assert.Equal(t, "json", normalizeEncoding(""))
	assert.Equal(t, "json", normalizeEncoding("yaml"))
}

func TestOutputPaths(t *testing.T) {
	assert.Equal(t, []string{"stdout"}, outputPaths(""))
	assert.Equal(t, []string{"stdout"}, outputPaths(" , "))
	assert.Equal(t, []string{"stdout", "/var/log/jrc.log"}, outputPaths("stdout, /var/log/jrc.log,stdout"))
}

func TestNew_WritesToEveryOutput(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")
	l, err := New(Config{Output: first + "," + second})
	require.NoError(t, err)

	l.Warn("both")
	_ = l.Sync()

	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"both"`)
	}
}
