package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"":        log.InfoLevel,
		"Info":    log.InfoLevel,
		"warning": log.WarnLevel,
		"WARN":    log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestEnableFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "inktop.log")
	require.NoError(t, EnableFileLogging(path))
	t.Cleanup(Close)

	Warn("surface failed", "display", "DP-1")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "surface failed")
	assert.Contains(t, string(data), "DP-1")
}
