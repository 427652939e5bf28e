package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticker.log")

	InitLogger(path)
	Logger.Info("logger test entry")
	require.NoError(t, Logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger test entry")
}

func TestInitLoggerLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "ticker.log")

	InitLogger(path)
	Logger.Info("filtered entry")
	Logger.Error("visible entry")
	require.NoError(t, Logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered entry")
	assert.Contains(t, string(data), "visible entry")
}
