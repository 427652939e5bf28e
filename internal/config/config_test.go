package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())

	assert.Equal(t, Default(), cfg)
	require.Len(t, cfg.Coins, 5)
	assert.Equal(t, "BTC/USD", cfg.Coins[0].Symbol)
	assert.Equal(t, "XRP/USD", cfg.Coins[4].Symbol)
}

func TestLoadReadsFileAndClampsValues(t *testing.T) {
	path := writeConfig(t, `
[output]
mode = "waybar"
width = 120

[appearance]
color_up = "#00ff00"
color_down = "nope"

[animation]
scroll_speed = 12.5
fps = 500

[[coins]]
symbol = "DOGE/USD"
name = "DOGE"
icon = "doge"

[icons]
doge = "Ð"
`)
	cfg := Load(path, zap.NewNop())

	assert.Equal(t, ModeWaybar, cfg.Output.Mode)
	assert.Equal(t, 120, cfg.Output.Width)
	assert.Equal(t, "#00ff00", cfg.Appearance.ColorUp)
	assert.Equal(t, defaultColorDown, cfg.Appearance.ColorDown)
	assert.Equal(t, 12.5, cfg.Animation.ScrollSpeed)
	assert.Equal(t, 120, cfg.Animation.FPS)
	require.Len(t, cfg.Coins, 1)
	assert.Equal(t, "DOGE/USD", cfg.Coins[0].Symbol)
	assert.Equal(t, "Ð", cfg.Icons["doge"])
}

func TestLoadClampsFPSFloor(t *testing.T) {
	path := writeConfig(t, "[animation]\nfps = 0\n")
	cfg := Load(path, zap.NewNop())

	assert.Equal(t, 1, cfg.Animation.FPS)
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	path := writeConfig(t, "this is not [[[ toml")
	cfg := Load(path, zap.NewNop())

	assert.Equal(t, Default(), cfg)
}

func TestLoadUnknownOutputModeFallsBack(t *testing.T) {
	path := writeConfig(t, "[output]\nmode = \"hologram\"\n")
	cfg := Load(path, zap.NewNop())

	assert.Equal(t, ModeTUI, cfg.Output.Mode)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICKER_OUTPUT_MODE", "waybar")
	t.Setenv("TICKER_ANIMATION_FPS", "60")

	cfg := Load(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())

	assert.Equal(t, ModeWaybar, cfg.Output.Mode)
	assert.Equal(t, 60, cfg.Animation.FPS)
}
