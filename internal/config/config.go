package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Output modes selectable via config or the -output flag.
const (
	ModeTUI    = "tui"
	ModeWaybar = "waybar"
)

const (
	defaultWSURL        = "wss://ws.kraken.com/v2"
	defaultRESTURL      = "https://api.kraken.com/0/public/Ticker"
	defaultColorUp      = "#4ec970"
	defaultColorDown    = "#e05555"
	defaultColorNeutral = "#888888"
	defaultSeparator    = "     ·     "
	defaultWidth        = 80
	defaultScrollSpeed  = 8.0
	defaultFPS          = 30
)

// Coin is one configured instrument: the feed pair name, a short display
// name, and the icon key resolved by the render sinks.
type Coin struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
	Icon   string `mapstructure:"icon"`
}

type OutputConfig struct {
	Mode  string `mapstructure:"mode"`
	Width int    `mapstructure:"width"`
}

type FeedConfig struct {
	WSURL   string `mapstructure:"ws_url"`
	RESTURL string `mapstructure:"rest_url"`
}

type AppearanceConfig struct {
	ColorUp      string `mapstructure:"color_up"`
	ColorDown    string `mapstructure:"color_down"`
	ColorNeutral string `mapstructure:"color_neutral"`
	Separator    string `mapstructure:"separator"`
	Icons        bool   `mapstructure:"icons"`
}

type AnimationConfig struct {
	ScrollSpeed float64 `mapstructure:"scroll_speed"` // layout cells per second
	FPS         int     `mapstructure:"fps"`          // clamped to [1, 120]
}

// Config is the full runtime configuration for the ticker.
type Config struct {
	Output     OutputConfig      `mapstructure:"output"`
	Feed       FeedConfig        `mapstructure:"feed"`
	Appearance AppearanceConfig  `mapstructure:"appearance"`
	Animation  AnimationConfig   `mapstructure:"animation"`
	Coins      []Coin            `mapstructure:"coins"`
	Icons      map[string]string `mapstructure:"icons"` // glyph overrides by icon key
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Load reads the TOML config file at path (or the default location when path
// is empty), applies TICKER_* environment overrides, and normalizes the
// result. A missing or malformed file is never fatal: the ticker starts with
// defaults and logs what happened.
func Load(path string, logger *zap.Logger) *Config {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env file")
	}

	v := viper.New()
	v.SetConfigType("toml")
	if path == "" {
		path = defaultPath()
	}
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("TICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v, logger,
		"output.mode", "output.width",
		"feed.ws_url", "feed.rest_url",
		"appearance.color_up", "appearance.color_down", "appearance.color_neutral",
		"appearance.separator", "appearance.icons",
		"animation.scroll_speed", "animation.fps",
	)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			logger.Info("No config file found, using defaults", zap.String("path", path))
		} else {
			logger.Warn("Failed to read config file, using defaults", zap.String("path", path), zap.Error(err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warn("Unable to decode config into struct, using defaults", zap.Error(err))
		cfg = *Default()
	}

	normalize(&cfg, logger)
	return &cfg
}

// Default returns the configuration used when no file and no overrides exist.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Mode: ModeTUI, Width: defaultWidth},
		Feed:   FeedConfig{WSURL: defaultWSURL, RESTURL: defaultRESTURL},
		Appearance: AppearanceConfig{
			ColorUp:      defaultColorUp,
			ColorDown:    defaultColorDown,
			ColorNeutral: defaultColorNeutral,
			Separator:    defaultSeparator,
			Icons:        true,
		},
		Animation: AnimationConfig{ScrollSpeed: defaultScrollSpeed, FPS: defaultFPS},
		Coins:     DefaultCoins(),
	}
}

// DefaultCoins is the instrument list used when the config file names none.
func DefaultCoins() []Coin {
	return []Coin{
		{Symbol: "BTC/USD", Name: "BTC", Icon: "btc"},
		{Symbol: "ETH/USD", Name: "ETH", Icon: "eth"},
		{Symbol: "SOL/USD", Name: "SOL", Icon: "sol"},
		{Symbol: "ADA/USD", Name: "ADA", Icon: "ada"},
		{Symbol: "XRP/USD", Name: "XRP", Icon: "xrp"},
	}
}

func defaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "waybar-crypto-ticker", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.mode", ModeTUI)
	v.SetDefault("output.width", defaultWidth)

	v.SetDefault("feed.ws_url", defaultWSURL)
	v.SetDefault("feed.rest_url", defaultRESTURL)

	v.SetDefault("appearance.color_up", defaultColorUp)
	v.SetDefault("appearance.color_down", defaultColorDown)
	v.SetDefault("appearance.color_neutral", defaultColorNeutral)
	v.SetDefault("appearance.separator", defaultSeparator)
	v.SetDefault("appearance.icons", true)

	v.SetDefault("animation.scroll_speed", defaultScrollSpeed)
	v.SetDefault("animation.fps", defaultFPS)
}

// bindEnv makes flat environment variables (TICKER_OUTPUT_MODE) visible to
// Unmarshal on their nested keys (output.mode).
func bindEnv(v *viper.Viper, logger *zap.Logger, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			logger.Warn("Could not bind env var", zap.String("key", key), zap.Error(err))
		}
	}
}

func normalize(cfg *Config, logger *zap.Logger) {
	switch cfg.Output.Mode {
	case ModeTUI, ModeWaybar:
	default:
		logger.Warn("Unknown output mode, falling back to tui", zap.String("mode", cfg.Output.Mode))
		cfg.Output.Mode = ModeTUI
	}
	if cfg.Output.Width < 1 {
		cfg.Output.Width = defaultWidth
	}

	if cfg.Feed.WSURL == "" {
		cfg.Feed.WSURL = defaultWSURL
	}
	if cfg.Feed.RESTURL == "" {
		cfg.Feed.RESTURL = defaultRESTURL
	}

	cfg.Appearance.ColorUp = validColor(cfg.Appearance.ColorUp, defaultColorUp, logger)
	cfg.Appearance.ColorDown = validColor(cfg.Appearance.ColorDown, defaultColorDown, logger)
	cfg.Appearance.ColorNeutral = validColor(cfg.Appearance.ColorNeutral, defaultColorNeutral, logger)

	if cfg.Animation.ScrollSpeed <= 0 {
		cfg.Animation.ScrollSpeed = defaultScrollSpeed
	}
	if cfg.Animation.FPS < 1 {
		cfg.Animation.FPS = 1
	}
	if cfg.Animation.FPS > 120 {
		cfg.Animation.FPS = 120
	}

	if len(cfg.Coins) == 0 {
		cfg.Coins = DefaultCoins()
	}
}

func validColor(c, fallback string, logger *zap.Logger) string {
	if hexColorRe.MatchString(c) {
		return c
	}
	logger.Warn("Invalid hex color, using default", zap.String("color", c), zap.String("default", fallback))
	return fallback
}
