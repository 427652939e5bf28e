package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/config"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/feed"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/service"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ticker"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/ui"
	"github.com/honeycomb-Technologies/waybar-crypto-ticker/internal/waybar"
)

// version is stamped by the build.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "config file path (default ~/.config/waybar-crypto-ticker/config.toml)")
	outputMode := flag.String("output", "", "render sink: tui or waybar (overrides the config file)")
	logPath := flag.String("log", "", "log file path (default stderr; use a file in waybar mode)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("waybar-crypto-ticker", version)
		return
	}

	service.InitLogger(*logPath)
	defer service.Logger.Sync()

	cfg := config.Load(*configPath, service.Logger)
	if *outputMode != "" {
		cfg.Output.Mode = *outputMode
	}

	// One shared state: the feed writes into it, the sink drains it.
	coins := append([]config.Coin(nil), cfg.Coins...)
	if !cfg.Appearance.Icons {
		for i := range coins {
			coins[i].Icon = ""
		}
	}
	state := ticker.NewState(coins, cfg.Appearance.Separator)

	symbols := make([]string, 0, len(coins))
	for _, c := range coins {
		symbols = append(symbols, c.Symbol)
	}

	client := feed.NewClient(feed.Config{
		WSURL:   cfg.Feed.WSURL,
		RESTURL: cfg.Feed.RESTURL,
		Symbols: symbols,
	}, state, service.Logger.With(zap.String("component", "feed")))

	ctx := context.Background()
	go client.Run(ctx)

	service.Logger.Info("Ticker starting",
		zap.String("version", version),
		zap.String("mode", cfg.Output.Mode),
		zap.Strings("symbols", symbols))

	switch cfg.Output.Mode {
	case config.ModeTUI:
		if err := ui.Run(ctx, state, cfg); err != nil {
			service.Logger.Fatal("TUI exited", zap.Error(err))
		}
	case config.ModeWaybar:
		emitter := waybar.NewEmitter(os.Stdout, state, cfg,
			service.Logger.With(zap.String("component", "waybar")))
		if err := emitter.Run(ctx); err != nil {
			service.Logger.Fatal("Emitter exited", zap.Error(err))
		}
	default:
		service.Logger.Fatal("Unknown output mode", zap.String("mode", cfg.Output.Mode))
	}
}
