package service

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger.
// Use in other packages as: service.Logger.Info("Subscribed", zap.String("url", url))
var Logger *zap.Logger

// InitLogger initializes the Zap logger. The production config already logs
// to stderr, which keeps stdout free for the render sinks (the TUI owns the
// terminal, waybar mode emits protocol lines); pass a file path to send logs
// there instead. LOG_LEVEL (debug, info, warn, error) selects the level,
// defaulting to info.
func InitLogger(logPath string) {
	config := zap.NewProductionConfig()

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "time"

	if logPath != "" {
		config.OutputPaths = []string{logPath}
		config.ErrorOutputPaths = []string{logPath}
	}

	if level, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		config.Level = zap.NewAtomicLevelAt(level)
	}

	var err error
	Logger, err = config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}
