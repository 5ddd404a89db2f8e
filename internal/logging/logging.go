package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dm/esaudit-go/internal/config"
)

// Setup configures the global logrus logger from the resolved config. With a
// log file set, output rotates through lumberjack; otherwise it goes to
// stderr. An unparsable level falls back to info.
func Setup(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.SetOutput(output(cfg, os.Stderr))
}

// SetupTUI configures logging for terminal UI mode. The alternate screen owns
// stderr, so without a log file everything is discarded.
func SetupTUI(cfg *config.Config) {
	Setup(cfg)
	logrus.SetOutput(output(cfg, io.Discard))
}

func output(cfg *config.Config, fallback io.Writer) io.Writer {
	if cfg.LogFile == "" {
		return fallback
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogBackups,
		MaxAge:     cfg.LogMaxAge,
	}
}
