// Package logging builds the zap loggers used by the client and the server.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Config holds logging configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // "json" or "console"
	OutputPath  string // file path, "stderr" or "stdout"
	Development bool
}

// New creates a structured logger. The TUI must log to a file because the
// terminal belongs to bubbletea.
func New(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		if config.OutputPath != "stderr" && config.OutputPath != "stdout" {
			if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
				return nil, err
			}
		}
		zapConfig.OutputPaths = []string{config.OutputPath}
		zapConfig.ErrorOutputPaths = []string{config.OutputPath}
	}

	return zapConfig.Build()
}

// NewNop returns a no-op logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
