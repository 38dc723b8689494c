/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for the Akaylee Templater. Provides structured logging with
timestamped files, text and JSON output formats, and per-run log files so batch
conversions and match sessions can be audited after the fact.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// LogFormat selects the output format.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// Config holds logger configuration, filled from CLI flags.
type Config struct {
	Level     string    `json:"level"`      // debug, info, warn, error
	Format    LogFormat `json:"format"`     // Output format
	OutputDir string    `json:"output_dir"` // Log directory, empty for stderr only
	Colors    bool      `json:"colors"`     // Colorize text output
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	return nil
}

// NewLogger creates a configured logrus logger. When an output directory is
// set, log lines go both to stderr and a timestamped file inside it.
func NewLogger(config *Config) (*logrus.Logger, error) {
	if config == nil {
		config = &Config{Level: "info", Format: LogFormatText, Colors: true}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logrus.New()
	level, _ := logrus.ParseLevel(config.Level)
	logger.SetLevel(level)

	switch config.Format {
	case LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     config.Colors,
			DisableColors:   !config.Colors,
		})
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		name := fmt.Sprintf("templater_%s.log", time.Now().Format("20060102_150405"))
		file, err := os.OpenFile(filepath.Join(config.OutputDir, name),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, file))
	}

	return logger, nil
}
