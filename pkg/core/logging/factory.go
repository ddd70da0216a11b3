// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from config strings
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"

	mclog "github.com/msto63/mcpi/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "logfmt" (default: text)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *mclog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mclog.NewWithConfig(mclog.Config{
		Level:  parseLevel(cfg.Level),
		Format: parseFormat(cfg.Format),
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewServiceLogger creates a logger for a service with standard configuration
func NewServiceLogger(serviceName, level string) *mclog.Logger {
	cfg := DefaultLoggerConfig(serviceName)
	if level != "" {
		cfg.Level = level
	}
	return NewLogger(cfg)
}

// parseLevel converts a string level to mclog.Level, falling back to info
func parseLevel(level string) mclog.Level {
	l, err := mclog.ParseLevel(level)
	if err != nil {
		return mclog.LevelInfo
	}
	return l
}

func parseFormat(format string) mclog.Format {
	if strings.TrimSpace(format) == "" {
		return mclog.FormatText
	}
	f, err := mclog.ParseFormat(format)
	if err != nil {
		return mclog.FormatText
	}
	return f
}
