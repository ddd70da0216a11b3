// Package log provides structured logging for mcpi.
//
// Package: log
// Title: mcpi Structured Logging
// Description: Leveled logger with persistent context fields, a logger name
//              and a correlation ID, rendering entries as JSON, text or
//              logfmt. A Timer helper logs the duration of an operation when
//              it is stopped.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-21
// Modified: 2026-10-10
//
// Change History:
// - 2026-09-21 v0.1.0: Logger, entries, formatters
// - 2026-10-10 v0.2.0: Severity-aware LogError for coded errors
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{
//		Level:  log.LevelDebug,
//		Format: log.FormatText,
//		Name:   "buffon",
//	})
//
//	logger.Info("run completed", log.Fields{
//		"label":       "Parallel(4 threads)",
//		"pi_estimate": 3.14159,
//	})
//
//	timer := logger.StartTimer("trials")
//	defer timer.Stop()
package log
