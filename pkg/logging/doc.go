// Package logging provides structured logging configuration for fixtr.
//
// This package wraps log/slog to provide consistent logging across all fixtr
// components. The population engine logs skipped properties and exhausted
// constraint retries at debug level; nothing in the generation path logs
// above debug during normal operation.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	logger.Debug("property skipped", "property", "Parent.Child", "reason", "cycle")
//
// # Integration
//
// Components accept a *slog.Logger in their configuration. If no logger is
// provided, logging.Nop() is used, so generation stays silent by default.
package logging
