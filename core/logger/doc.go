// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and a helper for correlating log entries that
// belong to a single reconciliation cycle.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Daemon started")
//
//	// Inside a cycle:
//	l := logger.WithCycle(log, cycleID)
//	l.Error("Source failed", zap.Error(err))
package logger
