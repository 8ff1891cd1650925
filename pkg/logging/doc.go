// Package logging provides the subsystem logger used across mico.
//
// It is a thin layer over log/slog: every record carries a "subsystem"
// attribute (Transport, Cache, Client, Graph, Session, Config) and, for
// errors, an "error" attribute.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Debug("Cache", "Created stream for %s", path)
//	logging.Warn("Client", "Refresh of %s failed: %v", path, err)
//	logging.Error("Transport", err, "Request to %s failed", url)
//
// Before InitForCLI is called only warnings and errors are written (to
// stderr), so library code can log unconditionally.
package logging
