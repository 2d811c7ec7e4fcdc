// Package logging assembles structured slog loggers and formatting helpers used
// across vidlang.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers that tag log lines with component names,
// dialog session IDs, and lookup decisions. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
