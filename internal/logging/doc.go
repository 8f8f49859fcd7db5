// Package logging assembles structured slog loggers and formatting helpers used
// across saveshelf.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scanners and builders can tag
// log lines with the catalog run, backend and title key automatically. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
