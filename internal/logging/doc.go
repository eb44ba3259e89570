// Package logging assembles structured slog loggers and attribute helpers used
// across slated components.
//
// It centralizes level and output plumbing, exposes context-aware helpers so
// batch code can automatically tag log lines with file paths and correlation
// IDs, and provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
