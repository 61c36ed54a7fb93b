// Package logger builds the slog.Logger used across the instance:
// JSON output in prod, human-readable text elsewhere.
package logger
