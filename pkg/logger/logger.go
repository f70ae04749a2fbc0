// Package logger provides structured logging for the Plagiarism Review Service.
// Built on top of zerolog for high-performance structured logging with contextual fields.
// Supports different log levels and provides convenience methods for common use cases.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogCategory represents different types of log events
type LogCategory string

const (
	Startup LogCategory = "startup"
	Request LogCategory = "request"
	Client  LogCategory = "client"
	Task    LogCategory = "task"
	Error   LogCategory = "error"
	General LogCategory = "general"
)

// parseLevel maps a level string to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init initializes the global logger with the specified log level.
// Sets up console output with pretty formatting for development use.
// Defaults to info level if an invalid level is provided.
func Init(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	// Configure pretty printing for development
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

// NewCategoryLogger creates a logger instance tagged with an event category.
// Category information lands in every entry so log streams can be filtered
// per concern (startup, request handling, engine client calls, tasks).
func NewCategoryLogger(category LogCategory) *zerolog.Logger {
	l := log.With().Str("category", string(category)).Logger()
	return &l
}

// WithRequestID creates a logger with a request ID field.
// Used for tracing requests across middleware and page flows.
func WithRequestID(requestID string) *zerolog.Logger {
	l := log.With().Str("request_id", requestID).Logger()
	return &l
}

// WithContestID creates a logger with a contest ID field.
// Used for tracking aggregation work related to a specific contest.
func WithContestID(contestID string) *zerolog.Logger {
	l := log.With().Str("contest_id", contestID).Logger()
	return &l
}
