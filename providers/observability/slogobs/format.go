package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is the key=value text format (default for development).
	FormatCompact Format = "compact"

	// FormatJSON is one JSON object per line (for production/log aggregation).
	FormatJSON Format = "json"
)

// LevelTrace sits below slog.LevelDebug and is filtered out unless asked for.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat parses a format string and returns the corresponding Format.
// If the format is invalid, it returns FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// ParseLevel parses a level name (trace, debug, info, warn, error).
// Unknown names map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetFormatFromEnv checks OMNIWEB_LOG_FORMAT first, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv("OMNIWEB_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// GetLogLevelFromEnv checks OMNIWEB_LOG_LEVEL first, then LOG_LEVEL.
func GetLogLevelFromEnv() slog.Level {
	if level := os.Getenv("OMNIWEB_LOG_LEVEL"); level != "" {
		return ParseLevel(level)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return ParseLevel(level)
	}
	return slog.LevelInfo
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
