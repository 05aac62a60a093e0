// Package slogobs provides an observability.Provider implementation backed by
// Go's standard library log/slog package.
// Spans and metrics are rendered as structured log records; the output
// format and level are chosen with [WithFormat] and [WithLevel] or, when no
// option is given, from OMNIWEB_LOG_FORMAT / OMNIWEB_LOG_LEVEL.
package slogobs
