// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger with the constructors and
// context helpers used by the sync server and the inspector client.
//
// Request-scoped loggers travel in context.Context (zerolog WithContext /
// log.Ctx) and carry a trace_id field; obtain them with FromContext or
// FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TraceIDField is the log field holding the per-request trace id.
const TraceIDField = "trace_id"

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON *Logger writing to stdout for the given role
// label (e.g. "bankroll-sync-server"). Every entry carries the role, a
// timestamp and the calling function name in the "func" field.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

// NewFileLogger is like NewLogger but appends to the file at path, falling
// back to stderr when it cannot be opened. Used by the terminal client, whose
// stdout belongs to the UI.
func NewFileLogger(role, path string) *Logger {
	var out io.Writer = os.Stderr
	if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		out = f
	}
	return newLogger(out, role)
}

func newLogger(out io.Writer, role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy of the logger that can be enriched without
// affecting the receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithTraceID derives a child logger tagged with traceID and returns a
// context carrying it together with the logger itself.
func (l *Logger) WithTraceID(ctx context.Context, traceID string) (context.Context, *Logger) {
	child := l.With().Str(TraceIDField, traceID).Logger()
	return child.WithContext(ctx), &Logger{child}
}

// FromRequest returns the logger attached to the request context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx. When none is attached
// zerolog falls back to its default logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
