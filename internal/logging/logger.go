// Package logging provides the unified logging interface of the ulam tool.
// Components log through Logger so the backend (zerolog by default, the
// standard library logger for legacy callers) can be swapped in one place.
package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the unified logging interface used across the application.
type Logger interface {
	Info(msg string, fields ...Field)
	// Error logs msg at error level with err attached.
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)

	// Printf and Println keep log.Logger call sites working.
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is one key-value pair of a structured entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field     { return Field{Key: key, Value: value} }
func Uint64(key string, value uint64) Field   { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Err(err error) Field                     { return Field{Key: "error", Value: err} }

// ParseLevel converts a textual level ("debug", "info", "warn", ...) into a
// zerolog level. An empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}

// levelOrInfo is ParseLevel for constructors: config validation has already
// rejected bad levels, so anything unparseable here means info.
func levelOrInfo(level string) zerolog.Level {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
