package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger writes JSON lines to w, tagging every entry with component.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewLeveledLogger(w, component, "")
}

// NewLeveledLogger is NewLogger with a minimum level.
func NewLeveledLogger(w io.Writer, component, level string) *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(w).
		Level(levelOrInfo(level)).
		With().Str("component", component).Timestamp().
		Logger())
}

// NewConsoleLogger writes human-readable lines to w through
// zerolog.ConsoleWriter, for the terminal side of the CLI.
func NewConsoleLogger(w io.Writer, level string, noColor bool) *ZerologAdapter {
	console := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.TimeOnly}
	return NewZerologAdapter(zerolog.New(console).
		Level(levelOrInfo(level)).
		With().Timestamp().
		Logger())
}

// Zerolog exposes the underlying logger for components that emit events
// directly, such as the ring logging observer.
func (z *ZerologAdapter) Zerolog() zerolog.Logger {
	return z.logger
}

// send attaches fields to e by their dynamic type and emits it.
func send(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case error:
			e = e.Err(v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

func (z *ZerologAdapter) Info(msg string, fields ...Field)  { send(z.logger.Info(), msg, fields) }
func (z *ZerologAdapter) Debug(msg string, fields ...Field) { send(z.logger.Debug(), msg, fields) }

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	send(z.logger.Error().Err(err), msg, fields)
}

func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}
