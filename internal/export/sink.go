// Package export writes spiral coordinates to their destinations: a text
// encoding on an io.Writer, or a SQLite table.
//
// Sinks receive coordinates in batches, in visit order, and are not safe for
// concurrent use. Close flushes buffered output; it never closes the
// underlying io.Writer, which stays owned by the caller.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/ulam/internal/spiral"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatGrid = "grid"
)

// Formats lists every value accepted by NewSink.
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatYAML, FormatGrid}

// Sink consumes batches of coordinates.
type Sink interface {
	// Write appends a batch. The index of the first coordinate of a batch is
	// the number of coordinates written before it.
	Write(batch []spiral.Coord[int64]) error
	// Close flushes pending output.
	Close() error
}

// named is implemented by the sinks of this package so that failures can
// report which destination broke.
type named interface {
	Name() string
}

// NameOf returns the display name of s, or "output" for foreign sinks.
func NameOf(s Sink) string {
	if n, ok := s.(named); ok {
		return n.Name()
	}
	return "output"
}

// NewSink returns the sink encoding coordinates in format onto w.
func NewSink(format string, w io.Writer) (Sink, error) {
	switch strings.ToLower(format) {
	case FormatText:
		return NewTextSink(w), nil
	case FormatJSON:
		return NewJSONSink(w), nil
	case FormatCSV:
		return NewCSVSink(w), nil
	case FormatYAML:
		return NewYAMLSink(w), nil
	case FormatGrid:
		return NewGridSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
