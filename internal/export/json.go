package export

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/agbru/ulam/internal/spiral"
)

// JSONSink streams a single JSON array of {"x":..,"y":..} objects, one per
// line, so arbitrarily long runs never hold the whole document in memory.
type JSONSink struct {
	w       *bufio.Writer
	written uint64
}

// NewJSONSink returns a JSONSink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: bufio.NewWriter(w)}
}

func (s *JSONSink) Name() string { return FormatJSON }

func (s *JSONSink) Write(batch []spiral.Coord[int64]) error {
	for _, c := range batch {
		b, err := json.Marshal(c)
		if err != nil {
			return err
		}
		sep := ",\n  "
		if s.written == 0 {
			sep = "[\n  "
		}
		if _, err := s.w.WriteString(sep); err != nil {
			return err
		}
		if _, err := s.w.Write(b); err != nil {
			return err
		}
		s.written++
	}
	return nil
}

// Close terminates the array. An empty run produces "[]".
func (s *JSONSink) Close() error {
	tail := "\n]\n"
	if s.written == 0 {
		tail = "[]\n"
	}
	if _, err := s.w.WriteString(tail); err != nil {
		return err
	}
	return s.w.Flush()
}
