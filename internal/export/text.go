package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/agbru/ulam/internal/spiral"
)

// TextSink writes one "x y" line per coordinate.
type TextSink struct {
	w   *bufio.Writer
	buf []byte
}

// NewTextSink returns a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

func (s *TextSink) Name() string { return FormatText }

func (s *TextSink) Write(batch []spiral.Coord[int64]) error {
	for _, c := range batch {
		s.buf = strconv.AppendInt(s.buf[:0], c.X, 10)
		s.buf = append(s.buf, ' ')
		s.buf = strconv.AppendInt(s.buf, c.Y, 10)
		s.buf = append(s.buf, '\n')
		if _, err := s.w.Write(s.buf); err != nil {
			return err
		}
	}
	return nil
}

func (s *TextSink) Close() error {
	return s.w.Flush()
}
