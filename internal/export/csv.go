package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/agbru/ulam/internal/spiral"
)

var csvHeader = []string{"index", "x", "y"}

// CSVSink writes an "index,x,y" header followed by one record per coordinate.
type CSVSink struct {
	w       *csv.Writer
	index   uint64
	started bool
	record  []string
}

// NewCSVSink returns a CSVSink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), record: make([]string, 3)}
}

func (s *CSVSink) Name() string { return FormatCSV }

func (s *CSVSink) header() error {
	if s.started {
		return nil
	}
	s.started = true
	return s.w.Write(csvHeader)
}

func (s *CSVSink) Write(batch []spiral.Coord[int64]) error {
	if err := s.header(); err != nil {
		return err
	}
	for _, c := range batch {
		s.record[0] = strconv.FormatUint(s.index, 10)
		s.record[1] = strconv.FormatInt(c.X, 10)
		s.record[2] = strconv.FormatInt(c.Y, 10)
		if err := s.w.Write(s.record); err != nil {
			return err
		}
		s.index++
	}
	return nil
}

// Close writes the header if nothing was written and flushes.
func (s *CSVSink) Close() error {
	if err := s.header(); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}
