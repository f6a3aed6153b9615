package export

import (
	"bufio"
	"io"

	"github.com/agbru/ulam/internal/spiral"
	"gopkg.in/yaml.v3"
)

// Record is a coordinate tagged with its visit index.
type Record struct {
	Index uint64 `json:"index" yaml:"index"`
	X     int64  `json:"x" yaml:"x"`
	Y     int64  `json:"y" yaml:"y"`
}

// YAMLSink writes a single YAML sequence of index/x/y mappings. Each batch is
// marshaled as its own sequence fragment; concatenated fragments form one
// valid sequence.
type YAMLSink struct {
	w       *bufio.Writer
	index   uint64
	records []Record
}

// NewYAMLSink returns a YAMLSink writing to w.
func NewYAMLSink(w io.Writer) *YAMLSink {
	return &YAMLSink{w: bufio.NewWriter(w)}
}

func (s *YAMLSink) Name() string { return FormatYAML }

func (s *YAMLSink) Write(batch []spiral.Coord[int64]) error {
	if len(batch) == 0 {
		return nil
	}
	s.records = s.records[:0]
	for _, c := range batch {
		s.records = append(s.records, Record{Index: s.index, X: c.X, Y: c.Y})
		s.index++
	}
	b, err := yaml.Marshal(s.records)
	if err != nil {
		return err
	}
	_, err = s.w.Write(b)
	return err
}

// Close flushes output. An empty run produces "[]".
func (s *YAMLSink) Close() error {
	if s.index == 0 {
		if _, err := s.w.WriteString("[]\n"); err != nil {
			return err
		}
	}
	return s.w.Flush()
}
