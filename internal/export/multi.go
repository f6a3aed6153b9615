package export

import (
	"errors"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/spiral"
)

// MultiSink fans every batch out to several sinks, in order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink returns a sink writing to each non-nil sink.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiSink) Name() string { return "multi" }

// Write stops at the first failing sink and reports it as an OutputError
// naming that sink.
func (m *MultiSink) Write(batch []spiral.Coord[int64]) error {
	for _, s := range m.sinks {
		if err := s.Write(batch); err != nil {
			return apperrors.NewOutputError(NameOf(s), err)
		}
	}
	return nil
}

// Close closes every sink, even after a failure, and joins the errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, apperrors.NewOutputError(NameOf(s), err))
		}
	}
	return errors.Join(errs...)
}
