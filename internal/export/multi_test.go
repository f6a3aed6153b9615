package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/spiral"
)

// stubSink records batches and can be told to fail.
type stubSink struct {
	name     string
	batches  int
	closed   bool
	writeErr error
	closeErr error
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Write([]spiral.Coord[int64]) error {
	s.batches++
	return s.writeErr
}

func (s *stubSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestMultiSink_FansOut(t *testing.T) {
	t.Parallel()

	var text, csv bytes.Buffer
	m := NewMultiSink(NewTextSink(&text), nil, NewCSVSink(&csv))
	writeInBatches(t, m, firstN(3), 2)

	assert.Equal(t, "0 0\n1 0\n1 1\n", text.String())
	assert.Equal(t, "index,x,y\n0,0,0\n1,1,0\n2,1,1\n", csv.String())
	assert.Equal(t, "multi", NameOf(m))
}

func TestMultiSink_WriteErrorNamesSink(t *testing.T) {
	t.Parallel()

	ok := &stubSink{name: "first"}
	bad := &stubSink{name: "sqlite", writeErr: errors.New("locked")}
	after := &stubSink{name: "after"}
	m := NewMultiSink(ok, bad, after)

	err := m.Write(firstN(1))
	var outErr apperrors.OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "sqlite", outErr.Sink)
	assert.Equal(t, 0, after.batches, "sinks after the failure are skipped")
}

func TestMultiSink_CloseClosesAll(t *testing.T) {
	t.Parallel()

	a := &stubSink{name: "a", closeErr: errors.New("a failed")}
	b := &stubSink{name: "b"}
	c := &stubSink{name: "c", closeErr: errors.New("c failed")}

	err := NewMultiSink(a, b, c).Close()
	require.Error(t, err)
	assert.True(t, a.closed && b.closed && c.closed)
	assert.ErrorContains(t, err, "writing a output: a failed")
	assert.ErrorContains(t, err, "writing c output: c failed")
}

func TestNameOf_Foreign(t *testing.T) {
	t.Parallel()
	var s Sink = struct{ Sink }{&stubSink{}}
	assert.Equal(t, "output", NameOf(s))
}
