package orchestration

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
	"github.com/agbru/ulam/internal/logging"
	"github.com/agbru/ulam/internal/spiral"
)

// memorySink keeps every batch it receives.
type memorySink struct {
	mu       sync.Mutex
	coords   []spiral.Coord[int64]
	sizes    []int
	closed   int
	writeErr error
	closeErr error
	// failAfter makes Write fail once this many batches were accepted.
	failAfter int
}

func (m *memorySink) Name() string { return "memory" }

func (m *memorySink) Write(batch []spiral.Coord[int64]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil && len(m.sizes) >= m.failAfter {
		return m.writeErr
	}
	m.coords = append(m.coords, batch...)
	m.sizes = append(m.sizes, len(batch))
	return nil
}

func (m *memorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return m.closeErr
}

// progressRecorder collects progress notifications.
type progressRecorder struct {
	mu      sync.Mutex
	updates []spiral.ProgressUpdate
}

func (p *progressRecorder) Update(u spiral.ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
}

// cancelingGenerator cancels its context after a number of coordinates.
type cancelingGenerator struct {
	seq    *spiral.Sequence[int64]
	after  int
	calls  int
	cancel context.CancelFunc
}

func (g *cancelingGenerator) Next() spiral.Coord[int64] {
	g.calls++
	if g.calls == g.after {
		g.cancel()
	}
	return g.seq.Next()
}

func TestGenerate_WritesSpiralInBatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		count     uint64
		batchSize int
		sizes     []int
		rings     uint64
		maxRing   uint64
	}{
		{"exact batches", 25, 5, []int{5, 5, 5, 5, 5}, 3, 2},
		{"ragged tail", 10, 4, []int{4, 4, 2}, 2, 2},
		{"single batch", 9, 100, []int{9}, 2, 1},
		{"one coordinate", 1, 8, []int{1}, 1, 0},
		{"default batch size", 2048 + 3, 0, []int{1024, 1024, 3}, 23, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &memorySink{}
			summary, err := Generate(context.Background(), spiral.New[int64](), sink, Options{
				Count:     tt.count,
				BatchSize: tt.batchSize,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.sizes, sink.sizes)
			assert.Equal(t, 1, sink.closed)
			require.Len(t, sink.coords, int(tt.count))

			want := spiral.New[int64]()
			for i, c := range sink.coords {
				require.Equal(t, want.Next(), c, "coordinate %d", i)
			}

			assert.Equal(t, tt.count, summary.Count)
			assert.Equal(t, tt.rings, summary.Rings)
			assert.Equal(t, tt.maxRing, summary.MaxRing)
			assert.Equal(t, spiral.C[int64](0, 0), summary.First)
			assert.Equal(t, sink.coords[len(sink.coords)-1], summary.Last)
		})
	}
}

func TestGenerate_ZeroCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	summary, err := Generate(context.Background(), spiral.New[int64](), export.NewJSONSink(&buf), Options{})
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Rings)
	assert.Equal(t, "[]\n", buf.String())
}

func TestGenerate_NotifiesObservers(t *testing.T) {
	t.Parallel()

	rec := &progressRecorder{}
	subject := spiral.NewProgressSubject()
	subject.Register(rec)

	_, err := Generate(context.Background(), spiral.New[int64](), &memorySink{}, Options{
		Count:     49,
		BatchSize: 10,
		Subject:   subject,
	})
	require.NoError(t, err)

	require.Len(t, rec.updates, 5)
	var produced, batches []uint64
	for _, u := range rec.updates {
		produced = append(produced, u.Produced)
		batches = append(batches, u.Batch)
		assert.Equal(t, uint64(49), u.Total)
	}
	assert.Equal(t, []uint64{10, 20, 30, 40, 49}, produced)
	assert.Equal(t, []uint64{10, 10, 10, 10, 9}, batches)
	last := rec.updates[len(rec.updates)-1]
	assert.Equal(t, 1.0, last.Value)
	assert.Equal(t, uint64(3), last.Ring)
}

func TestGenerate_SinkWriteError(t *testing.T) {
	t.Parallel()

	sink := &memorySink{writeErr: errors.New("disk full"), failAfter: 2}
	summary, err := Generate(context.Background(), spiral.New[int64](), sink, Options{
		Count:     1000,
		BatchSize: 10,
	})

	var outErr apperrors.OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "memory", outErr.Sink)
	assert.Equal(t, uint64(20), summary.Count)
	assert.Equal(t, 1, sink.closed, "sink is closed even after a failure")
}

func TestGenerate_SinkCloseError(t *testing.T) {
	t.Parallel()

	sink := &memorySink{closeErr: errors.New("flush failed")}
	_, err := Generate(context.Background(), spiral.New[int64](), sink, Options{Count: 5})

	var outErr apperrors.OutputError
	require.ErrorAs(t, err, &outErr)
	assert.ErrorContains(t, err, "flush failed")
}

func TestGenerate_MultiSinkErrorKeepsInnerName(t *testing.T) {
	t.Parallel()

	bad := &memorySink{writeErr: errors.New("locked")}
	multi := export.NewMultiSink(export.NewTextSink(&bytes.Buffer{}), bad)
	_, err := Generate(context.Background(), spiral.New[int64](), multi, Options{Count: 3})

	var outErr apperrors.OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "memory", outErr.Sink)
}

func TestGenerate_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := &cancelingGenerator{seq: spiral.New[int64](), after: 25, cancel: cancel}

	sink := &memorySink{}
	summary, err := Generate(ctx, gen, sink, Options{Count: 1_000_000, BatchSize: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var genErr apperrors.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Less(t, summary.Count, uint64(1_000_000))
	assert.Equal(t, 1, sink.closed)
}

func TestGenerate_AlreadyCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	summary, err := Generate(ctx, spiral.New[int64](), sink, Options{Count: 100})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Count)
	assert.Empty(t, sink.coords)
}

func TestGenerate_Logs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "orchestration")
	_, err := Generate(context.Background(), spiral.New[int64](), &memorySink{}, Options{Count: 9, Logger: logger})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "generation started")
	assert.Contains(t, out, "generation complete")
	assert.Contains(t, out, `"rings":2`)

	buf.Reset()
	_, err = Generate(context.Background(), spiral.New[int64](), &memorySink{closeErr: errors.New("boom")}, Options{Count: 1, Logger: logger})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "generation failed")
}
