package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agbru/ulam/internal/spiral"
)

// firstN returns the first n spiral coordinates.
func firstN(n int) []spiral.Coord[int64] {
	seq := spiral.New[int64]()
	out := make([]spiral.Coord[int64], n)
	for i := range out {
		out[i] = seq.Next()
	}
	return out
}

// writeInBatches feeds coords to s in batches of size and closes it.
func writeInBatches(t *testing.T, s Sink, coords []spiral.Coord[int64], size int) {
	t.Helper()
	for start := 0; start < len(coords); start += size {
		end := min(start+size, len(coords))
		require.NoError(t, s.Write(coords[start:end]))
	}
	require.NoError(t, s.Close())
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestNewSink_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		n      int
		golden string
	}{
		{FormatText, 9, "text_9"},
		{FormatCSV, 9, "csv_9"},
		{FormatJSON, 9, "json_9"},
		{FormatJSON, 0, "json_0"},
		{FormatGrid, 9, "grid_9"},
		{FormatGrid, 12, "grid_12"},
		{FormatGrid, 25, "grid_25"},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			s, err := NewSink(tt.format, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.format, NameOf(s))

			writeInBatches(t, s, firstN(tt.n), 4)
			newGoldie(t).Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestNewSink_BatchingDoesNotChangeOutput(t *testing.T) {
	t.Parallel()

	coords := firstN(50)
	for _, format := range Formats {
		var one, many bytes.Buffer
		s1, err := NewSink(format, &one)
		require.NoError(t, err)
		writeInBatches(t, s1, coords, len(coords))

		s2, err := NewSink(format, &many)
		require.NoError(t, err)
		writeInBatches(t, s2, coords, 3)

		assert.Equal(t, one.String(), many.String(), "format %s", format)
	}
}

func TestNewSink_UnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := NewSink("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown output format")

	s, err := NewSink("CSV", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &CSVSink{}, s)
}

func TestYAMLSink_Decodes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	coords := firstN(30)
	writeInBatches(t, NewYAMLSink(&buf), coords, 7)

	var records []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, len(coords))
	for i, r := range records {
		assert.Equal(t, uint64(i), r.Index)
		assert.Equal(t, coords[i], spiral.C(r.X, r.Y))
	}
}

func TestYAMLSink_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewYAMLSink(&buf)
	require.NoError(t, s.Write(nil))
	require.NoError(t, s.Close())

	var records []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	assert.Empty(t, records)
}

func TestCSVSink_EmptyHasHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewCSVSink(&buf).Close())
	assert.Equal(t, "index,x,y\n", buf.String())
}

func TestRenderGrid_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderGrid(&buf, nil))
	assert.Empty(t, buf.String())
}

// failingWriter fails every write.
type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestSinks_PropagateWriteErrors(t *testing.T) {
	t.Parallel()

	coords := firstN(5000)
	for _, format := range Formats {
		s, err := NewSink(format, failingWriter{})
		require.NoError(t, err)
		// Buffered sinks may accept the batch and fail on Close instead.
		werr := s.Write(coords)
		cerr := s.Close()
		assert.True(t, errors.Is(werr, errDiskFull) || errors.Is(cerr, errDiskFull),
			"format %s: write=%v close=%v", format, werr, cerr)
	}
}
