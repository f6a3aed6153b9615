package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSink_StoresRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spiral.db")
	s, err := OpenSQLiteSink(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "sqlite", NameOf(s))
	assert.Equal(t, path, s.Path())

	coords := firstN(100)
	for start := 0; start < len(coords); start += 30 {
		require.NoError(t, s.Write(coords[start:min(start+30, len(coords))]))
	}
	require.NoError(t, s.Write(nil))

	ctx := context.Background()
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	stored, err := s.Coordinates(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, coords, stored)

	var ring int64
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT ring FROM coordinates WHERE idx = 99").Scan(&ring))
	assert.Equal(t, int64(5), ring)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second Close is a no-op")
}

func TestSQLiteSink_ReopenStartsFresh(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spiral.db")
	first, err := OpenSQLiteSink(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(firstN(40)))
	require.NoError(t, first.Close())

	second, err := OpenSQLiteSink(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Write(firstN(9)))

	n, err := second.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestOpenSQLiteSink_BadPath(t *testing.T) {
	t.Parallel()

	_, err := OpenSQLiteSink(filepath.Join(t.TempDir(), "missing", "dir", "spiral.db"))
	assert.Error(t, err)
}
