package spiral

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// goldenPoint mirrors the records written by cmd/generate-golden.
type goldenPoint struct {
	Index uint64 `json:"index"`
	X     int64  `json:"x"`
	Y     int64  `json:"y"`
}

func loadGoldenData(t *testing.T) []goldenPoint {
	t.Helper()
	path := filepath.Join("testdata", "spiral_golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", path, err)
	}
	var points []goldenPoint
	if err := json.Unmarshal(data, &points); err != nil {
		t.Fatalf("Failed to parse golden file: %v", err)
	}
	return points
}

func TestSequence_Golden(t *testing.T) {
	t.Parallel()

	points := loadGoldenData(t)
	if len(points) == 0 {
		t.Fatal("golden file is empty")
	}

	seq := New[int64]()
	for i, p := range points {
		if p.Index != uint64(i) {
			t.Fatalf("golden record %d has index %d", i, p.Index)
		}
		got := seq.Next()
		if got.X != p.X || got.Y != p.Y {
			t.Fatalf("index %d: got %v, want (%d,%d)", p.Index, got, p.X, p.Y)
		}
	}
}
