package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// GoldenPoint is one record of the golden file.
type GoldenPoint struct {
	Index uint64 `json:"index"`
	X     int64  `json:"x"`
	Y     int64  `json:"y"`
}

func main() {
	outputDir := flag.String("out", "internal/spiral/testdata", "Output directory for the golden file")
	count := flag.Uint64("n", 625, "Number of coordinates to record")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "spiral_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	data := make([]GoldenPoint, 0, *count)
	for i := uint64(0); i < *count; i++ {
		x, y := closedForm(i)
		data = append(data, GoldenPoint{Index: i, X: x, Y: y})
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %d points at %s\n", len(data), filename)
}

// closedForm computes the coordinate at index i directly from its ring and
// its offset along the ring, without walking the spiral. It serves as the
// oracle for the incremental generator.
//
// Ring k ends at index (2k+1)^2-1 and starts at (k, -k+1); its 8k cells run up
// the right edge, left along the top, down the left edge and right along the
// bottom to (k, -k).
func closedForm(i uint64) (int64, int64) {
	if i == 0 {
		return 0, 0
	}
	var k uint64 = 1
	for (2*k+1)*(2*k+1) <= i {
		k++
	}
	p := int64(i - (2*k-1)*(2*k-1))
	r := int64(k)
	switch {
	case p < 2*r:
		return r, -r + 1 + p
	case p < 4*r:
		return r - 1 - (p - 2*r), r
	case p < 6*r:
		return -r, r - 1 - (p - 4*r)
	default:
		return -r + 1 + (p - 6*r), -r
	}
}
