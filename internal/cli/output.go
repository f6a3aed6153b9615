package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/ulam/internal/ui"
)

// OpenOutput creates the file at path, and its parent directories, to
// receive exported coordinates.
func OpenOutput(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// PrintSaved reports where a run's output went.
func PrintSaved(out io.Writer, what, path string) {
	fmt.Fprintf(out, "%s✓ %s saved to: %s\n", ui.ColorGreen(), what, ui.Colorize(ui.ColorCyan(), path))
	fmt.Fprint(out, ui.ColorReset())
}
