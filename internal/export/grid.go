package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/agbru/ulam/internal/spiral"
)

// GridSink renders the visit order as a text grid: every visited cell shows
// its index, right-aligned in a column as wide as the largest index, with the
// highest y on the first row. Unvisited cells of the bounding box stay blank.
//
// The grid needs every coordinate before it can draw the first row, so it
// buffers the whole run and renders on Close.
type GridSink struct {
	w      io.Writer
	coords []spiral.Coord[int64]
}

// NewGridSink returns a GridSink writing to w.
func NewGridSink(w io.Writer) *GridSink {
	return &GridSink{w: w}
}

func (s *GridSink) Name() string { return FormatGrid }

func (s *GridSink) Write(batch []spiral.Coord[int64]) error {
	s.coords = append(s.coords, batch...)
	return nil
}

func (s *GridSink) Close() error {
	bw := bufio.NewWriter(s.w)
	if err := RenderGrid(bw, s.coords); err != nil {
		return err
	}
	return bw.Flush()
}

// RenderGrid draws coords, indexed by slice position, onto w.
func RenderGrid(w io.Writer, coords []spiral.Coord[int64]) error {
	if len(coords) == 0 {
		return nil
	}

	minX, maxX := coords[0].X, coords[0].X
	minY, maxY := coords[0].Y, coords[0].Y
	for _, c := range coords[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}

	cols := int(maxX - minX + 1)
	rows := int(maxY - minY + 1)
	cells := make([]int, rows*cols)
	for i := range cells {
		cells[i] = -1
	}
	for i, c := range coords {
		row := int(maxY - c.Y)
		col := int(c.X - minX)
		cells[row*cols+col] = i
	}

	width := len(strconv.Itoa(len(coords) - 1))
	blank := strings.Repeat(" ", width)
	var line strings.Builder
	for r := 0; r < rows; r++ {
		line.Reset()
		for col := 0; col < cols; col++ {
			if col > 0 {
				line.WriteByte(' ')
			}
			idx := cells[r*cols+col]
			if idx < 0 {
				line.WriteString(blank)
				continue
			}
			s := strconv.Itoa(idx)
			line.WriteString(blank[len(s):])
			line.WriteString(s)
		}
		if _, err := io.WriteString(w, strings.TrimRight(line.String(), " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
