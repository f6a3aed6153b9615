// Package cli renders the terminal side of the tool: the progress spinner of
// a generation run, its summary, shell completion scripts and the interactive
// REPL.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agbru/ulam/internal/orchestration"
	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/internal/ui"
)

const (
	// ProgressRefreshRate is how often the spinner line is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// printer groups digits in counts ("1,000,000").
var printer = message.NewPrinter(language.English)

// FormatExecutionDuration formats d with a unit suited to its magnitude.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatCount formats n with thousand separators.
func FormatCount[N ~int | ~int64 | ~uint64](n N) string {
	return printer.Sprintf("%d", n)
}

// FormatCoord renders c in the primary color.
func FormatCoord(c spiral.Coord[int64]) string {
	return ui.Colorize(ui.ColorBlue(), c.String())
}

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner glyph.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressBar renders progress, clamped to [0, 1], as a bar of length cells.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// progressLine formats the text shown next to the spinner.
func progressLine(progress float64, ring uint64, eta string) string {
	return fmt.Sprintf("Progress: %6.2f%% [%s] Ring: %s ETA: %s",
		progress*100, progressBar(progress, ProgressBarWidth), FormatCount(ring), eta)
}

// DisplayProgress shows a spinner and progress bar until progressChan is
// closed, then prints the final state on its own line. It is meant to run in
// its own goroutine and calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan spiral.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	state := NewProgressWithETA()
	var ring uint64
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintln(out, progressLine(state.Progress(), ring, "done"))
				return
			}
			ring = update.Ring
			state.Update(update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" " + progressLine(state.Progress(), ring, FormatETA(state.GetETA())))
		}
	}
}

// DisplaySummary prints the outcome of a generation run. With details it adds
// the geometry of the covered square and the throughput.
func DisplaySummary(out io.Writer, s orchestration.Summary, details bool) {
	fmt.Fprintf(out, "\n%s--- Generation Summary ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Coordinates    : %s\n", ui.Colorize(ui.ColorCyan(), FormatCount(s.Count)))
	fmt.Fprintf(out, "Complete rings : %s\n", ui.Colorize(ui.ColorCyan(), FormatCount(s.Rings)))
	if s.Count == 0 {
		fmt.Fprintf(out, "Last coordinate: n/a\n")
	} else {
		fmt.Fprintf(out, "Outermost ring : %s\n", ui.Colorize(ui.ColorMagenta(), FormatCount(s.MaxRing)))
		fmt.Fprintf(out, "Last coordinate: %s\n", FormatCoord(s.Last))
	}
	fmt.Fprintf(out, "Duration       : %s\n", ui.Colorize(ui.ColorGreen(), FormatExecutionDuration(s.Duration)))

	if !details || s.Count == 0 {
		return
	}

	side := 2*s.MaxRing + 1
	before := uint64(0)
	if s.MaxRing > 0 {
		before = spiral.CellsThroughRing(s.MaxRing - 1)
	}
	filled := s.Count - before
	size := spiral.RingSize(s.MaxRing)

	fmt.Fprintf(out, "\n%s--- Ring details ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Square side    : %s\n", FormatCount(side))
	fmt.Fprintf(out, "Cells in square: %s\n", FormatCount(spiral.CellsThroughRing(s.MaxRing)))
	fmt.Fprintf(out, "Outer ring fill: %s / %s (%.2f%%)\n",
		FormatCount(filled), FormatCount(size), float64(filled)/float64(size)*100)
	if s.Duration > 0 {
		rate := float64(s.Count) / s.Duration.Seconds()
		fmt.Fprintf(out, "Throughput     : %s coords/s\n", FormatCount(int64(rate)))
	}
}
