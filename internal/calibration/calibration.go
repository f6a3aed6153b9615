package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
	"github.com/agbru/ulam/internal/orchestration"
	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/internal/ui"
)

// DefaultCount is the number of coordinates generated per measurement.
const DefaultCount = 1 << 20

// Options configures a calibration run.
type Options struct {
	// ProfilePath is where the profile is saved. Empty means the default.
	ProfilePath string
	// SaveProfile writes the fastest batch size to ProfilePath.
	SaveProfile bool
	// Format is the encoding measured. Coordinates are encoded and then
	// discarded.
	Format string
	// Count overrides DefaultCount when positive.
	Count uint64
	// BatchSizes overrides CandidateBatchSizes when non-empty.
	BatchSizes []int
}

type result struct {
	BatchSize int
	Duration  time.Duration
	Err       error
}

// RunCalibration times a generation run for each candidate batch size,
// prints the comparison and optionally saves the fastest size.
//
// Parameters:
//   - ctx: Cancels the calibration between and during measurements.
//   - out: Receives progress lines and the results table.
//   - opts: The calibration settings.
//
// Returns:
//   - int: The exit code.
func RunCalibration(ctx context.Context, out io.Writer, opts Options) int {
	count := opts.Count
	if count == 0 {
		count = DefaultCount
	}
	format := opts.Format
	if format == "" {
		format = export.FormatText
	}
	sizes := opts.BatchSizes
	if len(sizes) == 0 {
		sizes = CandidateBatchSizes()
	}

	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Batch Size ---\n")
	fmt.Fprintf(out, "%sMeasuring %d batch sizes on %d CPU cores (%d %s coordinates each)%s\n",
		ui.ColorCyan(), len(sizes), runtime.NumCPU(), count, format, ui.ColorReset())

	results := make([]result, 0, len(sizes))
	best, bestDuration := 0, time.Duration(-1)
	start := time.Now()

	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
			return apperrors.HandleGenerationError(err, time.Since(start), out, ui.ErrorColors{})
		}

		sink, err := export.NewSink(format, io.Discard)
		if err != nil {
			return apperrors.HandleGenerationError(apperrors.NewConfigError("%v", err), 0, out, ui.ErrorColors{})
		}
		summary, err := orchestration.Generate(ctx, spiral.New[int64](), sink, orchestration.Options{
			Count:     count,
			BatchSize: size,
		})
		if err != nil {
			if apperrors.IsContextError(err) {
				return apperrors.HandleGenerationError(err, time.Since(start), out, ui.ErrorColors{})
			}
			fmt.Fprintf(out, "%s❌ batch %d failed (%v)%s\n", ui.ColorRed(), size, err, ui.ColorReset())
			results = append(results, result{BatchSize: size, Err: err})
			continue
		}

		results = append(results, result{BatchSize: size, Duration: summary.Duration})
		if bestDuration < 0 || summary.Duration < bestDuration {
			best, bestDuration = size, summary.Duration
		}
	}

	if bestDuration < 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printResults(out, results, best)
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-batch-size %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), best, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.BatchSize = best
		profile.Format = format
		profile.CalibrationCount = count
		profile.CalibrationTime = time.Since(start).String()

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", ui.ColorGreen(), resolvePath(opts.ProfilePath), ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}
