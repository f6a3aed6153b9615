// Package orchestration runs a bounded generation: it pulls coordinates from
// a spiral generator in batches and drains them into an export sink, with the
// producer and the consumer on separate goroutines.
package orchestration

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/export"
	"github.com/agbru/ulam/internal/logging"
	"github.com/agbru/ulam/internal/spiral"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 1024

// pipelineDepth is the number of batches that may wait between the producer
// and the sink.
const pipelineDepth = 4

// Options controls a generation run.
type Options struct {
	// Count is the number of coordinates to produce.
	Count uint64
	// BatchSize is the number of coordinates handed to the sink per Write.
	BatchSize int
	// Subject, if set, is notified after every batch reaches the sink.
	Subject *spiral.ProgressSubject
	// Logger, if set, receives start and completion events.
	Logger logging.Logger
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	// Count is the number of coordinates written to the sink.
	Count uint64
	// Rings is the number of rings, the origin included, fully written.
	Rings uint64
	// MaxRing is the ring of the last coordinate written.
	MaxRing uint64
	// First and Last are the first and last coordinates written. Both are
	// the zero coordinate when nothing was written.
	First spiral.Coord[int64]
	Last  spiral.Coord[int64]
	// Duration is the wall time of the run, sink Close included.
	Duration time.Duration
}

// Generate writes opts.Count coordinates of gen to sink and closes the sink.
//
// The context is checked once per batch. A canceled run returns the context
// error together with a Summary of what was written; sink failures are
// returned as apperrors.OutputError.
func Generate(ctx context.Context, gen spiral.Generator[int64], sink export.Sink, opts Options) (Summary, error) {
	start := time.Now()
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if opts.Logger != nil {
		opts.Logger.Info("generation started",
			logging.Uint64("count", opts.Count),
			logging.Int("batch_size", batchSize),
			logging.String("sink", export.NameOf(sink)),
		)
	}

	var summary Summary
	batches := make(chan []spiral.Coord[int64], pipelineDepth)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(batches)
		for produced := uint64(0); produced < opts.Count; {
			if err := gctx.Err(); err != nil {
				return err
			}
			n := min(uint64(batchSize), opts.Count-produced)
			batch := make([]spiral.Coord[int64], n)
			for i := range batch {
				batch[i] = gen.Next()
			}
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
			produced += n
		}
		return nil
	})

	g.Go(func() error {
		for batch := range batches {
			if err := sink.Write(batch); err != nil {
				return asOutputError(sink, err)
			}
			if summary.Count == 0 {
				summary.First = batch[0]
			}
			summary.Count += uint64(len(batch))
			summary.Last = batch[len(batch)-1]
			summary.MaxRing = uint64(summary.Last.Chebyshev())
			if opts.Subject != nil {
				update := spiral.NewProgressUpdate(summary.Count, opts.Count, summary.MaxRing)
				update.Batch = uint64(len(batch))
				opts.Subject.Notify(update)
			}
		}
		return nil
	})

	err := g.Wait()
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = asOutputError(sink, cerr)
	}

	summary.Rings = spiral.CompleteRings(summary.Count)
	summary.Duration = time.Since(start)

	if opts.Logger != nil {
		if err != nil {
			opts.Logger.Error("generation failed", err, logging.Uint64("written", summary.Count))
		} else {
			opts.Logger.Info("generation complete",
				logging.Uint64("count", summary.Count),
				logging.Uint64("rings", summary.Rings),
				logging.String("duration", summary.Duration.String()),
			)
		}
	}
	if err != nil && apperrors.IsContextError(err) {
		err = apperrors.GenerationError{Cause: err}
	}
	return summary, err
}

// asOutputError tags err with the sink name unless it already names one.
func asOutputError(sink export.Sink, err error) error {
	var outErr apperrors.OutputError
	if errors.As(err, &outErr) {
		return err
	}
	return apperrors.NewOutputError(export.NameOf(sink), err)
}
