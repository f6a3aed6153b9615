package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownSignals end a run early with context.Canceled.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Lifecycle owns the context of one generation or calibration run.
type Lifecycle struct {
	stops []context.CancelFunc
}

// SetupLifecycle derives the run context from ctx. It is done when timeout
// elapses or a shutdown signal arrives, whichever comes first. A timeout of
// zero or less leaves the run unbounded in time.
//
// Cleanup must be called once the run is over.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *Lifecycle) {
	l := &Lifecycle{}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		l.stops = append(l.stops, cancel)
	}
	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	l.stops = append(l.stops, stop)
	return ctx, l
}

// Cleanup stops signal delivery and releases the timer, innermost first.
func (l *Lifecycle) Cleanup() {
	for i := len(l.stops) - 1; i >= 0; i-- {
		l.stops[i]()
	}
	l.stops = nil
}
