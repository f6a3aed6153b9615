// This file contains concrete observer implementations.
package spiral

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards updates to a channel, typically read by the CLI
// progress display.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to ch.
// If ch is nil, updates are discarded.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update sends to the channel without blocking. When the channel is full the
// update is dropped; the display catches up on the next one.
func (o *ChannelObserver) Update(update ProgressUpdate) {
	if o.channel == nil {
		return
	}

	if update.Value > 1.0 {
		update.Value = 1.0
	}

	select {
	case o.channel <- update:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs with zerolog once for every ring a run completes,
// and once more when the run completes. It follows a single run.
type LoggingObserver struct {
	logger zerolog.Logger
	rings  uint64
	done   bool
	mu     sync.Mutex
}

// NewLoggingObserver creates an observer that logs completed rings at debug level.
func NewLoggingObserver(logger zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// Update logs each ring completed since the previous update, then the end of
// the run when it reaches 100%. One update may complete many rings.
func (o *LoggingObserver) Update(update ProgressUpdate) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done {
		return
	}

	complete := CompleteRings(update.Produced)
	for ; o.rings < complete; o.rings++ {
		cells := CellsThroughRing(o.rings)
		event := o.logger.Debug().
			Uint64("ring", o.rings).
			Uint64("cells", cells)
		if update.Total > 0 {
			event = event.Str("percent", fmt.Sprintf("%.1f%%", min(float64(cells)/float64(update.Total), 1)*100))
		}
		event.Msg("spiral ring complete")
	}

	if update.Value >= 1.0 {
		o.logger.Debug().
			Uint64("ring", update.Ring).
			Uint64("produced", update.Produced).
			Msg("spiral generation complete")
		o.done = true
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

const (
	coordinatesGeneratedName = "ulam_coordinates_generated_total"
	coordinatesGeneratedHelp = "Total number of spiral coordinates produced"
	currentRingName          = "ulam_current_ring"
	currentRingHelp          = "Ring index of the most recently produced coordinate"
	generationProgressName   = "ulam_generation_progress"
	generationProgressHelp   = "Progress of the current generation run (0.0 to 1.0)"
)

// Registered once globally to avoid duplicate registration errors.
var (
	coordinatesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: coordinatesGeneratedName,
		Help: coordinatesGeneratedHelp,
	})
	currentRing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: currentRingName,
		Help: currentRingHelp,
	})
	generationProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: generationProgressName,
		Help: generationProgressHelp,
	})
)

// MetricsObserver exports progress to Prometheus. The counter grows by each
// update's Batch, so one observer can follow any number of runs, concurrent
// ones included. The gauges hold the most recent update.
type MetricsObserver struct {
	counter  prometheus.Counter
	ring     prometheus.Gauge
	progress prometheus.Gauge
}

// NewMetricsObserver creates an observer backed by the package-level metrics.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		counter:  coordinatesGenerated,
		ring:     currentRing,
		progress: generationProgress,
	}
}

// NewMetricsObserverWith creates an observer whose metrics are registered
// with reg instead of the default registry.
func NewMetricsObserverWith(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)
	return &MetricsObserver{
		counter:  factory.NewCounter(prometheus.CounterOpts{Name: coordinatesGeneratedName, Help: coordinatesGeneratedHelp}),
		ring:     factory.NewGauge(prometheus.GaugeOpts{Name: currentRingName, Help: currentRingHelp}),
		progress: factory.NewGauge(prometheus.GaugeOpts{Name: generationProgressName, Help: generationProgressHelp}),
	}
}

// Update adds the update's batch to the counter and sets the gauges.
func (o *MetricsObserver) Update(update ProgressUpdate) {
	if update.Batch > 0 {
		o.counter.Add(float64(update.Batch))
	}
	o.ring.Set(float64(update.Ring))
	o.progress.Set(update.Value)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer (Null Object Pattern)
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards all updates.
type NoOpObserver struct{}

// NewNoOpObserver creates a no-op observer.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update does nothing.
func (o *NoOpObserver) Update(update ProgressUpdate) {}
