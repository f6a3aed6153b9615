package spiral

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

// recordingObserver stores every update it receives.
type recordingObserver struct {
	mu      sync.Mutex
	updates []ProgressUpdate
}

func (r *recordingObserver) Update(update ProgressUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func TestNewProgressUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		produced uint64
		total    uint64
		want     float64
	}{
		{"start", 0, 100, 0},
		{"half", 50, 100, 0.5},
		{"done", 100, 100, 1},
		{"overshoot", 150, 100, 1},
		{"zero total", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := NewProgressUpdate(tt.produced, tt.total, 3)
			if u.Value != tt.want {
				t.Errorf("Value = %v, want %v", u.Value, tt.want)
			}
			if u.Ring != 3 {
				t.Errorf("Ring = %d, want 3", u.Ring)
			}
		})
	}
}

func TestProgressSubject_RegisterNotify(t *testing.T) {
	t.Parallel()

	subject := NewProgressSubject()
	a, b := &recordingObserver{}, &recordingObserver{}
	subject.Register(a)
	subject.Register(b)
	subject.Register(nil)

	if subject.ObserverCount() != 2 {
		t.Fatalf("ObserverCount() = %d, want 2", subject.ObserverCount())
	}

	subject.Notify(NewProgressUpdate(1, 2, 0))
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("observers received %d and %d updates, want 1 each", a.count(), b.count())
	}

	subject.Unregister(a)
	subject.Unregister(nil)
	subject.Notify(NewProgressUpdate(2, 2, 1))
	if a.count() != 1 {
		t.Errorf("unregistered observer received %d updates, want 1", a.count())
	}
	if b.count() != 2 {
		t.Errorf("remaining observer received %d updates, want 2", b.count())
	}
}

func TestProgressSubject_ConcurrentNotify(t *testing.T) {
	t.Parallel()

	subject := NewProgressSubject()
	rec := &recordingObserver{}
	subject.Register(rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				subject.Notify(NewProgressUpdate(uint64(j), 100, uint64(i)))
			}
		}(i)
	}
	wg.Wait()

	if rec.count() != 800 {
		t.Errorf("received %d updates, want 800", rec.count())
	}
}

func TestChannelObserver(t *testing.T) {
	t.Parallel()

	ch := make(chan ProgressUpdate, 1)
	obs := NewChannelObserver(ch)

	obs.Update(ProgressUpdate{Produced: 5, Total: 10, Value: 1.5})
	// Channel is full: this one is dropped instead of blocking.
	obs.Update(ProgressUpdate{Produced: 6, Total: 10, Value: 0.6})

	got := <-ch
	if got.Produced != 5 {
		t.Errorf("Produced = %d, want 5", got.Produced)
	}
	if got.Value != 1.0 {
		t.Errorf("Value = %v, want clamped 1.0", got.Value)
	}

	NewChannelObserver(nil).Update(ProgressUpdate{})
}

func TestLoggingObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	obs := NewLoggingObserver(logger)

	obs.Update(NewProgressUpdate(1, 25, 0))
	obs.Update(NewProgressUpdate(5, 25, 1))
	obs.Update(NewProgressUpdate(9, 25, 1))
	obs.Update(NewProgressUpdate(25, 25, 2))
	obs.Update(NewProgressUpdate(25, 25, 2))

	out := buf.String()
	if n := strings.Count(out, "spiral ring complete"); n != 3 {
		t.Errorf("logged %d completed rings, want 3:\n%s", n, out)
	}
	if n := strings.Count(out, "spiral generation complete"); n != 1 {
		t.Errorf("logged completion %d times, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, `"ring":2`) {
		t.Errorf("expected ring field in output:\n%s", out)
	}
}

func TestLoggingObserver_RingsWithinOneUpdate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	obs := NewLoggingObserver(zerolog.New(&buf).Level(zerolog.DebugLevel))

	// 1000 coordinates complete rings 0 to 15 and stop inside ring 16.
	obs.Update(NewProgressUpdate(1000, 2000, 16))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 16 {
		t.Fatalf("logged %d lines, want 16:\n%s", len(lines), buf.String())
	}
	for k, line := range lines {
		if !strings.Contains(line, "spiral ring complete") || !strings.Contains(line, fmt.Sprintf(`"ring":%d,`, k)) {
			t.Errorf("line %d = %s, want ring %d completed", k, line, k)
		}
	}
	if !strings.Contains(lines[15], `"cells":961`) {
		t.Errorf("ring 15 should report 961 cells: %s", lines[15])
	}

	buf.Reset()
	obs.Update(NewProgressUpdate(1089, 2000, 16))
	if out := buf.String(); strings.Count(out, "spiral ring complete") != 1 || !strings.Contains(out, `"ring":16,`) {
		t.Errorf("expected only ring 16 to be logged:\n%s", out)
	}

	buf.Reset()
	obs.Update(NewProgressUpdate(1100, 2000, 17))
	if buf.Len() != 0 {
		t.Errorf("no ring completed, got:\n%s", buf.String())
	}
}

func newTestMetricsObserver() (*MetricsObserver, prometheus.Counter, prometheus.Gauge, prometheus.Gauge) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_generated_total"})
	ring := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_ring"})
	progress := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_progress"})
	return &MetricsObserver{counter: counter, ring: ring, progress: progress}, counter, ring, progress
}

func batchUpdate(produced, total, ring, batch uint64) ProgressUpdate {
	u := NewProgressUpdate(produced, total, ring)
	u.Batch = batch
	return u
}

func TestMetricsObserver(t *testing.T) {
	t.Parallel()

	obs, counter, ring, progress := newTestMetricsObserver()

	obs.Update(batchUpdate(10, 40, 1, 10))
	obs.Update(batchUpdate(40, 40, 3, 30))

	if got := testutil.ToFloat64(counter); got != 40 {
		t.Errorf("counter = %v, want 40", got)
	}
	if got := testutil.ToFloat64(ring); got != 3 {
		t.Errorf("ring gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(progress); got != 1 {
		t.Errorf("progress gauge = %v, want 1", got)
	}

	// The package-level observer is usable as well.
	NewMetricsObserver().Update(batchUpdate(1, 1, 0, 1))
}

func TestMetricsObserver_SuccessiveRuns(t *testing.T) {
	t.Parallel()

	obs, counter, _, progress := newTestMetricsObserver()

	// A large run followed by a smaller one and another large one.
	obs.Update(batchUpdate(64, 100, 4, 64))
	obs.Update(batchUpdate(100, 100, 5, 36))
	obs.Update(batchUpdate(50, 50, 3, 50))
	obs.Update(batchUpdate(64, 100, 4, 64))
	obs.Update(batchUpdate(100, 100, 5, 36))

	if got := testutil.ToFloat64(counter); got != 250 {
		t.Errorf("counter = %v, want 250", got)
	}
	if got := testutil.ToFloat64(progress); got != 1 {
		t.Errorf("progress gauge = %v, want 1", got)
	}
}

func TestMetricsObserver_ConcurrentRuns(t *testing.T) {
	t.Parallel()

	obs, counter, _, _ := newTestMetricsObserver()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for produced := uint64(10); produced <= 100; produced += 10 {
				obs.Update(batchUpdate(produced, 100, 0, 10))
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(counter); got != 800 {
		t.Errorf("counter = %v, want 800", got)
	}
}

func TestNewMetricsObserverWith(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	obs := NewMetricsObserverWith(reg)
	obs.Update(batchUpdate(9, 25, 1, 9))

	count, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if count != 3 {
		t.Errorf("registered %d metrics, want 3", count)
	}
	if got := testutil.ToFloat64(obs.counter); got != 9 {
		t.Errorf("counter = %v, want 9", got)
	}
}

func TestNoOpObserver(t *testing.T) {
	t.Parallel()
	var obs ProgressObserver = NewNoOpObserver()
	obs.Update(NewProgressUpdate(1, 1, 0))
}
