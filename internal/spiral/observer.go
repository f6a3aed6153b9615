// This file contains the Observer pattern implementation for progress reporting.
package spiral

import (
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Observer Pattern Interfaces
// ─────────────────────────────────────────────────────────────────────────────

// ProgressUpdate describes how far a bounded run over a sequence has got.
type ProgressUpdate struct {
	// Produced is the number of coordinates emitted so far.
	Produced uint64
	// Total is the number of coordinates requested for the run.
	Total uint64
	// Ring is the ring index of the last emitted coordinate.
	Ring uint64
	// Value is Produced/Total, normalized to [0, 1].
	Value float64
	// Batch is the number of coordinates emitted since the run's previous
	// update. Zero when the producer does not report it.
	Batch uint64
}

// NewProgressUpdate builds an update and normalizes its Value.
func NewProgressUpdate(produced, total, ring uint64) ProgressUpdate {
	value := 1.0
	if total > 0 && produced < total {
		value = float64(produced) / float64(total)
	}
	return ProgressUpdate{Produced: produced, Total: total, Ring: ring, Value: value}
}

// ProgressObserver receives progress notifications for a generation run,
// enabling decoupled handling of updates for the UI, logging and metrics.
type ProgressObserver interface {
	// Update is called when progress changes.
	Update(update ProgressUpdate)
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Subject (Observable)
// ─────────────────────────────────────────────────────────────────────────────

// ProgressSubject manages observer registration and notification.
//
// ProgressSubject is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a new subject for managing progress observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer. Observers are notified in registration order.
// A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer. Unknown observers are ignored.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends an update to all registered observers synchronously.
func (s *ProgressSubject) Notify(update ProgressUpdate) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(update)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
