// Package viewtime accumulates watched duration per surface and reports a
// single view event once the accumulated time crosses the genuine-view
// threshold. Sub-threshold bursts are retained, so several short watches of
// the same surface still add up to one qualifying view.
package viewtime

import (
	"sync"
	"time"

	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/surface"
)

// ViewedFunc receives the surface id and total watched seconds of a
// qualifying view.
type ViewedFunc func(id string, seconds float64)

// Accountant tracks wall-clock playing time. The threshold is resolved lazily
// on every flush so runtime settings mutations take effect immediately.
type Accountant struct {
	mu           sync.Mutex
	clock        func() time.Time
	threshold    func() time.Duration
	playingSince map[string]time.Time
	onViewed     ViewedFunc
}

// Option configures an Accountant at construction.
type Option func(*Accountant)

// WithClock injects a time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(a *Accountant) { a.clock = clock }
}

// NewAccountant creates an accountant with the given threshold resolver.
func NewAccountant(threshold func() time.Duration, opts ...Option) *Accountant {
	a := &Accountant{
		clock:        time.Now,
		threshold:    threshold,
		playingSince: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnViewed installs the view event listener.
func (a *Accountant) OnViewed(fn ViewedFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onViewed = fn
}

// MarkPlaying starts accumulation for the surface. Calling it while the
// surface is already accumulating is a no-op.
func (a *Accountant) MarkPlaying(s *surface.Surface) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, running := a.playingSince[s.ID]; !running {
		a.playingSince[s.ID] = a.clock()
	}
}

// MarkStopped ends accumulation on any transition out of playing. When the
// retained total crosses the threshold, exactly one view event is emitted
// and the accumulator resets; otherwise the partial time is kept for the
// next burst.
func (a *Accountant) MarkStopped(s *surface.Surface) {
	a.mu.Lock()

	since, running := a.playingSince[s.ID]
	if running {
		delete(a.playingSince, s.ID)
		s.AddViewTime(a.clock().Sub(since))
	}

	var emit ViewedFunc
	var seconds float64

	watched := time.Duration(s.ViewMs()) * time.Millisecond
	if running && watched >= a.threshold() && watched > 0 {
		seconds = watched.Seconds()
		emit = a.onViewed
		s.ResetViewTime()
	}
	a.mu.Unlock()

	if emit != nil {
		log.Debugf("surface %s viewed for %.1fs", s.ID, seconds)
		emit(s.ID, seconds)
	}
}

// Watching reports whether the surface is currently accumulating.
func (a *Accountant) Watching(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, running := a.playingSince[id]
	return running
}
