// Package viewport tracks viewport intersection and scroll motion for every
// registered surface, and selects the single most eligible surface for
// playback.
package viewport

import (
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/vidpulse/vidpulse/key"
	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/settings"
	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/util"
)

// ScrollState is the process-wide scroll condition.
type ScrollState struct {
	IsScrolling bool
	Velocity    float64 // signed, px/s, exponentially smoothed
	LastEventAt time.Time
}

// Tracker computes intersection ratios against the viewport and maintains
// the debounced scroll state. IsScrolling turns on immediately at a
// qualifying delta and turns off only after the scroll-pause delay elapses
// with no further events; the hysteresis prevents play/pause thrashing
// during bursty scrolls.
type Tracker struct {
	registry *surface.Registry
	store    *settings.Store

	mu       sync.Mutex
	viewport surface.Rect
	scroll   ScrollState
	lastPos  float64
	hasPos   bool
	timer    *time.Timer
	onChange func(ScrollState)

	clock           func() time.Time
	scrollThreshold float64
	smoothing       float64
	preloadDistance float64
}

// Option configures a Tracker at construction.
type Option func(*Tracker)

// WithClock injects a time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithScrollThreshold overrides the qualifying scroll delta in pixels.
func WithScrollThreshold(px float64) Option {
	return func(t *Tracker) { t.scrollThreshold = px }
}

// WithSmoothing overrides the velocity smoothing factor (0-1).
func WithSmoothing(factor float64) Option {
	return func(t *Tracker) { t.smoothing = factor }
}

// WithPreloadDistance overrides the base preload window in pixels.
func WithPreloadDistance(px float64) Option {
	return func(t *Tracker) { t.preloadDistance = px }
}

// NewTracker creates a tracker over the given registry. Scroll tuning
// defaults come from the configuration registry.
func NewTracker(registry *surface.Registry, store *settings.Store, opts ...Option) *Tracker {
	t := &Tracker{
		registry:        registry,
		store:           store,
		clock:           time.Now,
		scrollThreshold: viper.GetFloat64(key.ScrollThreshold),
		smoothing:       viper.GetFloat64(key.ScrollVelocitySmooth),
		preloadDistance: viper.GetFloat64(key.ScrollPreloadDistance),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.smoothing <= 0 || t.smoothing > 1 {
		t.smoothing = 0.3
	}
	return t
}

// OnScrollStateChange installs the scroll-state-changed listener. It fires
// on transitions of IsScrolling, outside the tracker lock.
func (t *Tracker) OnScrollStateChange(fn func(ScrollState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// SetViewport replaces the viewport geometry, for example on resize or
// orientation change, and refreshes every surface's visibility.
func (t *Tracker) SetViewport(r surface.Rect) {
	t.mu.Lock()
	t.viewport = r
	t.mu.Unlock()
	t.UpdateVisibility()
}

// Viewport returns the current viewport geometry.
func (t *Tracker) Viewport() surface.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport
}

// ScrollState returns the current debounced scroll condition.
func (t *Tracker) ScrollState() ScrollState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scroll
}

// ObserveScroll ingests a scroll position sample. The viewport top follows
// the scroll offset. Velocity is smoothed exponentially; a delta at or above
// the scroll threshold marks the user as actively scrolling immediately.
func (t *Tracker) ObserveScroll(position float64) {
	now := t.clock()

	t.mu.Lock()
	var notify func(ScrollState)
	var state ScrollState

	if t.hasPos {
		delta := position - t.lastPos
		dt := now.Sub(t.scroll.LastEventAt)
		if dt <= 0 {
			dt = time.Millisecond
		}
		raw := delta / dt.Seconds()
		t.scroll.Velocity = t.smoothing*raw + (1-t.smoothing)*t.scroll.Velocity

		if util.Abs(delta) >= t.scrollThreshold && !t.scroll.IsScrolling {
			t.scroll.IsScrolling = true
			notify = t.onChange
		}
		// The threshold only gates the turn-on; while scrolling, any event
		// extends the quiet window so slow drags keep the state alive.
		if t.scroll.IsScrolling {
			t.resetDebounceLocked()
		}
	}

	t.hasPos = true
	t.lastPos = position
	t.scroll.LastEventAt = now
	t.viewport.Top = position
	state = t.scroll
	t.mu.Unlock()

	t.UpdateVisibility()

	if notify != nil {
		log.Debugf("scrolling started, velocity=%.0f px/s", state.Velocity)
		notify(state)
	}
}

// resetDebounceLocked (re)arms the quiescence timer with the configured
// scroll-pause delay. Caller holds t.mu.
func (t *Tracker) resetDebounceLocked() {
	delay := t.store.Get().ScrollPauseDelay()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, t.quiesce)
}

// quiesce fires after a full scroll-pause delay without qualifying events.
func (t *Tracker) quiesce() {
	t.mu.Lock()
	if !t.scroll.IsScrolling {
		t.mu.Unlock()
		return
	}
	t.scroll.IsScrolling = false
	t.scroll.Velocity = 0
	state := t.scroll
	notify := t.onChange
	t.mu.Unlock()

	log.Debug("scrolling stopped")
	if notify != nil {
		notify(state)
	}
}

// Stop cancels the pending quiescence timer, if any.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
