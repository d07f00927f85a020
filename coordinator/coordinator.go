// Package coordinator exposes the feed-facing control surface of the
// playback coordinator and wires the registry, tracker, environment monitor,
// settings store, view-time accountant, and arbiter together.
package coordinator

import (
	"time"

	"github.com/vidpulse/vidpulse/arbiter"
	"github.com/vidpulse/vidpulse/env"
	"github.com/vidpulse/vidpulse/settings"
	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/viewport"
	"github.com/vidpulse/vidpulse/viewtime"
)

// Callbacks is the complete notification set delivered to the surrounding
// feed UI. Any callback may be nil. Callbacks fire synchronously but outside
// internal locks, so reentering the coordinator from them is safe.
type Callbacks struct {
	OnVideoPlay         func(id string)
	OnVideoPause        func(id string)
	OnVideoView         func(id string, seconds float64)
	OnVideoError        func(id, message string)
	OnScrollStateChange func(isScrolling bool, velocity float64)
	OnVideoSwitch       func(fromID, toID string)
}

// Coordinator owns the playback coordination pipeline for one feed.
type Coordinator struct {
	registry   *surface.Registry
	store      *settings.Store
	monitor    *env.Monitor
	tracker    *viewport.Tracker
	accountant *viewtime.Accountant
	arbiter    *arbiter.Arbiter
}

type options struct {
	callbacks      Callbacks
	monitor        *env.Monitor
	trackerOpts    []viewport.Option
	accountantOpts []viewtime.Option
}

// Option configures a Coordinator at construction.
type Option func(*options)

// WithCallbacks installs the feed UI notification set.
func WithCallbacks(cb Callbacks) Option {
	return func(o *options) { o.callbacks = cb }
}

// WithEnvironment installs a pre-built environment monitor, typically one
// carrying platform-specific providers.
func WithEnvironment(m *env.Monitor) Option {
	return func(o *options) { o.monitor = m }
}

// WithTrackerOptions forwards options to the visibility/scroll tracker.
func WithTrackerOptions(opts ...viewport.Option) Option {
	return func(o *options) { o.trackerOpts = append(o.trackerOpts, opts...) }
}

// WithAccountantOptions forwards options to the view-time accountant.
func WithAccountantOptions(opts ...viewtime.Option) Option {
	return func(o *options) { o.accountantOpts = append(o.accountantOpts, opts...) }
}

// New assembles a coordinator. Settings are loaded (defaults, persisted
// overlay, device adjustment) before any surface can register.
func New(opts ...Option) *Coordinator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	monitor := o.monitor
	if monitor == nil {
		monitor = env.NewMonitor()
	}

	device := settings.DeviceDesktop
	if monitor.Snapshot().IsMobile {
		device = settings.DeviceMobile
	}

	store := settings.NewStore(device)
	store.Load()

	registry := surface.NewRegistry()
	tracker := viewport.NewTracker(registry, store, o.trackerOpts...)
	accountant := viewtime.NewAccountant(func() time.Duration {
		return store.Get().ViewTrackingThreshold()
	}, o.accountantOpts...)

	cb := o.callbacks
	accountant.OnViewed(func(id string, seconds float64) {
		if cb.OnVideoView != nil {
			cb.OnVideoView(id, seconds)
		}
	})

	arb := arbiter.New(registry, store, monitor, tracker, accountant, arbiter.Callbacks{
		OnVideoPlay:   cb.OnVideoPlay,
		OnVideoPause:  cb.OnVideoPause,
		OnVideoError:  cb.OnVideoError,
		OnVideoSwitch: cb.OnVideoSwitch,
	})

	c := &Coordinator{
		registry:   registry,
		store:      store,
		monitor:    monitor,
		tracker:    tracker,
		accountant: accountant,
		arbiter:    arb,
	}

	registry.OnRemoved(func(s *surface.Surface) {
		accountant.MarkStopped(s)
		arb.Forget(s.ID)
		arb.Reconcile()
	})
	tracker.OnScrollStateChange(func(state viewport.ScrollState) {
		if cb.OnScrollStateChange != nil {
			cb.OnScrollStateChange(state.IsScrolling, state.Velocity)
		}
		arb.Reconcile()
	})
	store.Subscribe(func(settings.Settings) {
		arb.Reconcile()
	})
	monitor.Subscribe(func(env.Snapshot) {
		arb.Reconcile()
	})

	return c
}

// RegisterVideo registers a playable surface and begins visibility
// observation. The returned capability unregisters it; calling the
// capability more than once is a no-op. Fails with *surface.DuplicateIDError
// when the id is already live.
func (c *Coordinator) RegisterVideo(id string, element surface.Element, container surface.Container) (surface.UnregisterFunc, error) {
	unregister, err := c.registry.Register(id, element, container)
	if err != nil {
		return nil, err
	}
	c.arbiter.Reconcile()
	return unregister, nil
}

// PlayVideo issues a manual play request for the surface.
func (c *Coordinator) PlayVideo(id string) error {
	return c.arbiter.RequestPlay(id)
}

// PauseVideo issues a manual pause request for the surface.
func (c *Coordinator) PauseVideo(id string) error {
	return c.arbiter.RequestPause(id)
}

// PauseAllVideos pauses every playing surface.
func (c *Coordinator) PauseAllVideos() {
	c.arbiter.PauseAll()
}

// UpdateSettings merges the patch into the current settings, persists the
// result, and re-runs a decision pass before returning.
func (c *Coordinator) UpdateSettings(patch settings.Patch) (settings.Settings, error) {
	return c.store.Update(patch)
}

// Settings returns the effective settings.
func (c *Coordinator) Settings() settings.Settings {
	return c.store.Get()
}

// SetMuted updates the global mute state.
func (c *Coordinator) SetMuted(muted bool) {
	c.arbiter.SetMuted(muted)
}

// Muted returns the global mute state.
func (c *Coordinator) Muted() bool {
	return c.arbiter.Muted()
}

// ObserveScroll ingests a scroll position sample and re-runs a decision pass.
func (c *Coordinator) ObserveScroll(position float64) {
	c.tracker.ObserveScroll(position)
	c.arbiter.Reconcile()
}

// SetViewport updates the viewport geometry (resize, orientation change).
func (c *Coordinator) SetViewport(r surface.Rect) {
	c.tracker.SetViewport(r)
	c.arbiter.Reconcile()
}

// RefreshEnvironment recomputes the environment snapshot from its providers.
// The host calls this from its connection/battery change handlers.
func (c *Coordinator) RefreshEnvironment() env.Snapshot {
	return c.monitor.Refresh()
}

// Environment returns the current environment snapshot.
func (c *Coordinator) Environment() env.Snapshot {
	return c.monitor.Snapshot()
}

// ScrollState returns the current debounced scroll condition.
func (c *Coordinator) ScrollState() viewport.ScrollState {
	return c.tracker.ScrollState()
}

// Close pauses all surfaces and stops internal timers.
func (c *Coordinator) Close() {
	c.arbiter.PauseAll()
	c.tracker.Stop()
}
