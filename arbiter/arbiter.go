// Package arbiter implements the playback scheduler: it decides which
// surfaces start and stop, enforces the concurrent-playing ceiling,
// sequences overlapping play/pause calls with per-surface intent numbers,
// and absorbs cancellation races.
package arbiter

import (
	"errors"
	"sync"

	"github.com/vidpulse/vidpulse/env"
	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/settings"
	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/viewport"
	"github.com/vidpulse/vidpulse/viewtime"
)

// ErrUnknownSurface is returned by manual play/pause requests that name an
// id the registry does not hold.
var ErrUnknownSurface = errors.New("unknown surface id")

// lowBatteryLevel is the discharge point below which autoplay is suppressed
// and mute is forced, unless the device is charging.
const lowBatteryLevel = 0.15

// Callbacks receive arbiter decisions. All callbacks fire outside the
// arbiter lock; reentering the coordinator from them is safe.
type Callbacks struct {
	OnVideoPlay   func(id string)
	OnVideoPause  func(id string)
	OnVideoError  func(id, message string)
	OnVideoSwitch func(fromID, toID string)
}

// Arbiter is the single writer of surface playback state and intent
// sequence numbers. All decision passes run under one mutex; asynchronous
// play completions re-validate the intent sequence before applying effects.
type Arbiter struct {
	registry   *surface.Registry
	store      *settings.Store
	monitor    *env.Monitor
	tracker    *viewport.Tracker
	accountant *viewtime.Accountant
	callbacks  Callbacks

	mu         sync.Mutex
	activeID   string
	lastActive string
	globalMute bool
	reported   map[string]map[errorKind]struct{}
}

// New wires an arbiter over its collaborators.
func New(
	registry *surface.Registry,
	store *settings.Store,
	monitor *env.Monitor,
	tracker *viewport.Tracker,
	accountant *viewtime.Accountant,
	callbacks Callbacks,
) *Arbiter {
	return &Arbiter{
		registry:   registry,
		store:      store,
		monitor:    monitor,
		tracker:    tracker,
		accountant: accountant,
		callbacks:  callbacks,
		reported:   make(map[string]map[errorKind]struct{}),
	}
}

// effects collects callback invocations accumulated during a locked decision
// pass; they run after the lock is released so collaborator callbacks can
// reenter the coordinator without deadlocking.
type effects []func()

func (e *effects) add(fn func()) {
	if fn != nil {
		*e = append(*e, fn)
	}
}

func (e effects) run() {
	for _, fn := range e {
		fn()
	}
}

// ActiveID returns the id of the surface currently considered active, or ""
// when none is.
func (a *Arbiter) ActiveID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID
}

// Muted returns the global mute state.
func (a *Arbiter) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.globalMute
}

// SetMuted updates the global mute state and propagates it to every
// registered element immediately.
func (a *Arbiter) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.globalMute = muted

	if muted {
		for _, s := range a.registry.List() {
			s.Element.SetMuted(true)
		}
		return
	}

	// Unmuting restores the policy-derived state on surfaces already active;
	// idle surfaces pick it up on their next play intent.
	set := a.store.Get()
	_, forceMute := autoplayPolicy(set, a.monitor.Snapshot())
	for _, s := range a.registry.List() {
		if state := s.State(); state == surface.StatePlaying || state == surface.StateLoading {
			s.Element.SetMuted(set.MuteByDefault || forceMute)
		}
	}
}

// Reconcile runs a full decision pass: refresh visibility, settle
// eligibility transitions, pause disqualified surfaces, hint preloads, and
// start the most eligible surface if policy permits.
func (a *Arbiter) Reconcile() {
	a.mu.Lock()
	var eff effects
	a.reconcileLocked(&eff)
	a.mu.Unlock()
	eff.run()
}

func (a *Arbiter) reconcileLocked(eff *effects) {
	set := a.store.Get()
	snap := a.monitor.Snapshot()
	a.tracker.UpdateVisibility()

	// Snapshot before dispatch: registry mutations triggered by our own
	// decisions cannot disturb the iteration.
	surfaces := a.registry.List()

	if !set.Enabled {
		for _, s := range surfaces {
			if state := s.State(); state == surface.StatePlaying || state == surface.StateLoading {
				a.pauseLocked(s, eff)
			}
		}
		return
	}

	a.settleEligibility(surfaces, set.Threshold)

	scroll := a.tracker.ScrollState()
	scrollBlocked := set.PauseOnScroll && scroll.IsScrolling

	// Demote whatever no longer qualifies before considering starts.
	for _, s := range surfaces {
		state := s.State()
		if state != surface.StatePlaying && state != surface.StateLoading {
			continue
		}
		if s.Visibility() < set.Threshold || scrollBlocked {
			a.pauseLocked(s, eff)
		}
	}

	a.hintPreloads(set, snap)

	if scrollBlocked {
		return
	}

	target := a.tracker.MostEligible()
	if target == nil {
		return
	}

	allowed, forceMute := autoplayPolicy(set, snap)
	if !allowed {
		// Low battery mutes the eligible surface even though it stays idle.
		if forceMute {
			target.Element.SetMuted(true)
		}
		return
	}

	if state := target.State(); state == surface.StateEligible || state == surface.StatePaused {
		a.playLocked(target, set, forceMute, eff)
	}
}

// settleEligibility moves surfaces across the registered/eligible boundary
// according to their current visibility.
func (a *Arbiter) settleEligibility(surfaces []*surface.Surface, threshold float64) {
	for _, s := range surfaces {
		switch s.State() {
		case surface.StateRegistered:
			if s.Visibility() >= threshold {
				s.SetState(surface.StateEligible)
				log.Debugf("surface %s eligible (visibility %.2f)", s.ID, s.Visibility())
			}
		case surface.StateEligible:
			if s.Visibility() < threshold {
				s.SetState(surface.StateRegistered)
			}
		}
	}
}

// autoplayPolicy gates automatic playback on network and power conditions,
// returning whether autoplay may proceed and whether mute must be forced
// regardless of the stored preference.
func autoplayPolicy(set settings.Settings, snap env.Snapshot) (allowed, forceMute bool) {
	allowed = true

	if set.AutoplayOnlyOnWifi && (snap.NetworkClass.Constrained() || snap.SaveData) {
		allowed = false
	}
	if snap.BatteryLevel < lowBatteryLevel && !snap.IsCharging {
		allowed = false
		forceMute = true
	}
	if set.RespectReducedMotion && snap.ReducedMotion {
		allowed = false
	}
	return allowed, forceMute
}

// hintPreloads pushes preload hints to surfaces inside the effective preload
// window, downgrading the strategy on constrained networks.
func (a *Arbiter) hintPreloads(set settings.Settings, snap env.Snapshot) {
	strategy := set.PreloadStrategy

	switch {
	case snap.SaveData, snap.NetworkClass == env.NetworkSlow2G, snap.NetworkClass == env.Network2G:
		strategy = settings.PreloadNone
	case snap.NetworkClass == env.Network3G && strategy == settings.PreloadAuto:
		strategy = settings.PreloadMetadata
	}

	if strategy == settings.PreloadNone {
		return
	}
	for _, s := range a.tracker.PreloadCandidates() {
		hintPreload(s, strategy)
	}
}

// hintPreload delivers a strategy hint to elements that support preloading.
func hintPreload(s *surface.Surface, strategy settings.PreloadStrategy) {
	if p, ok := s.Element.(surface.Preloader); ok {
		p.SetPreload(string(strategy))
	}
}
