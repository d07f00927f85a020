package arbiter

import (
	"fmt"

	"github.com/vidpulse/vidpulse/surface"
)

// RequestPlay issues a manual play intent. Manual requests bypass the
// autoplay gates (network class, reduced motion) but still honor forced mute
// on critically low battery and the concurrent-playing ceiling.
func (a *Arbiter) RequestPlay(id string) error {
	s, ok := a.registry.Get(id)
	if !ok {
		return fmt.Errorf("play %q: %w", id, ErrUnknownSurface)
	}

	a.mu.Lock()
	var eff effects

	set := a.store.Get()
	snap := a.monitor.Snapshot()
	_, forceMute := autoplayPolicy(set, snap)

	switch s.State() {
	case surface.StateUnregistered:
		a.mu.Unlock()
		return fmt.Errorf("play %q: %w", id, ErrUnknownSurface)
	case surface.StatePlaying, surface.StateLoading:
		a.mu.Unlock()
		return nil
	}

	a.playLocked(s, set, forceMute, &eff)
	a.mu.Unlock()
	eff.run()
	return nil
}

// RequestPause issues a manual pause for the surface.
func (a *Arbiter) RequestPause(id string) error {
	s, ok := a.registry.Get(id)
	if !ok {
		return fmt.Errorf("pause %q: %w", id, ErrUnknownSurface)
	}

	a.mu.Lock()
	var eff effects
	if state := s.State(); state == surface.StatePlaying || state == surface.StateLoading {
		a.pauseLocked(s, &eff)
	}
	a.mu.Unlock()
	eff.run()
	return nil
}

// PauseAll pauses every playing or loading surface.
func (a *Arbiter) PauseAll() {
	a.mu.Lock()
	var eff effects
	for _, s := range a.registry.List() {
		if state := s.State(); state == surface.StatePlaying || state == surface.StateLoading {
			a.pauseLocked(s, &eff)
		}
	}
	a.mu.Unlock()
	eff.run()
}
