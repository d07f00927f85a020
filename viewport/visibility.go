package viewport

import (
	"math"

	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/util"
)

// trackable reports whether a surface participates in visibility measurement.
func trackable(state surface.State) bool {
	switch state {
	case surface.StateRegistered, surface.StateEligible, surface.StatePlaying, surface.StatePaused:
		return true
	}
	return false
}

// UpdateVisibility recomputes the intersection ratio of every trackable
// surface against the current viewport. The registry list is snapshotted
// first so concurrent registrations cannot disturb the pass.
func (t *Tracker) UpdateVisibility() {
	viewport := t.Viewport()

	for _, s := range t.registry.List() {
		if !trackable(s.State()) {
			continue
		}
		s.SetVisibility(s.Container.Bounds().IntersectionRatio(viewport))
	}
}

// CenterDistance measures how far a surface's container center sits from the
// viewport center. The arbiter pauses the farthest playing surface first
// when the concurrency limit forces an eviction.
func (t *Tracker) CenterDistance(s *surface.Surface) float64 {
	viewport := t.Viewport()
	bounds := s.Container.Bounds()
	dx := bounds.CenterX() - viewport.CenterX()
	dy := bounds.CenterY() - viewport.CenterY()
	return math.Hypot(dx, dy)
}

// MostEligible selects the single surface that should be playing: among
// trackable surfaces whose visibility meets the threshold, the one whose
// container center is closest to the viewport center wins; exact ties fall
// back to registration order, earliest first, guaranteeing determinism.
func (t *Tracker) MostEligible() *surface.Surface {
	threshold := t.store.Get().Threshold

	var best *surface.Surface
	var bestDistance float64

	// List is in registration order, and the strict < comparison preserves
	// the earliest candidate on equal distances.
	for _, s := range t.registry.List() {
		if !trackable(s.State()) || s.Visibility() < threshold {
			continue
		}
		distance := t.CenterDistance(s)
		if best == nil || distance < bestDistance {
			best = s
			bestDistance = distance
		}
	}
	return best
}

// EffectivePreloadDistance scales the base preload window by scroll
// velocity: the faster the user flings, the further ahead media should warm
// up, capped at three windows.
func (t *Tracker) EffectivePreloadDistance() float64 {
	velocity := util.Abs(t.ScrollState().Velocity)
	factor := util.Clamp(1+velocity/2000, 1.0, 3.0)
	return t.preloadDistance * factor
}

// PreloadCandidates returns the not-yet-visible surfaces sitting within the
// effective preload window in the direction of travel. With no measurable
// velocity both directions are considered.
func (t *Tracker) PreloadCandidates() []*surface.Surface {
	viewport := t.Viewport()
	distance := t.EffectivePreloadDistance()
	velocity := t.ScrollState().Velocity

	var out []*surface.Surface
	for _, s := range t.registry.List() {
		if !trackable(s.State()) || s.Visibility() > 0 {
			continue
		}

		bounds := s.Container.Bounds()
		belowGap := bounds.Top - viewport.Bottom()
		aboveGap := viewport.Top - bounds.Bottom()

		ahead := velocity >= 0 && belowGap >= 0 && belowGap <= distance
		behind := velocity <= 0 && aboveGap >= 0 && aboveGap <= distance
		if ahead || behind {
			out = append(out, s)
		}
	}
	return out
}
