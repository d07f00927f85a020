package arbiter

import (
	"errors"
	"sort"

	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/settings"
	"github.com/vidpulse/vidpulse/surface"
)

// errorKind buckets playback failures for classification and once-per-kind
// reporting.
type errorKind string

const (
	kindCancelled   errorKind = "cancelled"
	kindUnsupported errorKind = "unsupported"
	kindTransient   errorKind = "transient"
)

// classify maps an element failure onto its taxonomy bucket.
func classify(err error) errorKind {
	switch {
	case errors.Is(err, surface.ErrPlaybackCancelled):
		return kindCancelled
	case errors.Is(err, surface.ErrPlaybackUnsupported):
		return kindUnsupported
	default:
		return kindTransient
	}
}

// playLocked issues a play intent for the surface. The concurrent-playing
// ceiling is enforced first: when at the limit, the lowest-priority playing
// surface (farthest container center from the viewport center) receives its
// pause before the new play is issued, keeping start/stop in
// request-issuance order. Caller holds a.mu.
func (a *Arbiter) playLocked(s *surface.Surface, set settings.Settings, forceMute bool, eff *effects) {
	a.evictForLimitLocked(s, set.MaxConcurrentVideos, eff)

	seq := s.NextIntentSeq()
	if !s.SetState(surface.StateLoading) {
		return
	}

	s.Element.SetMuted(set.MuteByDefault || a.globalMute || forceMute)
	hintPreload(s, set.PreloadStrategy)

	log.Debugf("play intent %d issued for surface %s", seq, s.ID)
	completion := s.Element.Play()
	go a.awaitPlay(s, seq, completion, 0)
}

// evictForLimitLocked pauses currently playing or loading surfaces, farthest
// from the viewport center first, until the candidate can start without
// exceeding the ceiling.
func (a *Arbiter) evictForLimitLocked(candidate *surface.Surface, limit int, eff *effects) {
	if limit < 1 {
		limit = 1
	}

	var occupied []*surface.Surface
	for _, s := range a.registry.List() {
		if s == candidate {
			continue
		}
		if state := s.State(); state == surface.StatePlaying || state == surface.StateLoading {
			occupied = append(occupied, s)
		}
	}
	if len(occupied) < limit {
		return
	}

	sort.SliceStable(occupied, func(i, j int) bool {
		return a.tracker.CenterDistance(occupied[i]) > a.tracker.CenterDistance(occupied[j])
	})
	for len(occupied) >= limit {
		a.pauseLocked(occupied[0], eff)
		occupied = occupied[1:]
	}
}

// pauseLocked issues a pause for the surface. Pause settles immediately; the
// intent sequence is bumped so any in-flight play completion is discarded.
// Caller holds a.mu.
func (a *Arbiter) pauseLocked(s *surface.Surface, eff *effects) {
	wasPlaying := s.State() == surface.StatePlaying

	s.NextIntentSeq()
	s.Element.Pause()
	if !s.SetState(surface.StatePaused) {
		return
	}

	if a.activeID == s.ID {
		a.lastActive = a.activeID
		a.activeID = ""
	}

	id := s.ID
	onPause := a.callbacks.OnVideoPause
	eff.add(func() {
		if wasPlaying {
			a.accountant.MarkStopped(s)
		}
		if onPause != nil {
			onPause(id)
		}
	})
}

// awaitPlay handles the settlement of one play intent. A completion whose
// sequence no longer matches the surface's current intent is stale and is
// discarded whether it succeeded or failed; the newest intent always wins.
func (a *Arbiter) awaitPlay(s *surface.Surface, seq uint64, completion <-chan error, attempt int) {
	err := <-completion

	a.mu.Lock()
	var eff effects

	if s.State() == surface.StateUnregistered || seq != s.IntentSeq() {
		// Superseded. Cancellation-class or otherwise, nothing to report.
		log.Debugf("discarding stale completion %d for surface %s", seq, s.ID)
		a.mu.Unlock()
		return
	}

	if err == nil {
		a.settlePlayingLocked(s, &eff)
		a.mu.Unlock()
		eff.run()
		return
	}

	switch classify(err) {
	case kindCancelled:
		if attempt == 0 {
			// One fallback retry on the minimal path: mute, then play the
			// bare element with no hints.
			retrySeq := s.NextIntentSeq()
			s.Element.SetMuted(true)
			log.Debugf("fallback retry %d for surface %s after cancellation", retrySeq, s.ID)
			retry := s.Element.Play()
			go a.awaitPlay(s, retrySeq, retry, attempt+1)
			a.mu.Unlock()
			return
		}
		a.failLocked(s, kindCancelled, "playback repeatedly interrupted", &eff)

	case kindUnsupported:
		a.failLocked(s, kindUnsupported, err.Error(), &eff)

	case kindTransient:
		s.SetState(surface.StateErroring)
		if attempt == 0 {
			// Retry once in metadata-only preload mode.
			retrySeq := s.NextIntentSeq()
			hintPreload(s, settings.PreloadMetadata)
			log.Debugf("metadata retry %d for surface %s: %v", retrySeq, s.ID, err)
			retry := s.Element.Play()
			go a.awaitPlay(s, retrySeq, retry, attempt+1)
			a.mu.Unlock()
			return
		}
		a.failLocked(s, kindTransient, err.Error(), &eff)
	}

	a.mu.Unlock()
	eff.run()
}

// settlePlayingLocked applies a successful play completion. Caller holds a.mu.
func (a *Arbiter) settlePlayingLocked(s *surface.Surface, eff *effects) {
	if !s.SetState(surface.StatePlaying) {
		return
	}

	// A pause earlier in the same decision pass clears activeID; lastActive
	// preserves the predecessor so the switch callback names it.
	fromID := a.activeID
	if fromID == "" {
		fromID = a.lastActive
	}
	a.activeID = s.ID
	a.lastActive = ""

	id := s.ID
	onPlay := a.callbacks.OnVideoPlay
	onSwitch := a.callbacks.OnVideoSwitch
	eff.add(func() {
		a.accountant.MarkPlaying(s)
		if onPlay != nil {
			onPlay(id)
		}
		if onSwitch != nil && fromID != "" && fromID != id {
			onSwitch(fromID, id)
		}
	})
}

// failLocked parks a surface in paused after an unrecoverable failure and
// reports it at most once per surface per error kind, so a flapping element
// cannot flood the host with callbacks. Caller holds a.mu.
func (a *Arbiter) failLocked(s *surface.Surface, kind errorKind, message string, eff *effects) {
	wasPlaying := s.State() == surface.StatePlaying
	s.SetState(surface.StatePaused)
	if a.activeID == s.ID {
		a.lastActive = a.activeID
		a.activeID = ""
	}

	kinds, ok := a.reported[s.ID]
	if !ok {
		kinds = make(map[errorKind]struct{})
		a.reported[s.ID] = kinds
	}
	_, seen := kinds[kind]
	kinds[kind] = struct{}{}

	id := s.ID
	onError := a.callbacks.OnVideoError
	eff.add(func() {
		if wasPlaying {
			a.accountant.MarkStopped(s)
		}
		log.Errorf("surface %s playback failed (%s): %s", id, kind, message)
		if !seen && onError != nil {
			onError(id, message)
		}
	})
}

// Forget clears per-surface bookkeeping after unregistration.
func (a *Arbiter) Forget(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.reported, id)
	if a.activeID == id {
		a.activeID = ""
	}
	if a.lastActive == id {
		a.lastActive = ""
	}
}
