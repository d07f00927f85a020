// Package surface defines the playable surface abstraction and the registry
// that tracks every currently-mounted surface in the feed.
//
// A surface wraps two externally-owned capabilities: the playable media
// element and the container used for viewport intersection measurement. The
// coordinator references both exclusively but never owns them; the host UI
// disposes of them after unregistration.
package surface

import (
	"sync"
	"time"
)

// State identifies a surface's position in the playback lifecycle.
type State string

// Surface lifecycle states. Unregistered is terminal: a surface that reaches
// it never receives further mutation.
const (
	StateRegistered   State = "registered"
	StateEligible     State = "eligible"
	StateLoading      State = "loading"
	StatePlaying      State = "playing"
	StatePaused       State = "paused"
	StateErroring     State = "erroring"
	StateUnregistered State = "unregistered"
)

// Element encapsulates the required capabilities of an externally-owned
// playable media object.
type Element interface {
	// Play requests playback and returns a channel that settles with the
	// outcome. The result may arrive after an unbounded delay; a nil error
	// means the element is playing.
	Play() <-chan error

	// Pause suspends playback immediately.
	Pause()

	// Muted reports the current mute state.
	Muted() bool

	// SetMuted updates the mute state.
	SetMuted(muted bool)

	// CurrentTime retrieves the current playback position in seconds.
	CurrentTime() float64

	// Duration retrieves the total media length in seconds, or zero when unknown.
	Duration() float64
}

// Preloader is an optional element capability for media preload hints.
// Elements that do not implement it simply never receive hints.
type Preloader interface {
	SetPreload(strategy string)
}

// Container exposes the geometry of the viewport-scoped element a surface is
// mounted in.
type Container interface {
	Bounds() Rect
}

// Surface is one registered video region. All mutable fields are guarded by
// the surface's own mutex; use the accessor methods.
type Surface struct {
	ID        string
	Element   Element
	Container Container

	mu         sync.Mutex
	state      State
	viewMs     int64
	intentSeq  uint64
	visibility float64
	order      int
}

// State returns the surface's current lifecycle state.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions the surface to the given state. Transitions out of
// StateUnregistered are rejected; nothing mutates a dead surface.
func (s *Surface) SetState(state State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUnregistered {
		return false
	}
	s.state = state
	return true
}

// IntentSeq returns the sequence number of the last play intent issued for
// this surface.
func (s *Surface) IntentSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intentSeq
}

// NextIntentSeq allocates and returns a new, strictly increasing intent
// sequence number. Completions carrying an older number are stale and must
// be discarded.
func (s *Surface) NextIntentSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentSeq++
	return s.intentSeq
}

// ViewMs returns the accumulated, not-yet-reported watch time in milliseconds.
func (s *Surface) ViewMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMs
}

// AddViewTime extends the accumulated watch time.
func (s *Surface) AddViewTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMs += d.Milliseconds()
}

// ResetViewTime clears the accumulator after a view event has been reported.
func (s *Surface) ResetViewTime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMs = 0
}

// Visibility returns the last observed viewport intersection ratio (0-1).
func (s *Surface) Visibility() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibility
}

// SetVisibility records the latest viewport intersection ratio.
func (s *Surface) SetVisibility(ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibility = ratio
}

// Order returns the surface's registration sequence, used as the final
// deterministic tie-break during eligibility selection.
func (s *Surface) Order() int {
	return s.order
}
