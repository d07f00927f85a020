package surface

import (
	"fmt"
	"sync"

	"github.com/vidpulse/vidpulse/log"
)

// DuplicateIDError reports an attempt to register a surface under an id that
// is already live in the registry. It indicates a collaborator programming
// error and is surfaced synchronously from Register.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("surface %q is already registered", e.ID)
}

// UnregisterFunc removes a surface from the registry. Invoking it more than
// once is a no-op.
type UnregisterFunc func()

// Registry tracks every currently-mounted playable surface. It is the sole
// component that adds or removes surfaces; playback state transitions are
// driven through the surfaces' own accessors.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
	ordered  []*Surface
	nextSeq  int

	// onRemoved, when set, is invoked after a surface has been removed so the
	// coordinator can flush view time and re-run a decision pass.
	onRemoved func(*Surface)
}

// NewRegistry creates an empty surface registry.
func NewRegistry() *Registry {
	return &Registry{
		surfaces: make(map[string]*Surface),
	}
}

// OnRemoved installs a hook called synchronously whenever a surface leaves
// the registry. Must be set before surfaces are registered.
func (r *Registry) OnRemoved(fn func(*Surface)) {
	r.onRemoved = fn
}

// Register creates a surface in the registered state and begins tracking it.
// The returned capability unregisters the surface; calling it repeatedly is
// harmless. Registration fails with *DuplicateIDError when the id is taken.
func (r *Registry) Register(id string, element Element, container Container) (UnregisterFunc, error) {
	r.mu.Lock()

	if _, exists := r.surfaces[id]; exists {
		r.mu.Unlock()
		return nil, &DuplicateIDError{ID: id}
	}

	s := &Surface{
		ID:        id,
		Element:   element,
		Container: container,
		state:     StateRegistered,
		order:     r.nextSeq,
	}
	r.nextSeq++
	r.surfaces[id] = s
	r.ordered = append(r.ordered, s)
	r.mu.Unlock()

	log.Debugf("surface %s registered", id)

	var once sync.Once
	unregister := func() {
		once.Do(func() {
			r.remove(s)
		})
	}
	return unregister, nil
}

// remove transitions the surface to its terminal state and drops it from the
// registry. Bumping the intent sequence invalidates any in-flight play
// completion; there is no blocking wait for outstanding calls.
func (r *Registry) remove(s *Surface) {
	s.mu.Lock()
	s.state = StateUnregistered
	s.intentSeq++
	s.mu.Unlock()

	r.mu.Lock()
	delete(r.surfaces, s.ID)
	for i, candidate := range r.ordered {
		if candidate == s {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	log.Debugf("surface %s unregistered", s.ID)

	if r.onRemoved != nil {
		r.onRemoved(s)
	}
}

// Get returns the surface registered under id, if any. Never fails.
func (r *Registry) Get(id string) (*Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	return s, ok
}

// List returns a snapshot of all registered surfaces in registration order.
// Callers may dispatch mutating decisions against the snapshot without
// holding any registry lock.
func (r *Registry) List() []*Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Surface, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of currently registered surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.surfaces)
}

// CountState returns how many surfaces are currently in the given state.
func (r *Registry) CountState(state State) int {
	count := 0
	for _, s := range r.List() {
		if s.State() == state {
			count++
		}
	}
	return count
}
