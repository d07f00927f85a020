package settings

import (
	"sync"

	"github.com/metafates/gache"
	"github.com/vidpulse/vidpulse/filesystem"
	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/where"
)

// Mobile adjustment bounds. Touch scrolling is faster and jerkier than wheel
// scrolling, so mobile gets a lower activation bar and a longer quiet window.
const (
	mobileMaxThreshold   = 0.5
	mobileMinScrollPause = 250
)

// Store owns the process-wide Settings value. It is the single designated
// mutator; every other component reads through Get or reacts to the
// change-notification fan-out.
type Store struct {
	mu          sync.Mutex
	device      DeviceClass
	current     Settings
	loaded      bool
	cacher      *gache.Cache[*persistedSettings]
	subscribers []func(Settings)
}

// NewStore creates a settings store for the given device class, backed by
// the persisted settings object under the well-known key.
func NewStore(device DeviceClass) *Store {
	return &Store{
		device: device,
		cacher: gache.New[*persistedSettings](&gache.Options{
			Path:       where.Settings(),
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Load resolves the effective settings: factory defaults overlaid by any
// persisted partial object, then passed through the device adjustment pass.
// Malformed or missing persisted data is ignored rather than failing the load.
func (st *Store) Load() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()

	base := Defaults()

	persisted, _, err := st.cacher.Get()
	if err != nil {
		log.Warnf("ignoring malformed persisted settings: %v", err)
	} else if persisted != nil {
		persisted.overlay(&base)
	}

	st.adjustForDevice(&base)
	base.normalize()

	st.current = base
	st.loaded = true
	return base
}

// Get returns a copy of the effective settings, loading them first if needed.
func (st *Store) Get() Settings {
	st.mu.Lock()
	loaded := st.loaded
	current := st.current
	st.mu.Unlock()

	if !loaded {
		return st.Load()
	}
	return current
}

// Update shallow-merges the patch into the current settings, re-runs the
// device adjustment pass, persists the merged result, and notifies all
// subscribers synchronously before returning.
func (st *Store) Update(patch Patch) (Settings, error) {
	st.mu.Lock()
	if !st.loaded {
		st.mu.Unlock()
		st.Load()
		st.mu.Lock()
	}

	patch.apply(&st.current)
	st.adjustForDevice(&st.current)
	st.current.normalize()

	merged := st.current
	err := st.cacher.Set(newPersisted(merged))
	subscribers := make([]func(Settings), len(st.subscribers))
	copy(subscribers, st.subscribers)
	st.mu.Unlock()

	if err != nil {
		log.Errorf("persist settings: %v", err)
	}

	for _, notify := range subscribers {
		notify(merged)
	}
	return merged, err
}

// Subscribe registers a synchronous change listener. Listeners run on the
// updating goroutine and must not call Update reentrantly.
func (st *Store) Subscribe(fn func(Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subscribers = append(st.subscribers, fn)
}

// Device returns the device class the store adjusts for.
func (st *Store) Device() DeviceClass {
	return st.device
}

// adjustForDevice applies the device-class adjustment pass. Mobile forces
// mute only when the user has not explicitly chosen a mute preference.
func (st *Store) adjustForDevice(s *Settings) {
	if st.device != DeviceMobile {
		return
	}

	if s.Threshold > mobileMaxThreshold {
		s.Threshold = mobileMaxThreshold
	}
	if s.ScrollPauseDelayMs < mobileMinScrollPause {
		s.ScrollPauseDelayMs = mobileMinScrollPause
	}
	if !s.UserSetMute {
		s.MuteByDefault = true
	}
}
