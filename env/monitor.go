package env

import (
	"sync"

	"github.com/vidpulse/vidpulse/log"
)

// Monitor recomputes an environment snapshot from its providers and fans out
// change notifications. It is read-mostly shared state: only Refresh mutates
// the snapshot.
type Monitor struct {
	mu          sync.RWMutex
	network     NetworkProvider
	battery     BatteryProvider
	device      DeviceProvider
	memory      MemoryProvider
	snapshot    Snapshot
	subscribers []func(Snapshot)
}

// Option configures a Monitor at construction.
type Option func(*Monitor)

// WithNetworkProvider installs a network signal source.
func WithNetworkProvider(p NetworkProvider) Option {
	return func(m *Monitor) { m.network = p }
}

// WithBatteryProvider installs a power signal source.
func WithBatteryProvider(p BatteryProvider) Option {
	return func(m *Monitor) { m.battery = p }
}

// WithDeviceProvider installs a device characteristics source.
func WithDeviceProvider(p DeviceProvider) Option {
	return func(m *Monitor) { m.device = p }
}

// WithMemoryProvider installs a memory pressure source.
func WithMemoryProvider(p MemoryProvider) Option {
	return func(m *Monitor) { m.memory = p }
}

// NewMonitor creates a monitor. Providers left unset fall back to the
// no-signal implementation, yielding permissive defaults.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		network: noSignal{},
		battery: noSignal{},
		device:  noSignal{},
		memory:  noSignal{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.snapshot = m.compute()
	return m
}

// Snapshot returns the most recently computed environment view.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Refresh recomputes the snapshot from all providers. Subscribers are
// notified synchronously when anything changed. The host calls this from its
// connection/battery/orientation change handlers.
func (m *Monitor) Refresh() Snapshot {
	next := m.compute()

	m.mu.Lock()
	changed := next != m.snapshot
	m.snapshot = next
	subscribers := make([]func(Snapshot), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	if changed {
		log.Debugf("environment changed: network=%s downlink=%.1f save-data=%t battery=%.2f charging=%t",
			next.NetworkClass, next.DownlinkMbps, next.SaveData, next.BatteryLevel, next.IsCharging)
		for _, notify := range subscribers {
			notify(next)
		}
	}
	return next
}

// Subscribe registers a synchronous change listener.
func (m *Monitor) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// compute assembles a snapshot, substituting permissive defaults for every
// absent signal. A missing probe is "unknown", never a failure.
func (m *Monitor) compute() Snapshot {
	snap := permissiveSnapshot()

	if info, ok := m.network.Network().Get(); ok {
		snap.NetworkClass = info.Class
		snap.DownlinkMbps = info.DownlinkMbps
		snap.SaveData = info.SaveData
	}
	if info, ok := m.battery.Battery().Get(); ok {
		snap.BatteryLevel = info.Level
		snap.IsCharging = info.Charging
	}
	snap.IsMobile = m.device.IsMobile()
	snap.ReducedMotion = m.device.ReducedMotion()
	if pressure, ok := m.memory.Pressure().Get(); ok {
		snap.MemoryPressure = pressure
	}

	return snap
}
