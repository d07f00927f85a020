// Package env observes the host environment: network quality, power state,
// device class, and memory pressure. Each signal source is wrapped as a
// capability provider so platforms lacking a signal degrade to permissive
// defaults instead of failing.
package env

import "github.com/samber/mo"

// NetworkClass is the coarse effective link type reported by the host.
type NetworkClass string

const (
	NetworkSlow2G  NetworkClass = "slow-2g"
	Network2G      NetworkClass = "2g"
	Network3G      NetworkClass = "3g"
	Network4G      NetworkClass = "4g"
	NetworkUnknown NetworkClass = "unknown"
)

// Constrained reports whether the link class is too weak for unsolicited
// media playback. Unknown links are treated as permissive.
func (c NetworkClass) Constrained() bool {
	switch c {
	case NetworkSlow2G, Network2G, Network3G:
		return true
	}
	return false
}

// NetworkInfo describes the current network conditions.
type NetworkInfo struct {
	Class        NetworkClass
	DownlinkMbps float64
	SaveData     bool
}

// BatteryInfo describes the current power state.
type BatteryInfo struct {
	Level    float64 // 0-1
	Charging bool
}

// NetworkProvider supplies network conditions. An absent option means the
// host exposes no connection information.
type NetworkProvider interface {
	Network() mo.Option[NetworkInfo]
}

// BatteryProvider supplies power state. An absent option means the host
// exposes no battery information.
type BatteryProvider interface {
	Battery() mo.Option[BatteryInfo]
}

// DeviceProvider supplies static device characteristics.
type DeviceProvider interface {
	IsMobile() bool
	ReducedMotion() bool
}

// MemoryProvider supplies a normalized memory pressure reading.
type MemoryProvider interface {
	Pressure() mo.Option[float64]
}

// Snapshot is the recomputed, read-only view of all environment signals.
// Fields for absent signals carry permissive defaults.
type Snapshot struct {
	NetworkClass   NetworkClass
	DownlinkMbps   float64
	SaveData       bool
	BatteryLevel   float64 // 0-1
	IsCharging     bool
	IsMobile       bool
	ReducedMotion  bool
	MemoryPressure float64 // 0-1
}

// permissiveSnapshot is what a host with zero observable signals looks like:
// unknown network, full charging battery, desktop, no motion preference.
func permissiveSnapshot() Snapshot {
	return Snapshot{
		NetworkClass: NetworkUnknown,
		BatteryLevel: 1,
		IsCharging:   true,
	}
}

// noSignal implements every provider interface with absent readings.
type noSignal struct{}

func (noSignal) Network() mo.Option[NetworkInfo] { return mo.None[NetworkInfo]() }
func (noSignal) Battery() mo.Option[BatteryInfo] { return mo.None[BatteryInfo]() }
func (noSignal) IsMobile() bool                  { return false }
func (noSignal) ReducedMotion() bool             { return false }
func (noSignal) Pressure() mo.Option[float64]    { return mo.None[float64]() }
