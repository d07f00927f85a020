package settings

import "github.com/samber/mo"

// Patch is a partial settings mutation. Absent fields leave the current
// value untouched, making partiality a structural property of the type
// rather than a convention.
type Patch struct {
	Enabled              mo.Option[bool]
	Threshold            mo.Option[float64]
	PauseOnScroll        mo.Option[bool]
	MuteByDefault        mo.Option[bool]
	PreloadStrategy      mo.Option[PreloadStrategy]
	MaxConcurrentVideos  mo.Option[int]
	ScrollPauseDelayMs   mo.Option[int]
	ViewTrackingSeconds  mo.Option[int]
	AutoplayOnlyOnWifi   mo.Option[bool]
	RespectReducedMotion mo.Option[bool]
}

// apply shallow-merges the present fields into target. Setting MuteByDefault
// marks the mute preference as user-chosen, which shields it from the mobile
// adjustment pass.
func (p Patch) apply(target *Settings) {
	if v, ok := p.Enabled.Get(); ok {
		target.Enabled = v
	}
	if v, ok := p.Threshold.Get(); ok {
		target.Threshold = v
	}
	if v, ok := p.PauseOnScroll.Get(); ok {
		target.PauseOnScroll = v
	}
	if v, ok := p.MuteByDefault.Get(); ok {
		target.MuteByDefault = v
		target.UserSetMute = true
	}
	if v, ok := p.PreloadStrategy.Get(); ok {
		target.PreloadStrategy = v
	}
	if v, ok := p.MaxConcurrentVideos.Get(); ok {
		target.MaxConcurrentVideos = v
	}
	if v, ok := p.ScrollPauseDelayMs.Get(); ok {
		target.ScrollPauseDelayMs = v
	}
	if v, ok := p.ViewTrackingSeconds.Get(); ok {
		target.ViewTrackingSeconds = v
	}
	if v, ok := p.AutoplayOnlyOnWifi.Get(); ok {
		target.AutoplayOnlyOnWifi = v
	}
	if v, ok := p.RespectReducedMotion.Get(); ok {
		target.RespectReducedMotion = v
	}
}
