package settings

// persistedSettings is the on-disk shape of the settings object. Every field
// is a pointer so a partial or older-schema object overlays cleanly: absent
// keys keep their factory defaults.
type persistedSettings struct {
	Version              *int             `json:"version,omitempty"`
	Enabled              *bool            `json:"enabled,omitempty"`
	Threshold            *float64         `json:"threshold,omitempty"`
	PauseOnScroll        *bool            `json:"pause_on_scroll,omitempty"`
	MuteByDefault        *bool            `json:"mute_by_default,omitempty"`
	PreloadStrategy      *PreloadStrategy `json:"preload_strategy,omitempty"`
	MaxConcurrentVideos  *int             `json:"max_concurrent_videos,omitempty"`
	ScrollPauseDelayMs   *int             `json:"scroll_pause_delay_ms,omitempty"`
	ViewTrackingSeconds  *int             `json:"view_tracking_threshold_seconds,omitempty"`
	AutoplayOnlyOnWifi   *bool            `json:"autoplay_only_on_wifi,omitempty"`
	RespectReducedMotion *bool            `json:"respect_reduced_motion,omitempty"`
	UserSetMute          *bool            `json:"user_set_mute,omitempty"`
}

// newPersisted captures a full settings value for persistence.
func newPersisted(s Settings) *persistedSettings {
	return &persistedSettings{
		Version:              &s.Version,
		Enabled:              &s.Enabled,
		Threshold:            &s.Threshold,
		PauseOnScroll:        &s.PauseOnScroll,
		MuteByDefault:        &s.MuteByDefault,
		PreloadStrategy:      &s.PreloadStrategy,
		MaxConcurrentVideos:  &s.MaxConcurrentVideos,
		ScrollPauseDelayMs:   &s.ScrollPauseDelayMs,
		ViewTrackingSeconds:  &s.ViewTrackingSeconds,
		AutoplayOnlyOnWifi:   &s.AutoplayOnlyOnWifi,
		RespectReducedMotion: &s.RespectReducedMotion,
		UserSetMute:          &s.UserSetMute,
	}
}

// overlay copies every present field onto the target settings.
func (p *persistedSettings) overlay(target *Settings) {
	if p.Enabled != nil {
		target.Enabled = *p.Enabled
	}
	if p.Threshold != nil {
		target.Threshold = *p.Threshold
	}
	if p.PauseOnScroll != nil {
		target.PauseOnScroll = *p.PauseOnScroll
	}
	if p.MuteByDefault != nil {
		target.MuteByDefault = *p.MuteByDefault
	}
	if p.PreloadStrategy != nil {
		target.PreloadStrategy = *p.PreloadStrategy
	}
	if p.MaxConcurrentVideos != nil {
		target.MaxConcurrentVideos = *p.MaxConcurrentVideos
	}
	if p.ScrollPauseDelayMs != nil {
		target.ScrollPauseDelayMs = *p.ScrollPauseDelayMs
	}
	if p.ViewTrackingSeconds != nil {
		target.ViewTrackingSeconds = *p.ViewTrackingSeconds
	}
	if p.AutoplayOnlyOnWifi != nil {
		target.AutoplayOnlyOnWifi = *p.AutoplayOnlyOnWifi
	}
	if p.RespectReducedMotion != nil {
		target.RespectReducedMotion = *p.RespectReducedMotion
	}
	if p.UserSetMute != nil {
		target.UserSetMute = *p.UserSetMute
	}
}
