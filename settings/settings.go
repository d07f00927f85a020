// Package settings implements the coordinator's tunable policy: a single
// versioned Settings value with factory defaults, persisted partial overlay,
// device-class adjustment, and persist-on-mutation semantics.
package settings

import (
	"time"

	"github.com/spf13/viper"
	"github.com/vidpulse/vidpulse/constant"
	"github.com/vidpulse/vidpulse/key"
)

// PreloadStrategy is a coarse media preload policy hint.
type PreloadStrategy string

const (
	PreloadNone     PreloadStrategy = "none"
	PreloadMetadata PreloadStrategy = "metadata"
	PreloadAuto     PreloadStrategy = "auto"
)

// Valid reports whether the strategy is one of the recognized values.
func (p PreloadStrategy) Valid() bool {
	switch p {
	case PreloadNone, PreloadMetadata, PreloadAuto:
		return true
	}
	return false
}

// DeviceClass partitions hosts into the two coarse categories the adjustment
// pass cares about.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
)

// Settings holds the playback coordinator's complete tunable policy.
type Settings struct {
	Version              int             `json:"version"`
	Enabled              bool            `json:"enabled"`
	Threshold            float64         `json:"threshold"`
	PauseOnScroll        bool            `json:"pause_on_scroll"`
	MuteByDefault        bool            `json:"mute_by_default"`
	PreloadStrategy      PreloadStrategy `json:"preload_strategy"`
	MaxConcurrentVideos  int             `json:"max_concurrent_videos"`
	ScrollPauseDelayMs   int             `json:"scroll_pause_delay_ms"`
	ViewTrackingSeconds  int             `json:"view_tracking_threshold_seconds"`
	AutoplayOnlyOnWifi   bool            `json:"autoplay_only_on_wifi"`
	RespectReducedMotion bool            `json:"respect_reduced_motion"`

	// UserSetMute records that the user explicitly chose a mute preference,
	// which exempts MuteByDefault from the mobile adjustment pass.
	UserSetMute bool `json:"user_set_mute"`
}

// ScrollPauseDelay returns the scroll quiescence window as a duration.
func (s Settings) ScrollPauseDelay() time.Duration {
	return time.Duration(s.ScrollPauseDelayMs) * time.Millisecond
}

// ViewTrackingThreshold returns the minimum genuine-view watch time.
func (s Settings) ViewTrackingThreshold() time.Duration {
	return time.Duration(s.ViewTrackingSeconds) * time.Second
}

// Defaults constructs the factory settings from the configuration registry.
// config.Setup must have run so the viper defaults are populated.
func Defaults() Settings {
	return Settings{
		Version:              constant.SettingsSchemaVersion,
		Enabled:              viper.GetBool(key.PlaybackEnabled),
		Threshold:            viper.GetFloat64(key.PlaybackThreshold),
		PauseOnScroll:        viper.GetBool(key.PlaybackPauseOnScroll),
		MuteByDefault:        viper.GetBool(key.PlaybackMuteByDefault),
		PreloadStrategy:      PreloadStrategy(viper.GetString(key.PlaybackPreloadStrategy)),
		MaxConcurrentVideos:  viper.GetInt(key.PlaybackMaxConcurrentVideos),
		ScrollPauseDelayMs:   viper.GetInt(key.PlaybackScrollPauseDelay),
		ViewTrackingSeconds:  viper.GetInt(key.PlaybackViewThresholdSeconds),
		AutoplayOnlyOnWifi:   viper.GetBool(key.PlaybackAutoplayOnlyOnWifi),
		RespectReducedMotion: viper.GetBool(key.PlaybackRespectReducedMotion),
	}
}

// normalize clamps fields into their documented ranges so a hostile or
// corrupted persisted object cannot wedge the coordinator.
func (s *Settings) normalize() {
	if s.Threshold < 0 {
		s.Threshold = 0
	}
	if s.Threshold > 1 {
		s.Threshold = 1
	}
	if s.MaxConcurrentVideos < 1 {
		s.MaxConcurrentVideos = 1
	}
	if s.ScrollPauseDelayMs < 0 {
		s.ScrollPauseDelayMs = 0
	}
	if s.ViewTrackingSeconds < 0 {
		s.ViewTrackingSeconds = 0
	}
	if !s.PreloadStrategy.Valid() {
		s.PreloadStrategy = PreloadMetadata
	}
}
