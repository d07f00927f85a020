// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Coordination - these keys hold the factory defaults for the
// scroll-driven playback coordinator's tunable policy.
const (
	PlaybackEnabled              = "playback.enabled"
	PlaybackThreshold            = "playback.threshold"
	PlaybackPauseOnScroll        = "playback.pause_on_scroll"
	PlaybackMuteByDefault        = "playback.mute_by_default"
	PlaybackPreloadStrategy      = "playback.preload_strategy"
	PlaybackMaxConcurrentVideos  = "playback.max_concurrent_videos"
	PlaybackScrollPauseDelay     = "playback.scroll_pause_delay_ms"
	PlaybackViewThresholdSeconds = "playback.view_tracking_threshold_seconds"
	PlaybackAutoplayOnlyOnWifi   = "playback.autoplay_only_on_wifi"
	PlaybackRespectReducedMotion = "playback.respect_reduced_motion"
)

// Scroll Tracking - these keys tune velocity smoothing and hysteresis.
const (
	ScrollThreshold       = "scroll.threshold_px"
	ScrollVelocitySmooth  = "scroll.velocity_smoothing"
	ScrollPreloadDistance = "scroll.preload_distance_px"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern simulator behavior.
const (
	CliColored = "cli.colored"
)
