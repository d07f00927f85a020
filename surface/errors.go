package surface

import "errors"

// Playback failure classes reported by Element.Play. Host element
// implementations wrap or return these sentinels so the arbiter can
// classify completions with errors.Is instead of matching error text.
var (
	// ErrPlaybackCancelled marks an abort-class failure: a competing pause or
	// source change interrupted the play call. Expected under intent
	// supersession and never surfaced to callers.
	ErrPlaybackCancelled = errors.New("playback cancelled")

	// ErrPlaybackUnsupported marks a format or decoding rejection. Never
	// retried; reported once per surface.
	ErrPlaybackUnsupported = errors.New("playback unsupported")
)
