// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vidpulse is the canonical application identifier used for filesystem paths and CLI branding.
	Vidpulse = "vidpulse"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// SettingsSchemaVersion is bumped whenever the persisted settings shape changes.
	SettingsSchemaVersion = 1
)
