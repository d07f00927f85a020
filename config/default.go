// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidpulse/vidpulse/color"
	"github.com/vidpulse/vidpulse/constant"
	"github.com/vidpulse/vidpulse/key"
	"github.com/vidpulse/vidpulse/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vidpulse + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlaybackEnabled, true, "Master switch for scroll-driven playback coordination.\nWhen disabled, all surfaces are paused and no autoplay intents are issued")
	register(key.PlaybackThreshold, 0.6, "Visibility ratio (0-1) at which a surface becomes eligible for playback")
	register(key.PlaybackPauseOnScroll, true, "Pause the active surface while the user is actively scrolling")
	register(key.PlaybackMuteByDefault, true, "Start playback muted.\nDevice policy may force this on regardless of the stored value")
	register(key.PlaybackPreloadStrategy, "metadata", "Media preload strategy hint.\nAvailable options are: none, metadata, auto")
	register(key.PlaybackMaxConcurrentVideos, 1, "Hard ceiling on simultaneously playing surfaces (>= 1)")
	register(key.PlaybackScrollPauseDelay, 150, "Quiescence window in milliseconds before scrolling is considered stopped")
	register(key.PlaybackViewThresholdSeconds, 3, "Minimum accumulated watch seconds before a view event is counted as genuine")
	register(key.PlaybackAutoplayOnlyOnWifi, false, "Suppress autoplay on constrained network classes (slow-2g, 2g, 3g or save-data)")
	register(key.PlaybackRespectReducedMotion, true, "Suppress autoplay when the platform signals a reduced-motion preference")
	register(key.ScrollThreshold, 5.0, "Minimum scroll delta in pixels that counts as active scrolling")
	register(key.ScrollVelocitySmooth, 0.3, "Exponential smoothing factor (0-1) applied to scroll velocity samples")
	register(key.ScrollPreloadDistance, 1200.0, "Distance in pixels ahead of the viewport within which surfaces receive preload hints")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
