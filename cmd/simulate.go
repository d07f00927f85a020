// Package cmd implements the command-line interface for vidpulse.
package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidpulse/vidpulse/color"
	"github.com/vidpulse/vidpulse/coordinator"
	"github.com/vidpulse/vidpulse/style"
	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/util"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("surfaces", "n", 6, "Number of feed surfaces to mount")
	simulateCmd.Flags().Float64P("item-height", "H", 600, "Height of each feed item in pixels")
	simulateCmd.Flags().Float64P("viewport", "V", 800, "Viewport height in pixels")
	simulateCmd.Flags().IntP("steps", "s", 20, "Number of scroll steps to replay")
	simulateCmd.Flags().Float64P("step-size", "d", 200, "Scroll delta per step in pixels")
}

// simElement is an offline stand-in for a host media element. Play settles
// immediately with success.
type simElement struct {
	mu       sync.Mutex
	muted    bool
	playing  bool
	position float64
	preload  string
}

func (e *simElement) Play() <-chan error {
	e.mu.Lock()
	e.playing = true
	e.mu.Unlock()

	done := make(chan error, 1)
	done <- nil
	return done
}

func (e *simElement) Pause() {
	e.mu.Lock()
	e.playing = false
	e.mu.Unlock()
}

func (e *simElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *simElement) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
}

func (e *simElement) CurrentTime() float64 { return e.position }
func (e *simElement) Duration() float64    { return 30 }

func (e *simElement) SetPreload(strategy string) {
	e.mu.Lock()
	e.preload = strategy
	e.mu.Unlock()
}

// simContainer is a fixed region in document coordinates.
type simContainer struct {
	bounds surface.Rect
}

func (c *simContainer) Bounds() surface.Rect { return c.bounds }

// simulateCmd replays a scripted scroll through a synthetic feed and prints
// every coordinator decision, exercising the full pipeline offline.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a scripted feed scroll against synthetic surfaces",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			count      = lo.Must(cmd.Flags().GetInt("surfaces"))
			itemHeight = lo.Must(cmd.Flags().GetFloat64("item-height"))
			viewportH  = lo.Must(cmd.Flags().GetFloat64("viewport"))
			steps      = lo.Must(cmd.Flags().GetInt("steps"))
			stepSize   = lo.Must(cmd.Flags().GetFloat64("step-size"))
		)

		event := func(tag, msg string) {
			fmt.Printf("%s %s\n", style.Fg(color.Cyan)(tag), msg)
		}

		coord := coordinator.New(coordinator.WithCallbacks(coordinator.Callbacks{
			OnVideoPlay:  func(id string) { event("play  ", id) },
			OnVideoPause: func(id string) { event("pause ", id) },
			OnVideoView: func(id string, seconds float64) {
				event("viewed", fmt.Sprintf("%s (%.1fs)", id, seconds))
			},
			OnVideoError: func(id, message string) {
				fmt.Printf("%s %s: %s\n", style.Fg(color.Red)("error "), id, message)
			},
			OnVideoSwitch: func(fromID, toID string) {
				event("switch", fmt.Sprintf("%s -> %s", fromID, toID))
			},
			OnScrollStateChange: func(isScrolling bool, velocity float64) {
				event("scroll", fmt.Sprintf("scrolling=%t velocity=%.0f", isScrolling, velocity))
			},
		}))
		defer coord.Close()

		fmt.Println(style.Title("vidpulse simulator"))

		coord.SetViewport(surface.Rect{Width: 400, Height: viewportH})

		for i := 0; i < count; i++ {
			id := fmt.Sprintf("video-%d", i+1)
			_, err := coord.RegisterVideo(id, &simElement{}, &simContainer{
				bounds: surface.Rect{Top: float64(i) * itemHeight, Width: 400, Height: itemHeight},
			})
			handleErr(err)
		}
		event("mount ", fmt.Sprintf("%s, item height %.0fpx",
			util.Quantify(count, "surface", "surfaces"), itemHeight))

		position := 0.0
		pause := coord.Settings().ScrollPauseDelay()
		for step := 0; step < steps; step++ {
			position += stepSize
			coord.ObserveScroll(position)
			time.Sleep(30 * time.Millisecond)

			// Let the quiescence window elapse every few steps so playback
			// resumes between scroll bursts.
			if (step+1)%4 == 0 {
				time.Sleep(pause + 50*time.Millisecond)
			}
		}

		time.Sleep(pause + 50*time.Millisecond)

		stats := coord.Stats()
		fmt.Println()
		fmt.Println(style.Bold("final state"))
		fmt.Printf("  active:    %s\n", stats.ActiveID)
		fmt.Printf("  scrolling: %t\n", stats.IsScrolling)
		for state, n := range stats.Surfaces {
			fmt.Printf("  %-11s %d\n", string(state)+":", n)
		}
	},
}
