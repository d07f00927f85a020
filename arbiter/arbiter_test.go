package arbiter

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidpulse/vidpulse/config"
	"github.com/vidpulse/vidpulse/env"
	"github.com/vidpulse/vidpulse/filesystem"
	"github.com/vidpulse/vidpulse/settings"
	"github.com/vidpulse/vidpulse/surface"
	"github.com/vidpulse/vidpulse/viewport"
	"github.com/vidpulse/vidpulse/viewtime"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

// fakeElement either settles each play immediately from a script of results
// (exhausted script means success), or, in manual mode, parks completions for
// the test to settle by hand.
type fakeElement struct {
	mu       sync.Mutex
	manual   bool
	script   []error
	pending  []chan error
	plays    int
	pauses   int
	muted    bool
	preloads []string
}

func (e *fakeElement) Play() <-chan error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.plays++
	ch := make(chan error, 1)
	if e.manual {
		e.pending = append(e.pending, ch)
		return ch
	}

	var err error
	if len(e.script) > 0 {
		err, e.script = e.script[0], e.script[1:]
	}
	ch <- err
	return ch
}

func (e *fakeElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauses++
}

func (e *fakeElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *fakeElement) SetMuted(m bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = m
}

func (e *fakeElement) CurrentTime() float64 { return 0 }
func (e *fakeElement) Duration() float64    { return 30 }

func (e *fakeElement) SetPreload(strategy string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preloads = append(e.preloads, strategy)
}

func (e *fakeElement) settle(i int, err error) {
	e.mu.Lock()
	ch := e.pending[i]
	e.mu.Unlock()
	ch <- err
}

func (e *fakeElement) playCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plays
}

func (e *fakeElement) pauseCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauses
}

func (e *fakeElement) preloadHints() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.preloads...)
}

type fakeContainer struct {
	bounds surface.Rect
}

func (c *fakeContainer) Bounds() surface.Rect { return c.bounds }

// recorder captures callback invocations for assertion.
type recorder struct {
	mu       sync.Mutex
	plays    []string
	pauses   []string
	failures []string
	switches []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnVideoPlay: func(id string) {
			r.mu.Lock()
			r.plays = append(r.plays, id)
			r.mu.Unlock()
		},
		OnVideoPause: func(id string) {
			r.mu.Lock()
			r.pauses = append(r.pauses, id)
			r.mu.Unlock()
		},
		OnVideoError: func(id, message string) {
			r.mu.Lock()
			r.failures = append(r.failures, fmt.Sprintf("%s: %s", id, message))
			r.mu.Unlock()
		},
		OnVideoSwitch: func(fromID, toID string) {
			r.mu.Lock()
			r.switches = append(r.switches, fmt.Sprintf("%s>%s", fromID, toID))
			r.mu.Unlock()
		},
	}
}

func (r *recorder) snapshot() (plays, pauses, failures, switches []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.plays...),
		append([]string(nil), r.pauses...),
		append([]string(nil), r.failures...),
		append([]string(nil), r.switches...)
}

type envSignals struct {
	network mo.Option[env.NetworkInfo]
	battery mo.Option[env.BatteryInfo]
	reduced bool
}

func (s *envSignals) Network() mo.Option[env.NetworkInfo] { return s.network }
func (s *envSignals) Battery() mo.Option[env.BatteryInfo] { return s.battery }
func (s *envSignals) IsMobile() bool                      { return false }
func (s *envSignals) ReducedMotion() bool                 { return s.reduced }

type harness struct {
	registry   *surface.Registry
	store      *settings.Store
	signals    *envSignals
	monitor    *env.Monitor
	tracker    *viewport.Tracker
	accountant *viewtime.Accountant
	rec        *recorder
	arb        *Arbiter
}

func newHarness() *harness {
	filesystem.SetMemMapFs()

	h := &harness{
		registry: surface.NewRegistry(),
		signals:  &envSignals{},
		rec:      &recorder{},
	}
	h.store = settings.NewStore(settings.DeviceDesktop)
	h.store.Load()
	h.monitor = env.NewMonitor(
		env.WithNetworkProvider(h.signals),
		env.WithBatteryProvider(h.signals),
		env.WithDeviceProvider(h.signals),
	)
	h.tracker = viewport.NewTracker(h.registry, h.store)
	h.accountant = viewtime.NewAccountant(func() time.Duration {
		return h.store.Get().ViewTrackingThreshold()
	})
	h.arb = New(h.registry, h.store, h.monitor, h.tracker, h.accountant, h.rec.callbacks())

	h.tracker.SetViewport(surface.Rect{Top: 0, Left: 0, Width: 800, Height: 600})
	return h
}

func (h *harness) add(id string, bounds surface.Rect, element *fakeElement) *surface.Surface {
	lo.Must(h.registry.Register(id, element, &fakeContainer{bounds: bounds}))
	s, _ := h.registry.Get(id)
	return s
}

// onscreen is a container rect fully inside the default test viewport.
func onscreen(order int) surface.Rect {
	return surface.Rect{Top: float64(order) * 50, Left: 100, Width: 200, Height: 50}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestReconcile(t *testing.T) {
	Convey("Given one fully visible surface", t, func() {
		h := newHarness()
		element := &fakeElement{}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		Convey("Reconcile starts it and reports the play", func() {
			h.arb.Reconcile()

			So(eventually(func() bool { return h.arb.ActiveID() == "a" }), ShouldBeTrue)
			So(s.State(), ShouldEqual, surface.StatePlaying)
			So(h.accountant.Watching("a"), ShouldBeTrue)

			plays, _, _, switches := h.rec.snapshot()
			So(plays, ShouldResemble, []string{"a"})
			So(switches, ShouldBeEmpty) // cold start is not a switch

			Convey("And it starts muted per the stored default", func() {
				So(element.Muted(), ShouldBeTrue)
			})

			Convey("And disabling the coordinator pauses it", func() {
				_, err := h.store.Update(settings.Patch{Enabled: mo.Some(false)})
				So(err, ShouldBeNil)
				h.arb.Reconcile()

				So(s.State(), ShouldEqual, surface.StatePaused)
				So(h.arb.ActiveID(), ShouldEqual, "")
				So(h.accountant.Watching("a"), ShouldBeFalse)
				_, pauses, _, _ := h.rec.snapshot()
				So(pauses, ShouldResemble, []string{"a"})
			})

			Convey("And active scrolling pauses it until quiescence", func() {
				h.tracker.ObserveScroll(0)
				h.tracker.ObserveScroll(8)
				So(h.tracker.ScrollState().IsScrolling, ShouldBeTrue)

				h.arb.Reconcile()
				So(s.State(), ShouldEqual, surface.StatePaused)
				So(element.playCount(), ShouldEqual, 1)
			})
		})

		Convey("A surface below the visibility threshold stays idle", func() {
			far := &fakeElement{}
			h.add("b", surface.Rect{Top: 5000, Left: 0, Width: 200, Height: 50}, far)
			h.arb.Reconcile()

			So(eventually(func() bool { return h.arb.ActiveID() == "a" }), ShouldBeTrue)
			So(far.playCount(), ShouldEqual, 0)
			b, _ := h.registry.Get("b")
			So(b.State(), ShouldEqual, surface.StateRegistered)
		})
	})

	Convey("Given the viewport moving from one surface to another", t, func() {
		h := newHarness()
		first := &fakeElement{}
		second := &fakeElement{}
		h.add("a", surface.Rect{Top: 0, Left: 0, Width: 800, Height: 600}, first)
		h.add("b", surface.Rect{Top: 1000, Left: 0, Width: 800, Height: 600}, second)
		defer h.tracker.Stop()

		h.arb.Reconcile()
		So(eventually(func() bool { return h.arb.ActiveID() == "a" }), ShouldBeTrue)

		h.tracker.SetViewport(surface.Rect{Top: 1000, Left: 0, Width: 800, Height: 600})
		h.arb.Reconcile()

		Convey("The switch callback names the predecessor", func() {
			So(eventually(func() bool { return h.arb.ActiveID() == "b" }), ShouldBeTrue)
			a, _ := h.registry.Get("a")
			So(a.State(), ShouldEqual, surface.StatePaused)

			plays, pauses, _, switches := h.rec.snapshot()
			So(plays, ShouldResemble, []string{"a", "b"})
			So(pauses, ShouldResemble, []string{"a"})
			So(switches, ShouldResemble, []string{"a>b"})
		})
	})
}

func TestConcurrencyCeiling(t *testing.T) {
	Convey("Given the default ceiling of one", t, func() {
		h := newHarness()
		first := &fakeElement{}
		second := &fakeElement{}
		h.add("a", onscreen(0), first)
		h.add("b", onscreen(1), second)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)
		So(eventually(func() bool { return h.arb.ActiveID() == "a" }), ShouldBeTrue)

		Convey("Starting a second surface evicts the first", func() {
			So(h.arb.RequestPlay("b"), ShouldBeNil)
			So(eventually(func() bool { return h.arb.ActiveID() == "b" }), ShouldBeTrue)

			a, _ := h.registry.Get("a")
			So(a.State(), ShouldEqual, surface.StatePaused)
			So(first.pauseCount(), ShouldEqual, 1)
		})
	})

	Convey("Given a ceiling of two", t, func() {
		h := newHarness()
		_, err := h.store.Update(settings.Patch{MaxConcurrentVideos: mo.Some(2)})
		So(err, ShouldBeNil)
		defer h.tracker.Stop()

		near := &fakeElement{}
		far := &fakeElement{}
		third := &fakeElement{}
		// "far" sits farther from the viewport center than "near".
		h.add("near", surface.Rect{Top: 250, Left: 300, Width: 200, Height: 100}, near)
		h.add("far", surface.Rect{Top: 0, Left: 0, Width: 100, Height: 50}, far)
		h.add("third", surface.Rect{Top: 400, Left: 300, Width: 200, Height: 100}, third)

		So(h.arb.RequestPlay("near"), ShouldBeNil)
		So(h.arb.RequestPlay("far"), ShouldBeNil)
		So(eventually(func() bool {
			return h.registry.CountState(surface.StatePlaying) == 2
		}), ShouldBeTrue)

		Convey("The surface farthest from the viewport center is evicted first", func() {
			So(h.arb.RequestPlay("third"), ShouldBeNil)

			farther, _ := h.registry.Get("far")
			nearer, _ := h.registry.Get("near")
			So(eventually(func() bool {
				return farther.State() == surface.StatePaused
			}), ShouldBeTrue)
			So(nearer.State(), ShouldEqual, surface.StatePlaying)
			So(eventually(func() bool {
				t, _ := h.registry.Get("third")
				return t.State() == surface.StatePlaying
			}), ShouldBeTrue)
		})
	})
}

func TestIntentSequencing(t *testing.T) {
	Convey("Given a surface whose element settles on demand", t, func() {
		h := newHarness()
		element := &fakeElement{manual: true}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)
		So(s.State(), ShouldEqual, surface.StateLoading)

		Convey("A pause supersedes the in-flight play", func() {
			So(h.arb.RequestPause("a"), ShouldBeNil)
			So(s.State(), ShouldEqual, surface.StatePaused)

			element.settle(0, nil) // stale success must be discarded
			time.Sleep(50 * time.Millisecond)

			So(s.State(), ShouldEqual, surface.StatePaused)
			So(h.arb.ActiveID(), ShouldEqual, "")
			plays, _, failures, _ := h.rec.snapshot()
			So(plays, ShouldBeEmpty)
			So(failures, ShouldBeEmpty)
		})

		Convey("A newer play wins over an older one", func() {
			So(h.arb.RequestPause("a"), ShouldBeNil)
			So(h.arb.RequestPlay("a"), ShouldBeNil)
			So(element.playCount(), ShouldEqual, 2)

			element.settle(0, nil) // first intent, now stale
			element.settle(1, nil) // current intent

			So(eventually(func() bool { return h.arb.ActiveID() == "a" }), ShouldBeTrue)
			plays, _, _, _ := h.rec.snapshot()
			So(plays, ShouldResemble, []string{"a"})
		})

		Convey("Interleaved plays across surfaces settle to the newest intent", func() {
			other := &fakeElement{manual: true}
			h.add("b", onscreen(1), other)

			// play(a) is pending from the setup; play(b) evicts a, then
			// play(a) evicts b. Only the third intent may take effect.
			So(h.arb.RequestPlay("b"), ShouldBeNil)
			So(h.arb.RequestPlay("a"), ShouldBeNil)

			element.settle(0, nil) // first play(a), superseded by the eviction
			other.settle(0, nil)   // play(b), superseded by the second play(a)
			element.settle(1, nil) // current intent for a

			So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			b, _ := h.registry.Get("b")
			So(b.State(), ShouldEqual, surface.StatePaused)
			So(h.arb.ActiveID(), ShouldEqual, "a")

			plays, _, _, _ := h.rec.snapshot()
			So(plays, ShouldResemble, []string{"a"})
		})

		Convey("A stale failure is silent", func() {
			So(h.arb.RequestPause("a"), ShouldBeNil)
			element.settle(0, surface.ErrPlaybackCancelled)
			time.Sleep(50 * time.Millisecond)

			So(element.playCount(), ShouldEqual, 1) // no fallback retry for stale intents
			_, _, failures, _ := h.rec.snapshot()
			So(failures, ShouldBeEmpty)
		})

		Convey("Unregistration makes any outcome a no-op", func() {
			_ = s.SetState(surface.StateUnregistered)
			element.settle(0, nil)
			time.Sleep(50 * time.Millisecond)

			So(h.arb.ActiveID(), ShouldEqual, "")
			plays, _, _, _ := h.rec.snapshot()
			So(plays, ShouldBeEmpty)
		})
	})
}

func TestFailureHandling(t *testing.T) {
	Convey("Given an element that cancels the first attempt", t, func() {
		h := newHarness()
		element := &fakeElement{script: []error{surface.ErrPlaybackCancelled}}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)

		Convey("One muted fallback retry recovers playback", func() {
			So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			So(element.playCount(), ShouldEqual, 2)
			So(element.Muted(), ShouldBeTrue)
			_, _, failures, _ := h.rec.snapshot()
			So(failures, ShouldBeEmpty)
		})
	})

	Convey("Given an element that cancels every attempt", t, func() {
		h := newHarness()
		element := &fakeElement{script: []error{
			surface.ErrPlaybackCancelled,
			surface.ErrPlaybackCancelled,
			surface.ErrPlaybackCancelled,
			surface.ErrPlaybackCancelled,
		}}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)
		So(eventually(func() bool { return s.State() == surface.StatePaused }), ShouldBeTrue)
		So(element.playCount(), ShouldEqual, 2)

		Convey("The failure is reported once", func() {
			_, _, failures, _ := h.rec.snapshot()
			So(failures, ShouldResemble, []string{"a: playback repeatedly interrupted"})
		})

		Convey("Repeating the same failure kind stays silent", func() {
			So(h.arb.RequestPlay("a"), ShouldBeNil)
			So(eventually(func() bool { return element.playCount() == 4 }), ShouldBeTrue)
			So(eventually(func() bool { return s.State() == surface.StatePaused }), ShouldBeTrue)

			_, _, failures, _ := h.rec.snapshot()
			So(len(failures), ShouldEqual, 1)
		})
	})

	Convey("Given an element that cannot play the media at all", t, func() {
		h := newHarness()
		element := &fakeElement{script: []error{surface.ErrPlaybackUnsupported}}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)
		So(eventually(func() bool { return s.State() == surface.StatePaused }), ShouldBeTrue)

		Convey("No retry is attempted and the failure is reported", func() {
			So(element.playCount(), ShouldEqual, 1)
			_, _, failures, _ := h.rec.snapshot()
			So(len(failures), ShouldEqual, 1)
		})
	})

	Convey("Given an element with a transient first failure", t, func() {
		h := newHarness()
		element := &fakeElement{script: []error{errors.New("decoder stalled")}}
		s := h.add("a", onscreen(0), element)
		defer h.tracker.Stop()

		So(h.arb.RequestPlay("a"), ShouldBeNil)

		Convey("A metadata-preload retry recovers playback", func() {
			So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			So(element.playCount(), ShouldEqual, 2)
			So(element.preloadHints(), ShouldContain, "metadata")
			_, _, failures, _ := h.rec.snapshot()
			So(failures, ShouldBeEmpty)
		})
	})
}

func TestAutoplayPolicy(t *testing.T) {
	Convey("Given wifi-only autoplay on a constrained network", t, func() {
		h := newHarness()
		_, err := h.store.Update(settings.Patch{AutoplayOnlyOnWifi: mo.Some(true)})
		So(err, ShouldBeNil)
		h.signals.network = mo.Some(env.NetworkInfo{Class: env.Network3G})
		h.monitor.Refresh()
		defer h.tracker.Stop()

		element := &fakeElement{}
		s := h.add("a", onscreen(0), element)

		Convey("Autoplay is suppressed", func() {
			h.arb.Reconcile()
			So(s.State(), ShouldEqual, surface.StateEligible)
			So(element.playCount(), ShouldEqual, 0)

			Convey("But a manual play bypasses the gate", func() {
				So(h.arb.RequestPlay("a"), ShouldBeNil)
				So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			})
		})
	})

	Convey("Given a critically low discharging battery", t, func() {
		h := newHarness()
		h.signals.battery = mo.Some(env.BatteryInfo{Level: 0.1, Charging: false})
		h.monitor.Refresh()
		defer h.tracker.Stop()

		element := &fakeElement{}
		s := h.add("a", onscreen(0), element)

		Convey("Autoplay is suppressed and mute is forced on the idle surface", func() {
			h.arb.Reconcile()
			So(s.State(), ShouldEqual, surface.StateEligible)
			So(element.playCount(), ShouldEqual, 0)
			So(element.Muted(), ShouldBeTrue)
		})

		Convey("A manual play proceeds but stays muted", func() {
			_, err := h.store.Update(settings.Patch{MuteByDefault: mo.Some(false)})
			So(err, ShouldBeNil)

			So(h.arb.RequestPlay("a"), ShouldBeNil)
			So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			So(element.Muted(), ShouldBeTrue)
		})

		Convey("Charging lifts the suppression", func() {
			h.signals.battery = mo.Some(env.BatteryInfo{Level: 0.1, Charging: true})
			h.monitor.Refresh()
			h.arb.Reconcile()
			So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
		})
	})

	Convey("Given a reduced motion preference", t, func() {
		h := newHarness()
		h.signals.reduced = true
		h.monitor.Refresh()
		defer h.tracker.Stop()

		element := &fakeElement{}
		s := h.add("a", onscreen(0), element)

		Convey("Autoplay is suppressed while the preference is respected", func() {
			h.arb.Reconcile()
			So(s.State(), ShouldEqual, surface.StateEligible)
			So(element.playCount(), ShouldEqual, 0)

			Convey("And disabling the preference restores autoplay", func() {
				_, err := h.store.Update(settings.Patch{RespectReducedMotion: mo.Some(false)})
				So(err, ShouldBeNil)
				h.arb.Reconcile()
				So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
			})
		})
	})
}

func TestPreloadHints(t *testing.T) {
	Convey("Given an offscreen surface inside the preload window", t, func() {
		h := newHarness()
		element := &fakeElement{}
		h.add("ahead", surface.Rect{Top: 700, Left: 0, Width: 200, Height: 100}, element)
		defer h.tracker.Stop()

		Convey("A reconcile pass delivers the configured strategy", func() {
			h.arb.Reconcile()
			So(element.preloadHints(), ShouldResemble, []string{"metadata"})
		})

		Convey("Save-data suppresses hints entirely", func() {
			h.signals.network = mo.Some(env.NetworkInfo{Class: env.Network4G, SaveData: true})
			h.monitor.Refresh()
			h.arb.Reconcile()
			So(element.preloadHints(), ShouldBeEmpty)
		})

		Convey("An auto strategy degrades to metadata on 3g", func() {
			_, err := h.store.Update(settings.Patch{PreloadStrategy: mo.Some(settings.PreloadAuto)})
			So(err, ShouldBeNil)
			h.signals.network = mo.Some(env.NetworkInfo{Class: env.Network3G})
			h.monitor.Refresh()
			h.arb.Reconcile()
			So(element.preloadHints(), ShouldResemble, []string{"metadata"})
		})
	})
}

func TestGlobalMute(t *testing.T) {
	Convey("Given a playing unmuted-by-default surface", t, func() {
		h := newHarness()
		_, err := h.store.Update(settings.Patch{MuteByDefault: mo.Some(false)})
		So(err, ShouldBeNil)
		defer h.tracker.Stop()

		element := &fakeElement{}
		s := h.add("a", onscreen(0), element)
		h.arb.Reconcile()
		So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
		So(element.Muted(), ShouldBeFalse)

		Convey("Global mute propagates to the element immediately", func() {
			h.arb.SetMuted(true)
			So(h.arb.Muted(), ShouldBeTrue)
			So(element.Muted(), ShouldBeTrue)

			Convey("And new play intents stay muted while it holds", func() {
				So(h.arb.RequestPause("a"), ShouldBeNil)
				So(h.arb.RequestPlay("a"), ShouldBeNil)
				So(eventually(func() bool { return s.State() == surface.StatePlaying }), ShouldBeTrue)
				So(element.Muted(), ShouldBeTrue)
			})

			Convey("And global unmute restores the preference on the playing element", func() {
				h.arb.SetMuted(false)
				So(h.arb.Muted(), ShouldBeFalse)
				So(element.Muted(), ShouldBeFalse)

				Convey("Unless mute-by-default still asks for mute", func() {
					_, err := h.store.Update(settings.Patch{MuteByDefault: mo.Some(true)})
					So(err, ShouldBeNil)
					h.arb.SetMuted(true)
					h.arb.SetMuted(false)
					So(element.Muted(), ShouldBeTrue)
				})
			})
		})
	})
}

func TestManualRequests(t *testing.T) {
	Convey("Given a registry without the requested id", t, func() {
		h := newHarness()
		defer h.tracker.Stop()

		Convey("Play and pause both fail with the sentinel", func() {
			So(errors.Is(h.arb.RequestPlay("ghost"), ErrUnknownSurface), ShouldBeTrue)
			So(errors.Is(h.arb.RequestPause("ghost"), ErrUnknownSurface), ShouldBeTrue)
		})
	})

	Convey("Given several playing surfaces", t, func() {
		h := newHarness()
		_, err := h.store.Update(settings.Patch{MaxConcurrentVideos: mo.Some(3)})
		So(err, ShouldBeNil)
		defer h.tracker.Stop()

		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("s%d", i)
			h.add(id, onscreen(i), &fakeElement{})
			So(h.arb.RequestPlay(id), ShouldBeNil)
		}
		So(eventually(func() bool {
			return h.registry.CountState(surface.StatePlaying) == 3
		}), ShouldBeTrue)

		Convey("PauseAll stops every one of them", func() {
			h.arb.PauseAll()
			So(h.registry.CountState(surface.StatePlaying), ShouldEqual, 0)
			So(h.registry.CountState(surface.StatePaused), ShouldEqual, 3)
			So(h.arb.ActiveID(), ShouldEqual, "")
		})

		Convey("A redundant play request is a no-op", func() {
			plays, _, _, _ := h.rec.snapshot()
			before := len(plays)
			So(h.arb.RequestPlay("s0"), ShouldBeNil)
			plays, _, _, _ = h.rec.snapshot()
			So(len(plays), ShouldEqual, before)
		})
	})
}
