package coordinator

import "github.com/vidpulse/vidpulse/surface"

// Stats is a point-in-time summary of the coordinator's state, useful for
// dashboards and the simulator transcript.
type Stats struct {
	Surfaces    map[surface.State]int
	Registered  int
	ActiveID    string
	IsScrolling bool
	Velocity    float64
}

// Stats assembles a snapshot of surface counts and scroll condition.
func (c *Coordinator) Stats() Stats {
	counts := make(map[surface.State]int)
	surfaces := c.registry.List()
	for _, s := range surfaces {
		counts[s.State()]++
	}

	scroll := c.tracker.ScrollState()
	return Stats{
		Surfaces:    counts,
		Registered:  len(surfaces),
		ActiveID:    c.arbiter.ActiveID(),
		IsScrolling: scroll.IsScrolling,
		Velocity:    scroll.Velocity,
	}
}
