// Package sim bundles everything a car tick and a generation boundary read:
// the track, its layout and the scalar tunables. It replaces ambient globals;
// callers build one Context per simulation and pass it explicitly.
package sim

import (
	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/genome"
	"github.com/pthm-cable/conerace/track"
)

// Context is shared read-only by every car during a tick.
type Context struct {
	Track   *track.Track
	Car     config.CarConfig
	Genetic config.GeneticConfig
	Scale   genome.Scale

	// Speed band limits, precomputed from Car.MaxSpeed.
	SlowLimit float64
	FastLimit float64
}

// NewContext builds a context from a loaded config and a built track.
func NewContext(cfg *config.Config, t *track.Track) *Context {
	return &Context{
		Track:   t,
		Car:     cfg.Car,
		Genetic: cfg.Genetic,
		Scale: genome.Scale{
			Length: cfg.Track.LengthConeMultiplier,
			Width:  cfg.Track.WidthConeMultiplier,
		},
		SlowLimit: cfg.Derived.SlowBandLimit,
		FastLimit: cfg.Derived.FastBandLimit,
	}
}

// Band returns the speed band a car travelling at speed falls in.
func (c *Context) Band(speed float64) genome.Band {
	switch {
	case speed < c.SlowLimit:
		return genome.BandSlow
	case speed < c.FastLimit:
		return genome.BandMedium
	default:
		return genome.BandFast
	}
}

// MapName identifies the track in per-map score histories.
func (c *Context) MapName() string {
	if c.Track == nil {
		return ""
	}
	return c.Track.Name
}
