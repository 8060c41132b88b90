package car

import (
	"math"

	"github.com/pthm-cable/conerace/sim"
	"github.com/pthm-cable/conerace/systems"
	"github.com/pthm-cable/conerace/track"
)

// defaultBackoffSteps bounds each direction of the post-impact walk when the
// config leaves it unset.
const defaultBackoffSteps = 20

// collide kills the car when it leaves the window or its footprint touches a
// wall. On impact the car is walked backward, then forward, one unit at a
// time until it clears the wall, so that it comes to rest beside it.
func (c *Car) collide(ctx *sim.Context) {
	t := ctx.Track
	px, py := systems.Pixel(c.Pos)
	if !t.InBounds(px, py) {
		c.die(CauseOutOfBounds)
		return
	}
	if !c.overlapsAt(ctx, c.Pos) {
		return
	}

	steps := ctx.Car.BackoffSteps
	if steps <= 0 {
		steps = defaultBackoffSteps
	}

	impact := c.Pos
	if p, ok := c.backOff(ctx, impact, c.Heading+180, steps); ok {
		c.Pos = p
	} else if p, ok := c.backOff(ctx, impact, c.Heading, steps); ok {
		c.Pos = p
	} else {
		c.Pos = impact
	}
	c.Bounds = systems.RotatedBounds(c.Pos, c.Heading, ctx.Car.Width, ctx.Car.Height)
	c.die(CauseWall)
}

func (c *Car) backOff(ctx *sim.Context, from track.Point, heading float64, steps int) (track.Point, bool) {
	for i := 1; i <= steps; i++ {
		p := systems.Advance(from, heading, float64(i))
		if !c.overlapsAt(ctx, p) {
			return p, true
		}
	}
	return from, false
}

func (c *Car) overlapsAt(ctx *sim.Context, p track.Point) bool {
	return systems.Overlaps(ctx.Track, p, c.Heading, ctx.Car.Width, ctx.Car.Height)
}

func (c *Car) die(cause Cause) {
	c.Dead = true
	c.Cause = cause
}

// captureCheckpoints scores every consecutive checkpoint the car is sitting
// on. A single tick can capture at most one full lap.
func (c *Car) captureCheckpoints(t *track.Track) {
	n := len(t.Checkpoints)
	for i := 0; i < n; i++ {
		cp := t.Checkpoints[c.NextCheckpoint]
		if math.Abs(c.Pos.X-cp.X) > t.Radius || math.Abs(c.Pos.Y-cp.Y) > t.Radius {
			return
		}
		c.Score++
		c.TicksSinceCheckpoint = 0
		c.NextCheckpoint++
		if c.NextCheckpoint == n {
			c.NextCheckpoint = 0
			c.Laps++
		}
	}
}
