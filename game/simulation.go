package game

import (
	"github.com/pthm-cable/conerace/telemetry"
)

// drive ticks every car once, in population order, and returns how many
// racing cars are still alive. View-only cars drive too but never keep a
// generation running.
func (g *Game) drive() int {
	if g.parallel != nil {
		return g.driveParallel()
	}

	alive := 0
	for _, c := range g.Cars() {
		c.Tick(g.ctx)

		if !c.Dead && !c.ViewOnly {
			alive++
		}
	}
	return alive
}

// emitEvents compares each car with its Progress from the previous tick and
// reports what changed to the collector and the lifetime tracker.
func (g *Game) emitEvents() {
	n := len(g.ctx.Track.Checkpoints)

	query := g.entityFilter.Query()
	for query.Next() {
		driver, _, progress := query.Get()
		c := driver.Car
		if c.ViewOnly {
			continue
		}

		captured := c.Laps*n + c.NextCheckpoint
		for i := progress.Checkpoints; i < captured; i++ {
			g.collector.Record(telemetry.NewCheckpointEvent(g.tick, c.ID, i%n))
			g.lifetimeTracker.RecordCheckpoint(c.ID)
		}
		progress.Checkpoints = captured

		for i := progress.Laps; i < c.Laps; i++ {
			g.collector.Record(telemetry.NewLapEvent(g.tick, c.ID))
			g.lifetimeTracker.RecordLap(c.ID)
		}
		progress.Laps = c.Laps

		if c.Reversed && !progress.Reversed {
			g.collector.Record(telemetry.NewWrongWayEvent(g.tick, c.ID))
		}
		progress.Reversed = c.Reversed

		if c.Dead && !progress.Dead {
			g.collector.Record(telemetry.NewDeathEvent(g.tick, c.ID, c.Cause))
		}
		progress.Dead = c.Dead
	}
}
