package telemetry

import (
	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

// Collector accumulates events during a generation and produces
// GenerationStats at its boundary.
type Collector struct {
	spawned           int
	deathsWall        int
	deathsOutOfBounds int
	wrongWay          int
	checkpoints       int
	laps              int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record counts an event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		c.spawned++
	case EventDeath:
		switch ev.Cause {
		case car.CauseOutOfBounds:
			c.deathsOutOfBounds++
		default:
			c.deathsWall++
		}
	case EventCheckpoint:
		c.checkpoints++
	case EventLap:
		c.laps++
	case EventWrongWay:
		c.wrongWay++
	}
}

// Flush produces the stats for the finished generation and resets counters.
// cars is the population as it stood at the boundary, before evolving;
// view-only cars are ignored.
func (c *Collector) Flush(generation int, ticks int32, trackName string, skipped bool, cars []*car.Car) GenerationStats {
	scores := make([]float64, 0, len(cars))
	seen := make(map[genome.Descriptor]struct{}, len(cars))
	var timeouts int
	var ticksAlive float64
	var best *car.Car

	for _, cr := range cars {
		if cr.ViewOnly {
			continue
		}
		scores = append(scores, cr.Score)
		seen[cr.Genome] = struct{}{}
		ticksAlive += float64(cr.TicksPlayed)
		if !cr.Dead {
			timeouts++
		}
		if best == nil || cr.Score > best.Score {
			best = cr
		}
	}

	mean, std, p10, p50, p90 := ComputeScoreStats(scores)

	stats := GenerationStats{
		Generation: generation,
		Track:      trackName,
		Ticks:      ticks,
		Skipped:    skipped,

		Population: len(scores),
		Spawned:    c.spawned,

		DeathsWall:        c.deathsWall,
		DeathsOutOfBounds: c.deathsOutOfBounds,
		Timeouts:          timeouts,
		WrongWay:          c.wrongWay,

		Checkpoints: c.checkpoints,
		Laps:        c.laps,

		ScoreMean: mean,
		ScoreStd:  std,
		ScoreP10:  p10,
		ScoreP50:  p50,
		ScoreP90:  p90,

		UniqueGenomes: len(seen),
	}
	if len(scores) > 0 {
		stats.MeanTicksAlive = ticksAlive / float64(len(scores))
	}
	if best != nil {
		stats.ScoreMax = best.Score
		stats.BestGenome = best.Genome.Key()
		stats.BestCarID = best.ID
	}

	*c = Collector{}
	return stats
}
