package game

import (
	"log/slog"

	"github.com/pthm-cable/conerace/garage"
)

// logGeneration logs the summary of a finished generation.
func (g *Game) logGeneration(r GenerationResult) {
	r.Stats.LogStats()

	var dice, seeded int
	query := g.entityFilter.Query()
	for query.Next() {
		driver, lineage, _ := query.Get()
		if driver.Car.ViewOnly {
			continue
		}
		if lineage.Origin == garage.OriginDice {
			dice++
		}
		if lineage.Seeded {
			seeded++
		}
	}

	attrs := []any{
		"generation", r.Generation,
		"dice_cars", dice,
		"seeded_cars", seeded,
		"lineages", g.lifetimeTracker.ActiveLineageCount(),
	}
	if r.HasBest {
		attrs = append(attrs,
			"hall_genome", r.Best.Genome.Key(),
			"hall_score", r.Best.Score,
		)
	}
	slog.Info("generation", attrs...)
}

// logPerf logs the rolling tick timing.
func (g *Game) logPerf() {
	slog.Info("perf",
		"generation", g.controller.Generation(),
		"total_ticks", g.totalTicks,
		"stats", g.perfCollector.Stats(),
	)
}
