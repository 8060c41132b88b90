package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/components"
	"github.com/pthm-cable/conerace/garage"
	"github.com/pthm-cable/conerace/telemetry"
)

// spawnInitialPopulation fills the first generation: garage racers first,
// then reseeds from a loaded hall of fame, then random cars up to the
// population size. Garage spectators take the slots ahead of the racers so
// the leader stays last.
func (g *Game) spawnInitialPopulation(gar *garage.Garage) {
	n := g.cfg.Genetic.PopulationSize
	spectators := gar.Spectators()
	slot := len(spectators)

	for _, s := range gar.Racers() {
		if slot >= n {
			break
		}
		c := g.controller.NewCar(s.Descriptor)
		copyScores(c, s.BestScores)
		g.spawnCar(c, components.Lineage{Slot: slot, Origin: s.Origin, Seeded: true})
		slot++
	}

	if g.seedHall != nil {
		for i := 0; i < g.cfg.HallOfFame.ReseedCount && slot < n; i++ {
			d, ok := g.seedHall.Sample()
			if !ok {
				break
			}
			c := g.controller.NewCar(d)
			g.spawnCar(c, components.Lineage{Slot: slot, Origin: garage.OriginGenetic, Seeded: true})
			slot++
		}
	}

	for _, c := range g.controller.Random(n - slot) {
		g.spawnCar(c, components.Lineage{Slot: slot, Origin: garage.OriginGenetic})
		slot++
	}

	for i, s := range spectators {
		c := g.controller.NewCar(s.Descriptor)
		c.ViewOnly = true
		copyScores(c, s.BestScores)
		g.spectators = append(g.spectators, c)
		g.spawnCar(c, components.Lineage{Slot: i, Origin: s.Origin, Seeded: true})
	}
}

// spawnCar creates the entity for a car. Racing cars are announced to the
// collector and the lifetime tracker.
func (g *Game) spawnCar(c *car.Car, lineage components.Lineage) ecs.Entity {
	lineage.ParentID = c.ParentID
	lineage.Generation = g.controller.Generation()

	driver := components.Driver{Car: c}
	progress := components.Progress{}
	entity := g.entityMapper.NewEntity(&driver, &lineage, &progress)

	if !c.ViewOnly {
		g.collector.Record(telemetry.NewSpawnEvent(g.tick, c.ID, c.ParentID))
		g.lifetimeTracker.Register(c, lineage.Generation)
	}
	return entity
}

// replacePopulation swaps the finished population for next. Entities of
// surviving elites are kept and renumbered; the rest are removed and the
// new cars spawned. Spectators go back to the start line ahead of the racers.
func (g *Game) replacePopulation(next []*car.Car) {
	keep := make(map[*car.Car]struct{}, len(next)+len(g.spectators))
	for _, c := range next {
		keep[c] = struct{}{}
	}
	for _, c := range g.spectators {
		keep[c] = struct{}{}
	}

	// First pass: collect entities (must complete before modifying)
	existing := make(map[*car.Car]ecs.Entity, len(next))
	var toRemove []ecs.Entity

	query := g.entityFilter.Query()
	for query.Next() {
		entity := query.Entity()
		driver, _, _ := query.Get()

		if _, ok := keep[driver.Car]; ok {
			existing[driver.Car] = entity
		} else {
			toRemove = append(toRemove, entity)
			g.lifetimeTracker.Remove(driver.Car.ID)
		}
	}

	// Second pass: remove
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}

	slot := 0
	place := func(c *car.Car) {
		if e, ok := existing[c]; ok {
			g.lineageMap.Get(e).Slot = slot
			*g.progressMap.Get(e) = components.Progress{}
		} else {
			g.spawnCar(c, components.Lineage{Slot: slot, Origin: garage.OriginGenetic})
		}
		slot++
	}

	for _, c := range g.spectators {
		c.Reset(g.ctx)
		place(c)
	}
	for _, c := range next {
		place(c)
	}
}

// endGeneration closes the running generation and starts the next one.
func (g *Game) endGeneration() {
	gen := g.controller.Generation()
	finished := g.racers()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)

	stats := g.collector.Flush(gen, g.tick, g.ctx.MapName(), g.skip, finished)
	for _, c := range finished {
		g.lifetimeTracker.EndGeneration(c)
	}

	snapshots := make([]car.Snapshot, len(finished))
	for i, c := range finished {
		snapshots[i] = c.Snapshot()
	}

	bookmarks := g.flushTelemetry(stats, finished)

	g.perfCollector.StartPhase(telemetry.PhaseEvolve)

	next := g.controller.Evolve(finished)

	// Evolve already moved the generation on, new cars belong to the next one.
	g.tick = 0
	g.skip = false
	g.replacePopulation(next)

	result := GenerationResult{
		Generation: gen,
		Stats:      stats,
		Finished:   snapshots,
		Bookmarks:  bookmarks,
	}
	if g.hall != nil {
		result.Best, result.HasBest = g.hall.Generation(gen)
	}
	g.lastStats = stats

	if g.logStats {
		g.logGeneration(result)
	}
	if interval := g.cfg.Telemetry.PerfLogInterval; interval > 0 && (gen+1)%interval == 0 {
		g.logPerf()
	}

	if g.onGeneration != nil {
		g.onGeneration(result)
	}
}

func copyScores(c *car.Car, scores map[string]float64) {
	for k, v := range scores {
		c.BestScores[k] = v
	}
}
