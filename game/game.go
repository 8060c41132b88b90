// Package game runs a headless race session: it owns the ECS world holding
// the population, ticks every car, reports telemetry and hands the finished
// population to the evolution controller at each generation boundary.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/components"
	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/evolve"
	"github.com/pthm-cable/conerace/garage"
	"github.com/pthm-cable/conerace/sim"
	"github.com/pthm-cable/conerace/telemetry"
	"github.com/pthm-cable/conerace/track"
)

// GenerationResult is handed to Options.OnGeneration after each boundary.
type GenerationResult struct {
	Generation int
	Stats      telemetry.GenerationStats
	Finished   []car.Snapshot       // the population as it stood at the boundary
	Best       telemetry.HallEntry  // hall of fame entry chosen for the generation
	HasBest    bool                 // false when the hall is disabled or the population was empty
	Bookmarks  []telemetry.Bookmark // milestones detected at this boundary
}

// Options configures a game session.
type Options struct {
	Seed        int64
	Config      *config.Config // nil = config.Cfg()
	Track       *track.Track   // nil = built from Config.Track
	OutputDir   string         // CSV and JSON output; empty disables
	SnapshotDir string         // bookmark snapshots; empty disables
	LogStats    bool
	Parallel    bool // tick large populations on a worker pool

	Garage *garage.Garage        // dice and saved cars for the first generation
	Hall   *telemetry.HallOfFame // loaded hall used to reseed the first generation

	OnGeneration func(GenerationResult)
}

// Game holds the complete session state.
type Game struct {
	world *ecs.World

	entityMapper *ecs.Map3[components.Driver, components.Lineage, components.Progress]
	entityFilter *ecs.Filter3[components.Driver, components.Lineage, components.Progress]

	lineageMap  *ecs.Map1[components.Lineage]
	progressMap *ecs.Map1[components.Progress]

	cfg        *config.Config
	ctx        *sim.Context
	rng        *rand.Rand
	rngSeed    int64
	controller *evolve.Controller

	// Telemetry
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	hall             *telemetry.HallOfFame
	seedHall         *telemetry.HallOfFame
	snapshotDir      string
	logStats         bool
	onGeneration     func(GenerationResult)

	parallel *parallelState

	spectators []*car.Car

	// State
	tick       int32 // ticks into the current generation
	totalTicks int64
	skip       bool
	lastStats  telemetry.GenerationStats
}

// NewGameWithOptions creates a session and spawns the first generation.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	t := opts.Track
	if t == nil {
		var err error
		t, err = track.Build(cfg.Track, cfg.Screen.Width, cfg.Screen.Height)
		if err != nil {
			return nil, fmt.Errorf("building track: %w", err)
		}
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()
	ctx := sim.NewContext(cfg, t)
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		world: world,
		entityMapper: ecs.NewMap3[
			components.Driver,
			components.Lineage,
			components.Progress,
		](world),
		entityFilter: ecs.NewFilter3[
			components.Driver,
			components.Lineage,
			components.Progress,
		](world),
		lineageMap:  ecs.NewMap1[components.Lineage](world),
		progressMap: ecs.NewMap1[components.Progress](world),

		cfg:     cfg,
		ctx:     ctx,
		rng:     rng,
		rngSeed: opts.Seed,

		collector:        telemetry.NewCollector(),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Bookmarks.StagnationGenerations, cfg.Bookmarks.WipeoutFraction, int32(cfg.Derived.GenerationTicks)),
		perfCollector:    telemetry.NewPerfCollector(cfg.Screen.TargetFPS),
		outputManager:    outputManager,
		seedHall:         opts.Hall,
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		onGeneration:     opts.OnGeneration,
	}

	var recorder evolve.Recorder
	if cfg.HallOfFame.Enabled {
		g.hall = telemetry.NewHallOfFame(ctx.MapName(), cfg.HallOfFame.Size, rng)
		recorder = g.hall
	}
	g.controller = evolve.NewController(ctx, rng, recorder)

	if opts.Parallel {
		g.parallel = newParallelState()
	}

	g.spawnInitialPopulation(opts.Garage)

	return g, nil
}

// Update advances the session by one tick, crossing a generation boundary
// when every racing car is dead, the time budget is spent, or a skip was
// requested.
func (g *Game) Update() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDrive)
	g.tick++
	g.totalTicks++
	alive := g.drive()

	g.perfCollector.StartPhase(telemetry.PhaseEvents)
	g.emitEvents()

	limit := int32(g.cfg.Derived.GenerationTicks)
	if alive == 0 || (limit > 0 && g.tick >= limit) || g.skip {
		g.endGeneration()
	}

	g.perfCollector.EndTick()
}

// SkipGeneration ends the current generation on the next Update.
func (g *Game) SkipGeneration() {
	g.skip = true
}

// Generation returns the generation currently racing, starting at 0.
func (g *Game) Generation() int {
	return g.controller.Generation()
}

// Tick returns the number of ticks into the current generation.
func (g *Game) Tick() int32 {
	return g.tick
}

// TotalTicks returns the number of ticks since the session started.
func (g *Game) TotalTicks() int64 {
	return g.totalTicks
}

// Context returns the simulation context shared by every car.
func (g *Game) Context() *sim.Context {
	return g.ctx
}

// HallOfFame returns the hall recorded during this session, nil if disabled.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hall
}

// LastStats returns the stats of the most recently finished generation.
func (g *Game) LastStats() telemetry.GenerationStats {
	return g.lastStats
}

// BestScore returns the best score reached by any car this session.
func (g *Game) BestScore() float64 {
	best := g.bookmarkDetector.BestEver()
	for _, c := range g.racers() {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// Cars returns every car in population order: view-only cars first, then
// the racers with the leader last.
func (g *Game) Cars() []*car.Car {
	type slotted struct {
		slot int
		car  *car.Car
	}
	var all []slotted

	query := g.entityFilter.Query()
	for query.Next() {
		driver, lineage, _ := query.Get()
		all = append(all, slotted{slot: lineage.Slot, car: driver.Car})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].slot < all[j].slot })

	out := make([]*car.Car, len(all))
	for i, s := range all {
		out[i] = s.car
	}
	return out
}

// racers returns the evolvable population in order.
func (g *Game) racers() []*car.Car {
	all := g.Cars()
	out := all[:0:0]
	for _, c := range all {
		if !c.ViewOnly {
			out = append(out, c)
		}
	}
	return out
}

// Snapshots returns the per-car state for the current tick.
func (g *Game) Snapshots() []car.Snapshot {
	cars := g.Cars()
	out := make([]car.Snapshot, len(cars))
	for i, c := range cars {
		out[i] = c.Snapshot()
	}
	return out
}

// Close stops workers, writes the hall of fame and closes output files.
func (g *Game) Close() error {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
	if err := g.outputManager.WriteHallOfFame(g.hall); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return g.outputManager.Close()
}
