package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/game"
	"github.com/pthm-cable/conerace/garage"
	"github.com/pthm-cable/conerace/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	garagePath := flag.String("garage", "", "Garage YAML with dice and saved cars for the first generation")
	hallPath := flag.String("hall", "", "hall_of_fame.json from an earlier run to reseed from")
	logStats := flag.Bool("log-stats", false, "Output generation stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	parallel := flag.Bool("parallel", false, "Tick large populations on a worker pool")
	saveGarage := flag.String("save-garage", "", "Write the final population to this garage YAML on exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		Parallel:    *parallel,
	}

	if *garagePath != "" {
		g, err := garage.Load(*garagePath)
		if err != nil {
			slog.Error("failed to load garage", "error", err)
			os.Exit(1)
		}
		opts.Garage = g
	}

	if *hallPath != "" {
		hof, err := telemetry.LoadHallOfFameFromFile(*hallPath, cfg.HallOfFame.Size, rand.New(rand.NewSource(rngSeed)))
		if err != nil {
			slog.Error("failed to load hall of fame", "error", err)
			os.Exit(1)
		}
		opts.Hall = hof
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("starting headless race",
		"seed", rngSeed,
		"track", g.Context().MapName(),
		"population", cfg.Genetic.PopulationSize,
		"generation_ticks", cfg.Derived.GenerationTicks,
		"max_generations", *maxGenerations,
	)

	for *maxGenerations <= 0 || g.Generation() < *maxGenerations {
		g.Update()
	}
	slog.Info("max generations reached", "generation", g.Generation(), "best_score", g.BestScore())

	if *saveGarage != "" {
		out := &garage.Garage{}
		for _, c := range g.Cars() {
			out.Add(garage.FromCar(c, ""))
		}
		if err := out.Save(*saveGarage); err != nil {
			slog.Error("failed to save garage", "error", err)
		}
	}

	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
