package game

import (
	"log/slog"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/telemetry"
)

// flushTelemetry writes the finished generation's stats and returns the
// bookmarks it triggered. Each bookmark saves a snapshot when enabled.
func (g *Game) flushTelemetry(stats telemetry.GenerationStats, finished []*car.Car) []telemetry.Bookmark {
	if err := g.outputManager.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
	if err := g.outputManager.WritePerf(g.perfCollector.Stats(), stats.Generation, stats.Ticks); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}

		if g.snapshotDir != "" {
			g.saveSnapshot(&bm, stats, finished)
		}
	}
	return bookmarks
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark, stats telemetry.GenerationStats, finished []*car.Car) {
	snapshot := g.createSnapshot(bookmark, stats, finished)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "generation", snapshot.Generation)
}

// createSnapshot builds a snapshot of the finished population.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark, stats telemetry.GenerationStats, finished []*car.Car) *telemetry.Snapshot {
	t := g.ctx.Track
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.rngSeed,
		Track:       g.ctx.MapName(),
		TrackWidth:  t.Width,
		TrackHeight: t.Height,
		Generation:  stats.Generation,
		Tick:        stats.Ticks,
		Stats:       &stats,
		Bookmark:    bookmark,
	}

	snapshot.Cars = make([]telemetry.CarState, 0, len(finished))
	for _, c := range finished {
		snapshot.Cars = append(snapshot.Cars, telemetry.NewCarState(c, g.lifetimeTracker))
	}
	return snapshot
}
