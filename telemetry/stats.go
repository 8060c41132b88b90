package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarises one finished generation.
type GenerationStats struct {
	Generation int    `csv:"generation"`
	Track      string `csv:"track"`
	Ticks      int32  `csv:"ticks"`
	Skipped    bool   `csv:"skipped"`

	Population int `csv:"population"`
	Spawned    int `csv:"spawned"`

	// How cars finished
	DeathsWall        int `csv:"deaths_wall"`
	DeathsOutOfBounds int `csv:"deaths_out_of_bounds"`
	Timeouts          int `csv:"timeouts"` // still alive at the boundary
	WrongWay          int `csv:"wrong_way"`

	// Progress
	Checkpoints    int     `csv:"checkpoints"`
	Laps           int     `csv:"laps"`
	MeanTicksAlive float64 `csv:"mean_ticks_alive"`

	// Score distribution
	ScoreMax  float64 `csv:"score_max"`
	ScoreMean float64 `csv:"score_mean"`
	ScoreStd  float64 `csv:"score_std"`
	ScoreP10  float64 `csv:"score_p10"`
	ScoreP50  float64 `csv:"score_p50"`
	ScoreP90  float64 `csv:"score_p90"`

	// Diversity
	UniqueGenomes int    `csv:"unique_genomes"`
	BestGenome    string `csv:"best_genome"`
	BestCarID     uint32 `csv:"best_car"`
}

// ComputeScoreStats returns mean, standard deviation and the 10th, 50th and
// 90th percentiles of values. All results are 0 for an empty slice.
func ComputeScoreStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n > 1 {
		mean, std = stat.MeanStdDev(sorted, nil)
	} else {
		mean = sorted[0]
	}

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.String("track", s.Track),
		slog.Int("ticks", int(s.Ticks)),
		slog.Bool("skipped", s.Skipped),
		slog.Int("population", s.Population),
		slog.Int("deaths_wall", s.DeathsWall),
		slog.Int("deaths_oob", s.DeathsOutOfBounds),
		slog.Int("timeouts", s.Timeouts),
		slog.Int("wrong_way", s.WrongWay),
		slog.Int("checkpoints", s.Checkpoints),
		slog.Int("laps", s.Laps),
		slog.Float64("score_max", s.ScoreMax),
		slog.Float64("score_mean", s.ScoreMean),
		slog.Float64("score_p50", s.ScoreP50),
		slog.Int("unique_genomes", s.UniqueGenomes),
		slog.String("best_genome", s.BestGenome),
	)
}

// LogStats logs the generation summary.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
