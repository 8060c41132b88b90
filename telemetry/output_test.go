package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/genome"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Every method is safe on nil.
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteHallOfFame(nil); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has a dir")
	}
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for g := 0; g < 3; g++ {
		if err := om.WriteGeneration(GenerationStats{Generation: g, Track: "oval", ScoreMax: float64(g * 2)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkNewRecord, Generation: 2, Description: "best"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 2, 100); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	hof := NewHallOfFame("oval", 5, rand.New(rand.NewSource(1)))
	hof.Record(0, hallCar(1, 3, 3))
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := ReadGenerations(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[2].ScoreMax != 4 || rows[1].Track != "oval" {
		t.Errorf("rows = %+v", rows)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("bookmarks.csv has %d lines, want header + 1", len(lines))
	}

	for _, name := range []string{"perf.csv", "config.yaml", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	lt := NewLifetimeTracker()
	c := hallCar(5, 12, 3)
	c.ParentID = 2
	c.BestScores = map[string]float64{"oval": 12}
	c.Genome = genome.New(1, 2, 3, 4, 5, 6)
	lt.Register(c, 1)

	snap := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		Track:      "oval",
		Generation: 7,
		Cars:       []CarState{NewCarState(c, lt)},
		Bookmark:   &Bookmark{Type: BookmarkNewRecord, Generation: 7},
	}

	dir := t.TempDir()
	path, err := SaveSnapshot(snap, dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "snapshot_gen00007_new_record.json" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RNGSeed != 42 || loaded.Generation != 7 || len(loaded.Cars) != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
	got := loaded.Cars[0]
	if got.ID != 5 || got.ParentID != 2 || got.Score != 12 || got.Genome != "123-456" {
		t.Errorf("car = %+v", got)
	}
	if len(got.Genes) != genome.NumGenes || got.Genes[5] != 6 {
		t.Errorf("genes = %v", got.Genes)
	}
	if got.BestScores["oval"] != 12 || got.Lifetime == nil || got.Lifetime.BirthGeneration != 1 {
		t.Errorf("history = %+v lifetime = %+v", got.BestScores, got.Lifetime)
	}
}
