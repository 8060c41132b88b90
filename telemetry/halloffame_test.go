package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

func hallCar(id uint32, score float64, g int) *car.Car {
	return &car.Car{ID: id, Score: score, Genome: genome.New(g, g, g, g, g, g)}
}

func TestHallOfFame_RankingAndCapacity(t *testing.T) {
	hof := NewHallOfFame("oval", 3, rand.New(rand.NewSource(1)))

	for gen, score := range []float64{5, 1, 9, 7, 3} {
		hof.Record(gen, hallCar(uint32(gen+1), score, gen%6+1))
	}

	if hof.Generations() != 5 {
		t.Errorf("generations = %d, want 5", hof.Generations())
	}
	if hof.Size() != 3 {
		t.Fatalf("ranked size = %d, want 3", hof.Size())
	}
	ranked := hof.Ranked()
	want := []float64{9, 7, 5}
	for i, e := range ranked {
		if e.Score != want[i] {
			t.Errorf("rank %d score = %v, want %v", i, e.Score, want[i])
		}
	}
	if hof.TopScore() != 9 {
		t.Errorf("top = %v", hof.TopScore())
	}

	e, ok := hof.Generation(1)
	if !ok || e.Score != 1 || e.CarID != 2 {
		t.Errorf("generation 1 entry = %+v, %v", e, ok)
	}
}

func TestHallOfFame_RecordReplacesGeneration(t *testing.T) {
	hof := NewHallOfFame("oval", 5, rand.New(rand.NewSource(1)))
	hof.Record(0, hallCar(1, 4, 1))
	hof.Record(0, hallCar(2, 6, 2))

	if hof.Size() != 1 || hof.Generations() != 1 {
		t.Fatalf("size=%d generations=%d, want 1/1", hof.Size(), hof.Generations())
	}
	if e, _ := hof.Generation(0); e.CarID != 2 {
		t.Errorf("generation 0 holds car %d, want 2", e.CarID)
	}
}

func TestHallOfFame_Sample(t *testing.T) {
	hof := NewHallOfFame("oval", 5, rand.New(rand.NewSource(3)))
	if _, ok := hof.Sample(); ok {
		t.Error("empty hall should not sample")
	}

	hof.Record(0, hallCar(1, 2, 2))
	hof.Record(1, hallCar(2, 8, 5))
	for i := 0; i < 20; i++ {
		d, ok := hof.Sample()
		if !ok {
			t.Fatal("sample failed")
		}
		if d.Genes[0] != 2 && d.Genes[0] != 5 {
			t.Fatalf("sampled unknown genome %v", d)
		}
	}
}

func TestHallOfFame_FileRoundTrip(t *testing.T) {
	hof := NewHallOfFame("oval", 10, rand.New(rand.NewSource(1)))
	hof.Record(0, hallCar(1, 3, 2))
	hof.Record(1, hallCar(7, 11, 4))

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHallOfFameFromFile(path, 10, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Generations() != 2 || loaded.TopScore() != 11 {
		t.Errorf("loaded generations=%d top=%v", loaded.Generations(), loaded.TopScore())
	}
	e, ok := loaded.Generation(1)
	if !ok || e.CarID != 7 || !e.Genome.Equal(genome.New(4, 4, 4, 4, 4, 4)) {
		t.Errorf("generation 1 = %+v", e)
	}
}

func TestLoadHallOfFame_ClampsAndErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall.json")
	raw := `{"track":"x","generations":{"2":{"car_id":1,"score":5,"genome":[0,9,3,3,3,3]},"bad":{"score":1}}}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	hof, err := LoadHallOfFameFromFile(path, 5, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := hof.Generation(2)
	if !ok || !e.Genome.Equal(genome.New(1, 6, 3, 3, 3, 3)) {
		t.Errorf("clamped entry = %+v", e)
	}
	if hof.Generations() != 1 {
		t.Errorf("bad key should be skipped, got %d generations", hof.Generations())
	}

	if _, err := LoadHallOfFameFromFile(filepath.Join(dir, "missing.json"), 5, nil); err == nil {
		t.Error("expected error for missing file")
	}
}
