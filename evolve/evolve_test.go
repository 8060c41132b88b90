package evolve

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/genome"
	"github.com/pthm-cable/conerace/sim"
	"github.com/pthm-cable/conerace/track"
)

type recorded struct {
	generation int
	id         uint32
	score      float64
	genome     genome.Descriptor
}

type fakeHall struct {
	entries []recorded
}

func (h *fakeHall) Record(generation int, c *car.Car) {
	h.entries = append(h.entries, recorded{generation, c.ID, c.Score, c.Genome})
}

func testContext(popSize int, kept float64) *sim.Context {
	cfg := config.Default()
	cfg.Genetic.PopulationSize = popSize
	cfg.Genetic.ProportionKept = kept
	tr := track.New("evolve", 400, 400)
	tr.Start = track.Point{X: 200, Y: 200}
	return sim.NewContext(cfg, tr)
}

// distinctPopulation builds n cars with distinct descriptors and the given
// scores (cycled when shorter than n).
func distinctPopulation(ctl *Controller, n int, scores []float64) []*car.Car {
	pop := make([]*car.Car, n)
	for i := range pop {
		d := genome.New(1+i%6, 1+(i/6)%6, 1+(i/36)%6, 3, 3, 3)
		pop[i] = ctl.NewCar(d)
		if len(scores) > 0 {
			pop[i].Score = scores[i%len(scores)]
		}
	}
	return pop
}

func countDuplicates(pop []*car.Car) int {
	seen := make(map[genome.Descriptor]bool)
	dups := 0
	for _, c := range pop {
		if seen[c.Genome] {
			dups++
		}
		seen[c.Genome] = true
	}
	return dups
}

func TestEliteCount(t *testing.T) {
	tests := []struct {
		kept     float64
		n, avail int
		want     int
	}{
		{0.5, 4, 4, 2},
		{0.2, 20, 20, 4},
		{0, 20, 20, 1},
		{0.01, 20, 20, 1},
		{1.5, 10, 10, 10},
		{0.5, 10, 3, 3},
	}
	for _, tt := range tests {
		if got := EliteCount(tt.kept, tt.n, tt.avail); got != tt.want {
			t.Errorf("EliteCount(%v, %d, %d) = %d, want %d", tt.kept, tt.n, tt.avail, got, tt.want)
		}
	}
}

func TestEvolveSizeAndUniqueness(t *testing.T) {
	ctx := testContext(20, 0.2)
	ctl := NewController(ctx, rand.New(rand.NewSource(1)), nil)

	pop := distinctPopulation(ctl, 20, []float64{5, 1, 0, 12, 3})
	for gen := 0; gen < 10; gen++ {
		pop = ctl.Evolve(pop)
		if len(pop) != 20 {
			t.Fatalf("generation %d: size %d, want 20", gen, len(pop))
		}
		if d := countDuplicates(pop); d != 0 {
			t.Errorf("generation %d: %d duplicate descriptors", gen, d)
		}
		for i, c := range pop {
			c.Score = float64((i * 7) % 11)
		}
	}
	if ctl.Generation() != 10 {
		t.Errorf("Generation() = %d, want 10", ctl.Generation())
	}
}

func TestEvolveKeepsElites(t *testing.T) {
	ctx := testContext(4, 0.5)
	hall := &fakeHall{}
	ctl := NewController(ctx, rand.New(rand.NewSource(7)), hall)

	pop := distinctPopulation(ctl, 4, []float64{10, 40, 20, 30})
	first, second := pop[1], pop[3] // scores 40 and 30
	firstGenome, secondGenome := first.Genome, second.Genome

	next := ctl.Evolve(pop)
	if len(next) != 4 {
		t.Fatalf("size %d, want 4", len(next))
	}
	if next[0] != second {
		t.Errorf("second elite should lead the list")
	}
	if next[3] != first || !first.Leader {
		t.Errorf("best elite should be last and flagged leader")
	}
	if !first.Genome.Equal(firstGenome) || !second.Genome.Equal(secondGenome) {
		t.Errorf("elite descriptors were modified")
	}
	for _, e := range []*car.Car{first, second} {
		if e.Score != 0 || e.Dead {
			t.Errorf("elite %d not reset: score=%v dead=%v", e.ID, e.Score, e.Dead)
		}
	}
	for _, c := range next[1:3] {
		if c.ParentID != first.ID && c.ParentID != second.ID {
			t.Errorf("child %d has parent %d, not an elite", c.ID, c.ParentID)
		}
	}

	if len(hall.entries) != 1 {
		t.Fatalf("hall recorded %d entries, want 1", len(hall.entries))
	}
	if e := hall.entries[0]; e.generation != 0 || e.id != first.ID || e.score != 40 {
		t.Errorf("hall entry = %+v, want generation 0 car %d score 40", e, first.ID)
	}
}

func TestEvolveZeroScoresTwice(t *testing.T) {
	ctx := testContext(6, 0.5)
	ctl := NewController(ctx, rand.New(rand.NewSource(3)), nil)

	pop := distinctPopulation(ctl, 6, nil)
	pop = ctl.Evolve(pop)
	pop = ctl.Evolve(pop)
	if len(pop) != 6 {
		t.Fatalf("size %d, want 6", len(pop))
	}
}

func TestEvolveEmptyPopulation(t *testing.T) {
	ctx := testContext(5, 0.2)
	ctl := NewController(ctx, rand.New(rand.NewSource(4)), nil)

	tests := []struct {
		name string
		pop  []*car.Car
	}{
		{"nil", nil},
		{"view only", func() []*car.Car {
			pop := distinctPopulation(ctl, 3, []float64{9})
			for _, c := range pop {
				c.ViewOnly = true
			}
			return pop
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := ctl.Evolve(tt.pop)
			if len(next) != 5 {
				t.Fatalf("size %d, want 5", len(next))
			}
			for _, c := range next {
				if c.ViewOnly {
					t.Error("view-only car carried into evolved population")
				}
				for _, g := range c.Genome.Genes {
					if g < genome.MinGene || g > genome.MaxGene {
						t.Errorf("gene %d out of range", g)
					}
				}
			}
		})
	}
}

func TestEvolveDropsViewOnlyCars(t *testing.T) {
	ctx := testContext(8, 0.25)
	ctl := NewController(ctx, rand.New(rand.NewSource(5)), nil)

	pop := distinctPopulation(ctl, 10, []float64{1, 2, 3, 4, 5, 6, 7, 8, 100, 200})
	pop[8].ViewOnly = true
	pop[9].ViewOnly = true

	next := ctl.Evolve(pop)
	if len(next) != 8 {
		t.Fatalf("size %d, want 8", len(next))
	}
	for _, c := range next {
		if c == pop[8] || c == pop[9] {
			t.Fatal("view-only car survived evolution")
		}
	}
	if next[len(next)-1] != pop[7] {
		t.Error("best evolvable car should lead")
	}
}

func TestEvolveFullCrossover(t *testing.T) {
	ctx := testContext(12, 0.25)
	ctx.Genetic.ChanceCrossover = 1
	ctl := NewController(ctx, rand.New(rand.NewSource(11)), nil)

	pop := distinctPopulation(ctl, 12, []float64{3, 8, 1})
	for range 5 {
		pop = ctl.Evolve(pop)
		if len(pop) != 12 {
			t.Fatalf("size %d, want 12", len(pop))
		}
		if d := countDuplicates(pop); d != 0 {
			t.Fatalf("%d duplicates after crossover", d)
		}
	}
}

func TestMutateWithoutChanceTerminates(t *testing.T) {
	ctx := testContext(4, 0.5)
	ctx.Genetic.ChanceMutation = 0
	ctl := NewController(ctx, rand.New(rand.NewSource(2)), nil)

	parent := genome.New(2, 2, 2, 2, 2, 2)
	got := ctl.mutate(parent, []genome.Descriptor{parent})
	if !got.Equal(parent) {
		t.Errorf("mutate with zero chance changed genes: %v", got)
	}
}

func TestMutateAvoidsTaken(t *testing.T) {
	ctx := testContext(4, 0.5)
	ctx.Genetic.ChanceMutation = 1
	ctl := NewController(ctx, rand.New(rand.NewSource(9)), nil)

	parent := genome.New(3, 3, 3, 3, 3, 3)
	taken := []genome.Descriptor{parent}
	for range 30 {
		d := ctl.mutate(parent, taken)
		if contains(taken, d) {
			t.Fatalf("mutate returned taken descriptor %v", d)
		}
		taken = append(taken, d)
	}
}

func TestWheel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mk := func(scores ...float64) []*car.Car {
		out := make([]*car.Car, len(scores))
		for i, s := range scores {
			out[i] = &car.Car{Score: s}
		}
		return out
	}

	w := newWheel(mk(0, -4, 5))
	for range 100 {
		if i := w.spin(rng); i != 2 {
			t.Fatalf("spin picked %d with zero weight", i)
		}
	}

	w = newWheel(mk(0, 0, 0))
	seen := make(map[int]bool)
	for range 200 {
		seen[w.spin(rng)] = true
	}
	if len(seen) != 3 {
		t.Errorf("uniform fallback reached %d of 3 slots", len(seen))
	}
}
