package garage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

func TestFromDiceClamps(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   genome.Descriptor
	}{
		{"in range", []int{1, 2, 3, 4, 5, 6}, genome.New(1, 2, 3, 4, 5, 6)},
		{"too high and low", []int{0, 7, -3, 12, 6, 1}, genome.New(1, 6, 1, 6, 6, 1)},
		{"short roll", []int{4, 4}, genome.New(4, 4, 1, 1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromDice("d", tt.values)
			if !s.Descriptor.Equal(tt.want) {
				t.Errorf("descriptor = %v, want %v", s.Descriptor, tt.want)
			}
			if s.Origin != OriginDice {
				t.Errorf("origin = %v", s.Origin)
			}
		})
	}
}

func TestGarageSaveLoad(t *testing.T) {
	c := &car.Car{
		ID:         17,
		Genome:     genome.New(6, 5, 4, 3, 2, 1),
		BestScores: map[string]float64{"oval": 32},
	}

	g := &Garage{}
	g.Add(FromDice("roll", []int{2, 2, 2, 3, 3, 3}))
	g.Add(FromCar(c, "champ"))
	ref := FromDice("ghost", []int{6, 6, 6, 6, 6, 6})
	ref.ViewOnly = true
	ref.ColorTag = "red"
	g.Add(ref)

	path := filepath.Join(t.TempDir(), "garage.yaml")
	if err := g.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "origin: genetic") {
		t.Errorf("origin not written as text:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Cars) != 3 {
		t.Fatalf("loaded %d cars, want 3", len(loaded.Cars))
	}
	champ := loaded.Cars[1]
	if champ.ID != 17 || champ.Origin != OriginGenetic || champ.DisplayName != "champ" {
		t.Errorf("champ = %+v", champ)
	}
	if !champ.Descriptor.Equal(c.Genome) || champ.BestScores["oval"] != 32 {
		t.Errorf("champ history = %v %v", champ.Descriptor, champ.BestScores)
	}
	if len(loaded.Racers()) != 2 || len(loaded.Spectators()) != 1 {
		t.Errorf("racers=%d spectators=%d", len(loaded.Racers()), len(loaded.Spectators()))
	}
	if loaded.Spectators()[0].ColorTag != "red" {
		t.Error("color tag lost")
	}
}

func TestLoadClampsAndRejects(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("cars:\n  - name: wild\n    genes: [9, 0, 3, 3, 3, 3]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := Load(good)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Cars[0].Descriptor.Equal(genome.New(6, 1, 3, 3, 3, 3)) || g.Cars[0].Origin != OriginDice {
		t.Errorf("car = %+v", g.Cars[0])
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cars:\n  - origin: alien\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for unknown origin")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNilGarageFilters(t *testing.T) {
	var g *Garage
	if g.Racers() != nil || g.Spectators() != nil {
		t.Error("nil garage should have no cars")
	}
}
