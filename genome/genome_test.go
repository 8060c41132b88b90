package genome

import (
	"math/rand"
	"testing"
)

func TestRandomAttributionRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for v := MinGene; v <= MaxGene; v++ {
		for i := 0; i < 5000; i++ {
			got := RandomAttribution(v, rng)
			if got < MinGene || got > MaxGene {
				t.Fatalf("RandomAttribution(%d) = %d, out of [%d,%d]", v, got, MinGene, MaxGene)
			}
		}
	}
}

func TestRandomAttributionFavoursSmallSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for v := MinGene; v <= MaxGene; v++ {
		small, large := 0, 0
		for i := 0; i < 20000; i++ {
			d := RandomAttribution(v, rng) - v
			if d < 0 {
				d = -d
			}
			if d <= 1 {
				small++
			}
			if d >= 4 {
				large++
			}
		}
		if small <= large {
			t.Errorf("value %d: |d|<=1 seen %d times, |d|>=4 seen %d times", v, small, large)
		}
		// The unit tier alone is drawn half the time.
		if small < 10000 {
			t.Errorf("value %d: expected at least half of draws within one step, got %d/20000", v, small)
		}
	}
}

func TestFromValuesClamps(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   [NumGenes]int
	}{
		{"in range", []int{1, 2, 3, 4, 5, 6}, [NumGenes]int{1, 2, 3, 4, 5, 6}},
		{"too high", []int{9, 7, 6, 6, 100, 6}, [NumGenes]int{6, 6, 6, 6, 6, 6}},
		{"too low", []int{0, -3, 1, 2, 0, 1}, [NumGenes]int{1, 1, 1, 2, 1, 1}},
		{"short", []int{4, 4}, [NumGenes]int{4, 4, 1, 1, 1, 1}},
		{"empty", nil, [NumGenes]int{1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromValues(tt.values)
			if got.Genes != tt.want {
				t.Errorf("FromValues(%v) = %v, want %v", tt.values, got.Genes, tt.want)
			}
		})
	}
}

func TestCopyIsIndependent(t *testing.T) {
	orig := New(1, 2, 3, 4, 5, 6)
	cp := orig.Copy()

	if !cp.Equal(orig) {
		t.Fatalf("copy %v not equal to original %v", cp, orig)
	}

	cp.Genes[0] = 6
	cp.Genes[5] = 1
	if orig.Genes[0] != 1 || orig.Genes[5] != 6 {
		t.Errorf("mutating the copy changed the original: %v", orig)
	}
	if cp.Equal(orig) {
		t.Error("mutated copy should differ from original")
	}
}

func TestRandomStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		d := Random(rng)
		for j, g := range d.Genes {
			if g < MinGene || g > MaxGene {
				t.Fatalf("gene %s = %d out of range", GeneName(j), g)
			}
		}
	}
}

func TestMutateReportsChange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	d := New(3, 3, 3, 3, 3, 3)

	if d.Mutate(0, rng) {
		t.Error("mutation with zero chance reported a change")
	}
	if !d.Equal(New(3, 3, 3, 3, 3, 3)) {
		t.Errorf("mutation with zero chance changed genes: %v", d)
	}

	changed := false
	for i := 0; i < 20 && !changed; i++ {
		before := d
		changed = d.Mutate(1, rng)
		if changed == d.Equal(before) {
			t.Fatalf("Mutate returned %v but equality with previous is %v", changed, d.Equal(before))
		}
	}
	if !changed {
		t.Error("full-chance mutation never changed a gene in 20 passes")
	}
}

func TestSwap(t *testing.T) {
	a := New(1, 1, 1, 1, 1, 1)
	b := New(6, 6, 6, 6, 6, 6)

	Swap(&a, &b, []int{LengthFast, WidthSlow})

	if a.Genes != [NumGenes]int{1, 1, 6, 6, 1, 1} {
		t.Errorf("a after swap = %v", a.Genes)
	}
	if b.Genes != [NumGenes]int{6, 6, 1, 1, 6, 6} {
		t.Errorf("b after swap = %v", b.Genes)
	}
}

func TestScaleCone(t *testing.T) {
	d := New(1, 2, 3, 4, 5, 6)
	s := Scale{Length: 10, Width: 5}

	tests := []struct {
		band          Band
		width, length float64
	}{
		{BandSlow, 20, 10},
		{BandMedium, 25, 20},
		{BandFast, 30, 30},
	}
	for _, tt := range tests {
		t.Run(tt.band.String(), func(t *testing.T) {
			w, l := s.Cone(d, tt.band)
			if w != tt.width || l != tt.length {
				t.Errorf("Cone(%s) = (%v, %v), want (%v, %v)", tt.band, w, l, tt.width, tt.length)
			}
		})
	}
}
