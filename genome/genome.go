// Package genome defines the six-gene descriptor that sizes a car's detection cones.
package genome

import (
	"fmt"
	"math"
	"math/rand"
)

// Gene bounds. Every gene is an integer die face.
const (
	MinGene = 1
	MaxGene = 6
)

// NumGenes is the number of attributes in a Descriptor.
const NumGenes = 6

// Gene indices into Descriptor.Genes.
const (
	LengthSlow = iota
	LengthMedium
	LengthFast
	WidthSlow
	WidthMedium
	WidthFast
)

var geneNames = [NumGenes]string{
	"length_slow", "length_medium", "length_fast",
	"width_slow", "width_medium", "width_fast",
}

// Band is a speed band selecting which cone a car uses.
type Band uint8

const (
	BandSlow Band = iota
	BandMedium
	BandFast
)

func (b Band) String() string {
	switch b {
	case BandSlow:
		return "slow"
	case BandMedium:
		return "medium"
	default:
		return "fast"
	}
}

// Descriptor holds unscaled cone dimensions, one length and one width per band.
// It is a value type: assigning or passing it copies all genes, so no two cars
// ever share mutable genes.
type Descriptor struct {
	Genes [NumGenes]int
}

// New returns a descriptor from six values, clamping each into [MinGene, MaxGene].
func New(lengthSlow, lengthMedium, lengthFast, widthSlow, widthMedium, widthFast int) Descriptor {
	return FromValues([]int{lengthSlow, lengthMedium, lengthFast, widthSlow, widthMedium, widthFast})
}

// FromValues builds a descriptor from externally supplied values (saved cars,
// dice). Values outside the die range are clamped; missing values default to MinGene.
func FromValues(values []int) Descriptor {
	var d Descriptor
	for i := range d.Genes {
		v := MinGene
		if i < len(values) {
			v = values[i]
		}
		d.Genes[i] = Clamp(v)
	}
	return d
}

// Random returns a descriptor with every gene drawn uniformly from the die range.
func Random(rng *rand.Rand) Descriptor {
	var d Descriptor
	d.Randomize(rng)
	return d
}

// Randomize redraws every gene uniformly.
func (d *Descriptor) Randomize(rng *rand.Rand) {
	for i := range d.Genes {
		d.Genes[i] = MinGene + rng.Intn(MaxGene-MinGene+1)
	}
}

// Copy returns an independent copy.
func (d Descriptor) Copy() Descriptor {
	return d
}

// Equal reports whether all six genes match.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Genes == o.Genes
}

// Values returns the genes as a slice.
func (d Descriptor) Values() []int {
	out := make([]int, NumGenes)
	copy(out, d.Genes[:])
	return out
}

// Length returns the unscaled cone length for a band.
func (d Descriptor) Length(b Band) int {
	return d.Genes[LengthSlow+int(b)]
}

// Width returns the unscaled cone width for a band.
func (d Descriptor) Width(b Band) int {
	return d.Genes[WidthSlow+int(b)]
}

// Key returns a compact string usable as a map key or CSV column.
func (d Descriptor) Key() string {
	g := d.Genes
	return fmt.Sprintf("%d%d%d-%d%d%d", g[0], g[1], g[2], g[3], g[4], g[5])
}

func (d Descriptor) String() string {
	return d.Key()
}

// GeneName returns the attribute name for a gene index.
func GeneName(i int) string {
	if i < 0 || i >= NumGenes {
		return "unknown"
	}
	return geneNames[i]
}

// Scale holds the per-map multipliers turning die values into pixels.
type Scale struct {
	Length float64
	Width  float64
}

// Cone returns the scaled cone width and length for a band.
func (s Scale) Cone(d Descriptor, b Band) (width, length float64) {
	return float64(d.Width(b)) * s.Width, float64(d.Length(b)) * s.Length
}

// Clamp restricts v to the die range.
func Clamp(v int) int {
	if v < MinGene {
		return MinGene
	}
	if v > MaxGene {
		return MaxGene
	}
	return v
}

// RandomAttribution perturbs a gene, favouring small steps. The magnitude tier
// is picked from fixed thresholds on a uniform draw, then a uniform real offset
// within that magnitude is added and the result rounded and clamped.
func RandomAttribution(value int, rng *rand.Rand) int {
	r := rng.Float64()
	var magnitude float64
	switch {
	case r < 1.0/5:
		magnitude = 5
	case r < 1.0/4:
		magnitude = 4
	case r < 1.0/3:
		magnitude = 3
	case r < 1.0/2:
		magnitude = 2
	default:
		magnitude = 1
	}
	offset := (rng.Float64()*2 - 1) * magnitude
	return Clamp(int(math.Round(float64(value) + offset)))
}

// Mutate runs one mutation pass: each gene is replaced by RandomAttribution
// with probability chance. Reports whether any gene changed.
func (d *Descriptor) Mutate(chance float64, rng *rand.Rand) bool {
	changed := false
	for i, v := range d.Genes {
		if rng.Float64() >= chance {
			continue
		}
		nv := RandomAttribution(v, rng)
		if nv != v {
			d.Genes[i] = nv
			changed = true
		}
	}
	return changed
}

// Swap exchanges the listed genes between a and b.
func Swap(a, b *Descriptor, genes []int) {
	for _, i := range genes {
		a.Genes[i], b.Genes[i] = b.Genes[i], a.Genes[i]
	}
}
