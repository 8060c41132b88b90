// Package evolve turns a finished generation into the next one: elitism,
// score-weighted resampling, mutation and pairwise crossover, keeping every
// descriptor in the population distinct where the retry budgets allow.
package evolve

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
	"github.com/pthm-cable/conerace/sim"
)

const (
	defaultMutationAttempts  = 50
	defaultCrossoverAttempts = 10

	// maxMutationPasses bounds the "until something changes" loop, which
	// would never end with a zero mutation chance.
	maxMutationPasses = 100
)

// Recorder receives the best elite of each generation.
type Recorder interface {
	Record(generation int, c *car.Car)
}

// Controller owns the id counter and RNG for one simulation.
type Controller struct {
	ctx  *sim.Context
	rng  *rand.Rand
	hall Recorder

	generation int
	nextID     uint32
}

// NewController creates a controller. hall may be nil.
func NewController(ctx *sim.Context, rng *rand.Rand, hall Recorder) *Controller {
	return &Controller{
		ctx:    ctx,
		rng:    rng,
		hall:   hall,
		nextID: 1,
	}
}

// Generation returns the number of completed Evolve calls.
func (ctl *Controller) Generation() int {
	return ctl.generation
}

// NewCar places a fresh car with the next id at the track start.
func (ctl *Controller) NewCar(d genome.Descriptor) *car.Car {
	c := car.New(ctl.nextID, d, ctl.ctx)
	ctl.nextID++
	return c
}

// Random returns n cars with random descriptors.
func (ctl *Controller) Random(n int) []*car.Car {
	out := make([]*car.Car, n)
	for i := range out {
		out[i] = ctl.NewCar(genome.Random(ctl.rng))
	}
	return out
}

// EliteCount returns how many of the ranked cars survive unchanged:
// round(kept*n) clamped to [1, n], and never more than are available.
func EliteCount(kept float64, n, available int) int {
	k := int(math.Round(kept * float64(n)))
	k = max(1, min(k, n))
	return min(k, available)
}

// Evolve consumes the finished population and returns the next one. The
// result holds exactly PopulationSize cars: the surviving elites, the new
// children, and the best elite last with Leader set. View-only cars are
// dropped.
func (ctl *Controller) Evolve(pop []*car.Car) []*car.Car {
	n := ctl.ctx.Genetic.PopulationSize
	gen := ctl.generation
	ctl.generation++

	ranked := make([]*car.Car, 0, len(pop))
	for _, c := range pop {
		if !c.ViewOnly {
			ranked = append(ranked, c)
		}
	}
	if len(ranked) == 0 {
		return ctl.Random(n)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	elites := ranked[:EliteCount(ctl.ctx.Genetic.ProportionKept, n, len(ranked))]
	best := elites[0]
	if ctl.hall != nil {
		ctl.hall.Record(gen, best)
	}

	w := newWheel(elites)
	for _, e := range elites {
		e.Reset(ctl.ctx)
	}

	taken := make([]genome.Descriptor, 0, n)
	for _, e := range elites {
		taken = append(taken, e.Genome)
	}

	children := make([]*car.Car, 0, n-len(elites))
	for len(children) < n-len(elites) {
		parent := elites[w.spin(ctl.rng)]
		d := ctl.mutate(parent.Genome, taken)
		taken = append(taken, d)

		child := ctl.NewCar(d)
		child.ParentID = parent.ID
		children = append(children, child)
	}

	ctl.crossover(children, elites)

	next := make([]*car.Car, 0, n)
	next = append(next, elites[1:]...)
	next = append(next, children...)
	next = append(next, best)
	best.Leader = true
	return next
}

// mutate returns a mutated copy of parent that differs from every taken
// descriptor, retrying from parent up to the attempt budget. When the
// budget runs out the last candidate is returned even if it duplicates.
func (ctl *Controller) mutate(parent genome.Descriptor, taken []genome.Descriptor) genome.Descriptor {
	attempts := ctl.ctx.Genetic.MutationAttempts
	if attempts <= 0 {
		attempts = defaultMutationAttempts
	}

	var d genome.Descriptor
	for range attempts {
		d = parent
		for range maxMutationPasses {
			if d.Mutate(ctl.ctx.Genetic.ChanceMutation, ctl.rng) {
				break
			}
		}
		if !contains(taken, d) {
			return d
		}
	}
	return d
}

// crossover visits every unordered pair of children and, with the configured
// chance, swaps a random subset of genes between them. A swap is kept only
// when neither result collides with another car in the population.
func (ctl *Controller) crossover(children, elites []*car.Car) {
	attempts := ctl.ctx.Genetic.CrossoverAttempts
	if attempts <= 0 {
		attempts = defaultCrossoverAttempts
	}

	for i := 0; i < len(children); i++ {
		for j := i + 1; j < len(children); j++ {
			if ctl.rng.Float64() >= ctl.ctx.Genetic.ChanceCrossover {
				continue
			}
			a, b := children[i], children[j]
			if a.Genome.Equal(b.Genome) {
				continue
			}

			for range attempts {
				k := 1 + ctl.rng.Intn(genome.NumGenes)
				genes := ctl.rng.Perm(genome.NumGenes)[:k]

				na, nb := a.Genome, b.Genome
				genome.Swap(&na, &nb, genes)
				if clashes(na, a, b, elites, children) || clashes(nb, a, b, elites, children) {
					continue
				}
				a.Genome, b.Genome = na, nb
				break
			}
		}
	}
}

// clashes reports whether d matches the descriptor of any car other than
// a or b.
func clashes(d genome.Descriptor, a, b *car.Car, groups ...[]*car.Car) bool {
	for _, g := range groups {
		for _, c := range g {
			if c == a || c == b {
				continue
			}
			if c.Genome.Equal(d) {
				return true
			}
		}
	}
	return false
}

func contains(ds []genome.Descriptor, d genome.Descriptor) bool {
	for _, o := range ds {
		if o.Equal(d) {
			return true
		}
	}
	return false
}

// wheel is a roulette wheel over elite scores. Negative scores weigh zero;
// a wheel with no weight falls back to uniform picks.
type wheel struct {
	cum   []float64
	total float64
}

func newWheel(elites []*car.Car) wheel {
	weights := make([]float64, len(elites))
	for i, e := range elites {
		weights[i] = math.Max(e.Score, 0)
	}
	return wheel{
		cum:   floats.CumSum(make([]float64, len(weights)), weights),
		total: floats.Sum(weights),
	}
}

func (w wheel) spin(rng *rand.Rand) int {
	if w.total <= 0 {
		return rng.Intn(len(w.cum))
	}
	r := rng.Float64() * w.total
	i := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > r })
	if i == len(w.cum) {
		i = len(w.cum) - 1
	}
	return i
}
