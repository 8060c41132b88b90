package track

import (
	"math"
	"math/rand"
)

// noise is seeded 2D Perlin noise used to roughen procedural tracks.
type noise struct {
	perm [512]int
}

func newNoise(seed int64) *noise {
	n := &noise{}
	rng := rand.New(rand.NewSource(seed))

	p := rng.Perm(256)
	for i := 0; i < 256; i++ {
		n.perm[i] = p[i]
		n.perm[i+256] = p[i]
	}
	return n
}

// at returns the noise value at (x, y), in [-1, 1].
func (n *noise) at(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi := int(fx) & 255
	yi := int(fy) & 255
	x -= fx
	y -= fy

	u, v := fade(x), fade(y)

	aa := n.perm[n.perm[xi]+yi]
	ab := n.perm[n.perm[xi]+yi+1]
	ba := n.perm[n.perm[xi+1]+yi]
	bb := n.perm[n.perm[xi+1]+yi+1]

	bottom := lerp(u, grad(aa, x, y), grad(ba, x-1, y))
	top := lerp(u, grad(ab, x, y-1), grad(bb, x-1, y-1))
	return max(-1, min(1, lerp(v, bottom, top)))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
