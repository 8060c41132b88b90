// Package systems provides the geometry cars sense and collide with.
package systems

import (
	"math"

	"github.com/pthm-cable/conerace/track"
)

// Mask is the collision surface rays are cast against.
type Mask interface {
	IsWall(x, y int) bool
	InBounds(x, y int) bool
}

// Cone is the triangle a car probes for walls, tip at Origin.
type Cone struct {
	Origin           track.Point
	Left, Top, Right track.Point
}

// ConePoints computes the three far corners of an isosceles sensing cone
// pointing along heading. All three lie coneLength away from origin; left and
// right are rotated by the half-angle atan(coneWidth / (2*coneLength)).
func ConePoints(heading float64, origin track.Point, coneWidth, coneLength float64) (left, top, right track.Point) {
	half := Degrees(math.Atan(coneWidth / (2 * coneLength)))
	top = Advance(origin, heading, coneLength)
	left = Advance(origin, heading+half, coneLength)
	right = Advance(origin, heading-half, coneLength)
	return left, top, right
}

// NewCone builds a Cone from ConePoints.
func NewCone(heading float64, origin track.Point, coneWidth, coneLength float64) Cone {
	l, t, r := ConePoints(heading, origin, coneWidth, coneLength)
	return Cone{Origin: origin, Left: l, Top: t, Right: r}
}

// DetectWall walks the segment origin->target one pixel at a time along its
// longer axis, from origin up to and including target. It returns the
// distance from origin to the first sample that is a wall or outside the
// window. A zero-length segment never hits.
func DetectWall(m Mask, origin, target track.Point) (float64, bool) {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}

	// Walk along x unless the segment is steeper than 45 degrees; this also
	// keeps vertical segments off the slope division.
	alongX := math.Abs(dx) >= math.Abs(dy)
	var steps int
	var stepX, stepY float64
	if alongX {
		steps = int(math.Ceil(math.Abs(dx)))
		stepX = math.Copysign(1, dx)
		stepY = dy / math.Abs(dx)
	} else {
		steps = int(math.Ceil(math.Abs(dy)))
		stepY = math.Copysign(1, dy)
		stepX = dx / math.Abs(dy)
	}

	// The last sample is the target itself, so a fractional tail is covered.
	for i := 0; i <= steps; i++ {
		p := target
		if i < steps {
			p = track.Point{X: origin.X + float64(i)*stepX, Y: origin.Y + float64(i)*stepY}
		}
		px, py := Pixel(p)
		if !m.InBounds(px, py) || m.IsWall(px, py) {
			return Distance(origin, p), true
		}
	}
	return 0, false
}
