package systems

import (
	"math"

	"github.com/pthm-cable/conerace/track"
)

// Clamp functions for common value ranges

// ClampFloat clamps a value between min and max.
func ClampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Angle functions. Headings are degrees, counter-clockwise on screen (y down).

// NormalizeHeading wraps a heading to [0, 360).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Direction returns the unit vector a heading points along.
func Direction(heading float64) (dx, dy float64) {
	r := Radians(-heading)
	return math.Cos(r), math.Sin(r)
}

// Advance moves p by dist along heading.
func Advance(p track.Point, heading, dist float64) track.Point {
	dx, dy := Direction(heading)
	return track.Point{X: p.X + dx*dist, Y: p.Y + dy*dist}
}

// Distance functions

// Distance returns the Euclidean distance between two points.
func Distance(a, b track.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Pixel returns the integer pixel containing p.
func Pixel(p track.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}
