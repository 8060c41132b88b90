package systems

import (
	"math"

	"github.com/pthm-cable/conerace/track"
)

// Rect is an axis-aligned rectangle in window pixels.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RotatedBounds returns the axis-aligned box around a width x height rectangle
// centred on c and rotated to heading. Width runs along the heading.
func RotatedBounds(c track.Point, heading, width, height float64) Rect {
	ux, uy := Direction(heading)
	hw := (math.Abs(ux)*width + math.Abs(uy)*height) / 2
	hh := (math.Abs(uy)*width + math.Abs(ux)*height) / 2
	return Rect{MinX: c.X - hw, MinY: c.Y - hh, MaxX: c.X + hw, MaxY: c.Y + hh}
}

// Footprint calls fn for every pixel whose centre lies inside the rotated
// rectangle. Iteration stops early when fn returns false.
func Footprint(c track.Point, heading, width, height float64, fn func(x, y int) bool) {
	ux, uy := Direction(heading)
	b := RotatedBounds(c, heading, width, height)
	hw, hh := width/2, height/2

	for y := int(math.Floor(b.MinY)); y <= int(math.Floor(b.MaxY)); y++ {
		for x := int(math.Floor(b.MinX)); x <= int(math.Floor(b.MaxX)); x++ {
			dx := float64(x) + 0.5 - c.X
			dy := float64(y) + 0.5 - c.Y
			along := dx*ux + dy*uy
			across := -dx*uy + dy*ux
			if math.Abs(along) > hw || math.Abs(across) > hh {
				continue
			}
			if !fn(x, y) {
				return
			}
		}
	}
}

// Overlaps reports whether any footprint pixel is a wall.
func Overlaps(m Mask, c track.Point, heading, width, height float64) bool {
	hit := false
	Footprint(c, heading, width, height, func(x, y int) bool {
		if m.IsWall(x, y) {
			hit = true
			return false
		}
		return true
	})
	return hit
}
