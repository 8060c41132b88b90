// Package track holds the collision mask, checkpoints and start pose of a map.
package track

import (
	"fmt"
	"math"

	"github.com/pthm-cable/conerace/config"
)

// Mode selects how cars are scored on a track.
type Mode uint8

const (
	ModeRace      Mode = iota // one point per checkpoint captured
	ModeEndurance             // speed accumulated every tick
)

func (m Mode) String() string {
	if m == ModeEndurance {
		return "endurance"
	}
	return "race"
}

// ParseMode maps a config string to a Mode. Empty means race.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "race":
		return ModeRace, nil
	case "endurance":
		return ModeEndurance, nil
	}
	return ModeRace, fmt.Errorf("unknown track mode %q", s)
}

// Point is a position in window pixels.
type Point struct {
	X, Y float64
}

// Track is a rasterised map: a wall bitmap the size of the window plus the
// race layout drawn on it.
type Track struct {
	Name          string
	Width, Height int
	Mode          Mode

	Checkpoints   []Point
	Radius        float64 // half-width of the square capture zone
	Start         Point
	StartHeading  float64 // degrees
	WrongWayTicks int

	walls []bool
}

// New returns an empty (wall-free) track of the given size.
func New(name string, width, height int) *Track {
	return &Track{
		Name:   name,
		Width:  width,
		Height: height,
		walls:  make([]bool, width*height),
	}
}

// InBounds reports whether the pixel lies inside the window.
func (t *Track) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.Width && y < t.Height
}

// IsWall reports whether the pixel is a wall. Pixels outside the window are not
// walls; callers that care about leaving the window check InBounds.
func (t *Track) IsWall(x, y int) bool {
	if !t.InBounds(x, y) {
		return false
	}
	return t.walls[y*t.Width+x]
}

// SetWall marks or clears a single pixel.
func (t *Track) SetWall(x, y int, wall bool) {
	if t.InBounds(x, y) {
		t.walls[y*t.Width+x] = wall
	}
}

// Fill marks or clears every pixel of the rectangle [x0,x1) x [y0,y1).
func (t *Track) Fill(x0, y0, x1, y1 int, wall bool) {
	for y := max(y0, 0); y < min(y1, t.Height); y++ {
		for x := max(x0, 0); x < min(x1, t.Width); x++ {
			t.walls[y*t.Width+x] = wall
		}
	}
}

// WallCount returns the number of wall pixels.
func (t *Track) WallCount() int {
	n := 0
	for _, w := range t.walls {
		if w {
			n++
		}
	}
	return n
}

// Oval builds a ring-shaped road between two concentric ellipses. Checkpoints
// are spaced evenly along the centre line, the last one sitting on the start
// line so a full lap captures all of them. Cars start at the bottom of the
// ring driving left.
func Oval(name string, width, height, margin, thickness, numCheckpoints int) *Track {
	return WobblyOval(name, width, height, margin, thickness, numCheckpoints, 0, 0)
}

// WobblyOval is Oval with both road edges pushed in and out by up to wobble
// pixels of coherent noise around the lap. The road keeps its thickness and
// checkpoints follow the shifted centre line. wobble 0 gives the plain oval.
func WobblyOval(name string, width, height, margin, thickness, numCheckpoints int, wobble float64, seed int64) *Track {
	t := New(name, width, height)

	cx, cy := float64(width)/2, float64(height)/2
	outerA := float64(width)/2 - float64(margin)
	outerB := float64(height)/2 - float64(margin)
	innerA := outerA - float64(thickness)
	innerB := outerB - float64(thickness)
	midA := math.Max(outerA-float64(thickness)/2, 1)
	midB := math.Max(outerB-float64(thickness)/2, 1)

	var n *noise
	if wobble > 0 {
		n = newNoise(seed)
	}
	// offset is the edge shift at lap parameter theta.
	offset := func(theta float64) float64 {
		if n == nil {
			return 0
		}
		return wobble * n.at(2+1.5*math.Cos(theta), 2+1.5*math.Sin(theta))
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			off := offset(math.Atan2(dy/midB, dx/midA))
			outside := ellipse(dx, dy, outerA+off, outerB+off) > 1
			ia, ib := innerA+off, innerB+off
			inside := ia > 0 && ib > 0 && ellipse(dx, dy, ia, ib) < 1
			t.walls[y*width+x] = outside || inside
		}
	}

	if numCheckpoints < 1 {
		numCheckpoints = 1
	}
	t.Checkpoints = make([]Point, numCheckpoints)
	for k := range t.Checkpoints {
		theta := math.Pi/2 + float64(k+1)*2*math.Pi/float64(numCheckpoints)
		off := offset(theta)
		t.Checkpoints[k] = Point{X: cx + (midA+off)*math.Cos(theta), Y: cy + (midB+off)*math.Sin(theta)}
	}
	t.Start = t.Checkpoints[numCheckpoints-1]
	t.StartHeading = 180
	t.Radius = float64(thickness) / 2

	return t
}

func ellipse(dx, dy, a, b float64) float64 {
	return (dx*dx)/(a*a) + (dy*dy)/(b*b)
}

// Build constructs the track described by cfg inside a window of the given size.
// Explicit checkpoints, start pose and radius in cfg override the procedural layout.
func Build(cfg config.TrackConfig, width, height int) (*Track, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	var t *Track
	if cfg.Image != "" {
		t, err = LoadImage(cfg.Name, cfg.Image, cfg.WallThreshold, cfg.WallsLight)
		if err != nil {
			return nil, err
		}
	} else {
		t = WobblyOval(cfg.Name, width, height, cfg.Oval.Margin, cfg.Oval.Thickness, cfg.Oval.Checkpoints, cfg.Oval.Wobble, cfg.Oval.Seed)
	}

	t.Mode = mode
	t.WrongWayTicks = cfg.WrongWayTicks
	if len(cfg.Checkpoints) > 0 {
		t.Checkpoints = make([]Point, len(cfg.Checkpoints))
		for i, cp := range cfg.Checkpoints {
			t.Checkpoints[i] = Point{X: cp[0], Y: cp[1]}
		}
	}
	if cfg.Start != [2]float64{} {
		t.Start = Point{X: cfg.Start[0], Y: cfg.Start[1]}
		t.StartHeading = cfg.StartHeading
	}
	if cfg.CheckpointRadius > 0 {
		t.Radius = cfg.CheckpointRadius
	}

	sx, sy := int(math.Floor(t.Start.X)), int(math.Floor(t.Start.Y))
	if !t.InBounds(sx, sy) {
		return nil, fmt.Errorf("track %q: start (%v, %v) outside %dx%d window", t.Name, t.Start.X, t.Start.Y, t.Width, t.Height)
	}
	if t.IsWall(sx, sy) {
		return nil, fmt.Errorf("track %q: start (%v, %v) is inside a wall", t.Name, t.Start.X, t.Start.Y)
	}

	return t, nil
}
