// Package car simulates a single cone-sensing car on a track.
package car

import (
	"github.com/pthm-cable/conerace/genome"
	"github.com/pthm-cable/conerace/sim"
	"github.com/pthm-cable/conerace/systems"
	"github.com/pthm-cable/conerace/track"
)

// Cause records why a car stopped.
type Cause uint8

const (
	CauseNone        Cause = iota
	CauseWall              // footprint overlapped the wall mask
	CauseOutOfBounds       // position left the window
)

func (c Cause) String() string {
	switch c {
	case CauseWall:
		return "wall"
	case CauseOutOfBounds:
		return "out_of_bounds"
	default:
		return "none"
	}
}

// Car is one driver. It owns its descriptor by value.
type Car struct {
	ID       uint32
	ParentID uint32 // 0 for founders
	Genome   genome.Descriptor

	Pos          track.Point
	Heading      float64 // degrees
	Speed        float64
	Acceleration float64

	Dead  bool
	Cause Cause

	Score                float64
	NextCheckpoint       int
	TicksSinceCheckpoint int
	TicksPlayed          int
	Laps                 int
	Reversed             bool

	// BestScores maps track name to the best score this car reached there.
	BestScores map[string]float64

	ViewOnly bool
	Leader   bool

	// Debug geometry from the last tick.
	Band   genome.Band
	Cones  [3]systems.Cone
	Bounds systems.Rect
}

// New places a fresh car at the track start.
func New(id uint32, d genome.Descriptor, ctx *sim.Context) *Car {
	c := &Car{
		ID:         id,
		Genome:     d,
		BestScores: make(map[string]float64),
	}
	c.Reset(ctx)
	return c
}

// Reset puts the car back on the start line alive. The descriptor and
// best-score history are kept.
func (c *Car) Reset(ctx *sim.Context) {
	t := ctx.Track
	c.Pos = t.Start
	c.Heading = systems.NormalizeHeading(t.StartHeading)
	c.Speed = ctx.Car.MinSpeed
	c.Acceleration = 0
	c.Dead = false
	c.Cause = CauseNone
	c.Score = 0
	c.NextCheckpoint = 0
	c.TicksSinceCheckpoint = 0
	c.TicksPlayed = 0
	c.Laps = 0
	c.Reversed = false
	c.Leader = false
	if c.BestScores == nil {
		c.BestScores = make(map[string]float64)
	}
	c.Band = ctx.Band(c.Speed)
	c.updateCones(ctx)
	c.Bounds = systems.RotatedBounds(c.Pos, c.Heading, ctx.Car.Width, ctx.Car.Height)
}

// Equal reports whether both cars carry the same descriptor.
func (c *Car) Equal(o *Car) bool {
	return c.Genome.Equal(o.Genome)
}

// BestScore returns the best score recorded on the named track.
func (c *Car) BestScore(mapName string) float64 {
	return c.BestScores[mapName]
}

// Tick advances a living car by one simulation step. Dead cars are left alone.
func (c *Car) Tick(ctx *sim.Context) {
	if c.Dead {
		return
	}
	c.TicksPlayed++

	t := ctx.Track
	if t.Mode == track.ModeEndurance {
		c.Score += c.Speed
	} else {
		c.TicksSinceCheckpoint++
		c.captureCheckpoints(t)
	}

	c.steer(ctx)
	c.integrate(ctx)
	c.collide(ctx)
	c.updateCones(ctx)

	if !c.Reversed && t.WrongWayTicks > 0 && c.TicksSinceCheckpoint > t.WrongWayTicks {
		c.Reversed = true
	}

	name := ctx.MapName()
	if c.Score > c.BestScores[name] {
		c.BestScores[name] = c.Score
	}
}

// front is the sensing origin at the nose of the car.
func (c *Car) front(ctx *sim.Context) track.Point {
	return systems.Advance(c.Pos, c.Heading, ctx.Car.Width/2)
}

func (c *Car) updateCones(ctx *sim.Context) {
	origin := c.front(ctx)
	for b := genome.BandSlow; b <= genome.BandFast; b++ {
		w, l := ctx.Scale.Cone(c.Genome, b)
		c.Cones[b] = systems.NewCone(c.Heading, origin, w, l)
	}
}

// steer casts the active cone's three rays and sets acceleration and heading.
func (c *Car) steer(ctx *sim.Context) {
	c.Band = ctx.Band(c.Speed)
	c.updateCones(ctx)
	cone := c.Cones[c.Band]

	m := ctx.Track
	_, topHit := systems.DetectWall(m, cone.Origin, cone.Top)
	leftDist, leftHit := systems.DetectWall(m, cone.Origin, cone.Left)
	rightDist, rightHit := systems.DetectWall(m, cone.Origin, cone.Right)

	if topHit {
		c.Acceleration = -ctx.Car.Deceleration
	} else {
		c.Acceleration = ctx.Car.Acceleration
	}

	turn := ctx.Car.TurnAngle
	if c.Speed != 0 {
		turn = min(turn, ctx.Car.TurnAngle/c.Speed*5)
	}

	switch {
	case leftHit && rightHit:
		if leftDist > rightDist {
			c.Heading += turn
		} else {
			c.Heading -= turn
		}
	case leftHit:
		c.Heading -= turn
	case rightHit:
		c.Heading += turn
	}
	c.Heading = systems.NormalizeHeading(c.Heading)
}

func (c *Car) integrate(ctx *sim.Context) {
	c.Speed = systems.ClampFloat(c.Speed+c.Acceleration, ctx.Car.MinSpeed, ctx.Car.MaxSpeed)
	c.Pos = systems.Advance(c.Pos, c.Heading, c.Speed)
	c.Bounds = systems.RotatedBounds(c.Pos, c.Heading, ctx.Car.Width, ctx.Car.Height)
}
