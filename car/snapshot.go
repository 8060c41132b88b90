package car

import (
	"github.com/pthm-cable/conerace/systems"
)

// ConeState is a cone triple in JSON form.
type ConeState struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	LeftX   float64 `json:"left_x"`
	LeftY   float64 `json:"left_y"`
	TopX    float64 `json:"top_x"`
	TopY    float64 `json:"top_y"`
	RightX  float64 `json:"right_x"`
	RightY  float64 `json:"right_y"`
}

// Snapshot is the per-tick view of a car handed to renderers and recorders.
type Snapshot struct {
	ID             uint32       `json:"id"`
	Genome         string       `json:"genome"`
	X              float64      `json:"x"`
	Y              float64      `json:"y"`
	Heading        float64      `json:"heading"`
	Speed          float64      `json:"speed"`
	Dead           bool         `json:"dead"`
	Cause          string       `json:"cause,omitempty"`
	Score          float64      `json:"score"`
	NextCheckpoint int          `json:"next_checkpoint"`
	Reversed       bool         `json:"reversed,omitempty"`
	Leader         bool         `json:"leader,omitempty"`
	ViewOnly       bool         `json:"view_only,omitempty"`
	Band           string       `json:"band"`
	Cones          [3]ConeState `json:"cones"`
	Bounds         systems.Rect `json:"bounds"`
}

// Snapshot captures the car's current state.
func (c *Car) Snapshot() Snapshot {
	s := Snapshot{
		ID:             c.ID,
		Genome:         c.Genome.Key(),
		X:              c.Pos.X,
		Y:              c.Pos.Y,
		Heading:        c.Heading,
		Speed:          c.Speed,
		Dead:           c.Dead,
		Score:          c.Score,
		NextCheckpoint: c.NextCheckpoint,
		Reversed:       c.Reversed,
		Leader:         c.Leader,
		ViewOnly:       c.ViewOnly,
		Band:           c.Band.String(),
		Bounds:         c.Bounds,
	}
	if c.Dead {
		s.Cause = c.Cause.String()
	}
	for i, cone := range c.Cones {
		s.Cones[i] = ConeState{
			OriginX: cone.Origin.X, OriginY: cone.Origin.Y,
			LeftX: cone.Left.X, LeftY: cone.Left.Y,
			TopX: cone.Top.X, TopY: cone.Top.Y,
			RightX: cone.Right.X, RightY: cone.Right.Y,
		}
	}
	return s
}
