// Package components defines ECS components for the race.
package components

import (
	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/garage"
)

// Driver wraps the simulated car an entity represents.
type Driver struct {
	Car *car.Car
}

// Lineage orders the population and records where a car came from.
type Lineage struct {
	Slot       int           // position in the population list; view-only cars come last
	ParentID   uint32        // 0 for founders
	Generation int           // generation the entity was spawned in
	Origin     garage.Origin // dice cars and hall reseeds keep their source
	Seeded     bool          // came from the garage or a loaded hall of fame
}

// Progress caches what the car looked like after the previous tick so the
// event pass can report only changes.
type Progress struct {
	Checkpoints int // captures so far this generation
	Laps        int
	Dead        bool
	Reversed    bool
}
