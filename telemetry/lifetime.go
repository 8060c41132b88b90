package telemetry

import (
	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

// LifetimeStats tracks one car across every generation it races in.
type LifetimeStats struct {
	CarID           uint32
	ParentID        uint32
	FounderID       uint32 // root of the lineage
	Genome          genome.Descriptor
	BirthGeneration int

	Generations int // generations raced, >1 for elites
	TicksAlive  int
	Checkpoints int
	Laps        int
	BestScore   float64
	LastCause   car.Cause
}

// LifetimeTracker manages per-car lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register starts tracking a car. A child inherits its parent's founder when
// the parent is still tracked. Registering an already tracked car is a no-op.
func (lt *LifetimeTracker) Register(c *car.Car, generation int) {
	if _, ok := lt.stats[c.ID]; ok {
		return
	}
	founder := c.ID
	if p := lt.stats[c.ParentID]; c.ParentID != 0 && p != nil {
		founder = p.FounderID
	}
	lt.stats[c.ID] = &LifetimeStats{
		CarID:           c.ID,
		ParentID:        c.ParentID,
		FounderID:       founder,
		Genome:          c.Genome,
		BirthGeneration: generation,
	}
}

// Get returns the lifetime stats for a car, or nil if not found.
func (lt *LifetimeTracker) Get(carID uint32) *LifetimeStats {
	return lt.stats[carID]
}

// Remove removes a car's stats and returns them.
func (lt *LifetimeTracker) Remove(carID uint32) *LifetimeStats {
	stats := lt.stats[carID]
	delete(lt.stats, carID)
	return stats
}

// RecordCheckpoint increments the checkpoint count.
func (lt *LifetimeTracker) RecordCheckpoint(carID uint32) {
	if s := lt.stats[carID]; s != nil {
		s.Checkpoints++
	}
}

// RecordLap increments the lap count.
func (lt *LifetimeTracker) RecordLap(carID uint32) {
	if s := lt.stats[carID]; s != nil {
		s.Laps++
	}
}

// EndGeneration folds a car's finished run into its lifetime. The genome is
// refreshed since crossover may have rewritten it after registration.
func (lt *LifetimeTracker) EndGeneration(c *car.Car) {
	s := lt.stats[c.ID]
	if s == nil {
		return
	}
	s.Genome = c.Genome
	s.Generations++
	s.TicksAlive += c.TicksPlayed
	s.LastCause = c.Cause
	if c.Score > s.BestScore {
		s.BestScore = c.Score
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked cars.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of distinct founders among tracked cars.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	for _, s := range lt.stats {
		seen[s.FounderID] = struct{}{}
	}
	return len(seen)
}
