// Package telemetry provides generation statistics, bookmarking, the hall of
// fame and snapshots for evolving races.
package telemetry

import "github.com/pthm-cable/conerace/car"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventDeath
	EventCheckpoint
	EventLap
	EventWrongWay
)

// Event represents a single telemetry event.
type Event struct {
	Type  EventType
	Tick  int32
	CarID uint32

	// Optional fields depending on event type
	ParentID   uint32    // spawn
	Cause      car.Cause // death
	Checkpoint int       // checkpoint index captured
}

// NewSpawnEvent creates a spawn event. parentID is 0 for founders.
func NewSpawnEvent(tick int32, carID, parentID uint32) Event {
	return Event{Type: EventSpawn, Tick: tick, CarID: carID, ParentID: parentID}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, carID uint32, cause car.Cause) Event {
	return Event{Type: EventDeath, Tick: tick, CarID: carID, Cause: cause}
}

// NewCheckpointEvent creates a checkpoint capture event.
func NewCheckpointEvent(tick int32, carID uint32, index int) Event {
	return Event{Type: EventCheckpoint, Tick: tick, CarID: carID, Checkpoint: index}
}

// NewLapEvent creates a lap completion event.
func NewLapEvent(tick int32, carID uint32) Event {
	return Event{Type: EventLap, Tick: tick, CarID: carID}
}

// NewWrongWayEvent creates an event for a car flagged as driving the wrong way.
func NewWrongWayEvent(tick int32, carID uint32) Event {
	return Event{Type: EventWrongWay, Tick: tick, CarID: carID}
}
