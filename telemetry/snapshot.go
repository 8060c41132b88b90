package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/conerace/car"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot records a population at a generation boundary.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Track       string `json:"track"`
	TrackWidth  int    `json:"track_width"`
	TrackHeight int    `json:"track_height"`

	Generation int   `json:"generation"`
	Tick       int32 `json:"tick"`

	Cars []CarState `json:"cars"`

	Stats    *GenerationStats `json:"stats,omitempty"`
	Bookmark *Bookmark        `json:"bookmark,omitempty"`
}

// CarState holds one car's state and history.
type CarState struct {
	car.Snapshot
	ParentID   uint32             `json:"parent_id,omitempty"`
	Genes      []int              `json:"genes"`
	BestScores map[string]float64 `json:"best_scores,omitempty"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	FounderID       uint32  `json:"founder_id"`
	BirthGeneration int     `json:"birth_generation"`
	Generations     int     `json:"generations"`
	TicksAlive      int     `json:"ticks_alive"`
	Checkpoints     int     `json:"checkpoints"`
	Laps            int     `json:"laps"`
	BestScore       float64 `json:"best_score"`
	LastCause       string  `json:"last_cause"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		FounderID:       ls.FounderID,
		BirthGeneration: ls.BirthGeneration,
		Generations:     ls.Generations,
		TicksAlive:      ls.TicksAlive,
		Checkpoints:     ls.Checkpoints,
		Laps:            ls.Laps,
		BestScore:       ls.BestScore,
		LastCause:       ls.LastCause.String(),
	}
}

// NewCarState captures a car and, when tracked, its lifetime.
func NewCarState(c *car.Car, lt *LifetimeTracker) CarState {
	st := CarState{
		Snapshot: c.Snapshot(),
		ParentID: c.ParentID,
		Genes:    c.Genome.Values(),
	}
	if len(c.BestScores) > 0 {
		st.BestScores = make(map[string]float64, len(c.BestScores))
		for k, v := range c.BestScores {
			st.BestScores[k] = v
		}
	}
	if lt != nil {
		st.Lifetime = lt.Get(c.ID).ToJSON()
	}
	return st
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_gen%05d", snapshot.Generation)
	if snapshot.Bookmark != nil {
		name += "_" + string(snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
