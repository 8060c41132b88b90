package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

// HallEntry is the best elite of one generation.
type HallEntry struct {
	Generation int
	CarID      uint32
	Genome     genome.Descriptor
	Score      float64
	Laps       int
}

// HallOfFame keeps the best elite of every generation, keyed by generation,
// plus a bounded score-ordered ranking used for reseeding new runs.
type HallOfFame struct {
	track        string
	byGeneration map[int]HallEntry
	ranked       []HallEntry
	maxSize      int
	rng          *rand.Rand
}

// NewHallOfFame creates a hall for one track. maxSize bounds the ranking.
func NewHallOfFame(track string, maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		track:        track,
		byGeneration: make(map[int]HallEntry),
		ranked:       make([]HallEntry, 0, maxSize),
		maxSize:      maxSize,
		rng:          rng,
	}
}

// Record stores the generation's best elite. A second record for the same
// generation replaces the first.
func (hof *HallOfFame) Record(generation int, c *car.Car) {
	hof.add(HallEntry{
		Generation: generation,
		CarID:      c.ID,
		Genome:     c.Genome,
		Score:      c.Score,
		Laps:       c.Laps,
	})
}

func (hof *HallOfFame) add(entry HallEntry) {
	if _, ok := hof.byGeneration[entry.Generation]; ok {
		hof.removeRanked(entry.Generation)
	}
	hof.byGeneration[entry.Generation] = entry
	hof.ranked = hof.insertEntry(hof.ranked, entry)
}

func (hof *HallOfFame) removeRanked(generation int) {
	for i, e := range hof.ranked {
		if e.Generation == generation {
			hof.ranked = append(hof.ranked[:i], hof.ranked[i+1:]...)
			return
		}
	}
}

// insertEntry adds an entry to the ranking, maintaining descending score
// order. If the ranking is full, the lowest entry is dropped.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Score < entry.Score
	})

	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Generation returns the entry recorded for a generation.
func (hof *HallOfFame) Generation(g int) (HallEntry, bool) {
	e, ok := hof.byGeneration[g]
	return e, ok
}

// Sample picks a descriptor from the ranking by tournament selection.
// Returns false if the hall is empty.
func (hof *HallOfFame) Sample() (genome.Descriptor, bool) {
	if len(hof.ranked) == 0 {
		return genome.Descriptor{}, false
	}

	const tournamentSize = 3
	best := -1
	for i := 0; i < tournamentSize; i++ {
		idx := hof.rng.Intn(len(hof.ranked))
		if best < 0 || hof.ranked[idx].Score > hof.ranked[best].Score {
			best = idx
		}
	}
	return hof.ranked[best].Genome, true
}

// Size returns the number of ranked entries.
func (hof *HallOfFame) Size() int {
	return len(hof.ranked)
}

// Generations returns the number of generations recorded.
func (hof *HallOfFame) Generations() int {
	return len(hof.byGeneration)
}

// TopScore returns the best recorded score, or 0 for an empty hall.
func (hof *HallOfFame) TopScore() float64 {
	if len(hof.ranked) == 0 {
		return 0
	}
	return hof.ranked[0].Score
}

// Ranked returns a copy of the ranking, best first.
func (hof *HallOfFame) Ranked() []HallEntry {
	return append([]HallEntry(nil), hof.ranked...)
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	CarID  uint32  `json:"car_id"`
	Score  float64 `json:"score"`
	Laps   int     `json:"laps"`
	Genome []int   `json:"genome"`
	Key    string  `json:"key"`
}

type hallJSON struct {
	Track       string                   `json:"track"`
	Generations map[string]hallEntryJSON `json:"generations"`
}

// MarshalJSON serializes the hall of fame. Generations are keyed by their
// number.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := hallJSON{
		Track:       hof.track,
		Generations: make(map[string]hallEntryJSON, len(hof.byGeneration)),
	}
	for g, e := range hof.byGeneration {
		export.Generations[strconv.Itoa(g)] = hallEntryJSON{
			CarID:  e.CarID,
			Score:  e.Score,
			Laps:   e.Laps,
			Genome: e.Genome.Values(),
			Key:    e.Genome.Key(),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. Genes outside the
// die range are clamped.
func LoadHallOfFameFromFile(path string, maxSize int, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw hallJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if len(raw.Generations) > maxSize {
		maxSize = len(raw.Generations)
	}
	hof := NewHallOfFame(raw.Track, maxSize, rng)

	// Sorted generations keep ranking ties deterministic.
	type keyed struct {
		gen   int
		entry hallEntryJSON
	}
	entries := make([]keyed, 0, len(raw.Generations))
	for key, ej := range raw.Generations {
		g, err := strconv.Atoi(key)
		if err != nil {
			slog.Warn("hall_of_fame_load: bad generation key, skipping", "key", key)
			continue
		}
		entries = append(entries, keyed{g, ej})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].gen < entries[j].gen })

	for _, k := range entries {
		hof.add(HallEntry{
			Generation: k.gen,
			CarID:      k.entry.CarID,
			Genome:     genome.FromValues(k.entry.Genome),
			Score:      k.entry.Score,
			Laps:       k.entry.Laps,
		})
	}

	return hof, nil
}
