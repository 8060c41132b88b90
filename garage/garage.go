// Package garage stores cars between runs: hand-entered dice cars and
// descriptors kept from earlier evolutions.
package garage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/conerace/car"
	"github.com/pthm-cable/conerace/genome"
)

// Origin records where a saved car came from.
type Origin uint8

const (
	OriginDice Origin = iota
	OriginGenetic
)

func (o Origin) String() string {
	if o == OriginGenetic {
		return "genetic"
	}
	return "dice"
}

// MarshalText implements encoding.TextMarshaler.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Origin) UnmarshalText(b []byte) error {
	switch string(b) {
	case "dice", "":
		*o = OriginDice
	case "genetic":
		*o = OriginGenetic
	default:
		return fmt.Errorf("unknown car origin %q", b)
	}
	return nil
}

// SavedCar is one garage record.
type SavedCar struct {
	ID          uint32             `yaml:"id"`
	DisplayName string             `yaml:"name"`
	Origin      Origin             `yaml:"origin"`
	Descriptor  genome.Descriptor  `yaml:"-"`
	ColorTag    string             `yaml:"color,omitempty"`
	BestScores  map[string]float64 `yaml:"best_scores,omitempty"`
	ViewOnly    bool               `yaml:"view_only,omitempty"`
}

// savedCarYAML carries the descriptor as a plain gene list.
type savedCarYAML struct {
	ID          uint32             `yaml:"id"`
	DisplayName string             `yaml:"name"`
	Origin      Origin             `yaml:"origin"`
	Genes       []int              `yaml:"genes,flow"`
	ColorTag    string             `yaml:"color,omitempty"`
	BestScores  map[string]float64 `yaml:"best_scores,omitempty"`
	ViewOnly    bool               `yaml:"view_only,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (s SavedCar) MarshalYAML() (any, error) {
	return savedCarYAML{
		ID:          s.ID,
		DisplayName: s.DisplayName,
		Origin:      s.Origin,
		Genes:       s.Descriptor.Values(),
		ColorTag:    s.ColorTag,
		BestScores:  s.BestScores,
		ViewOnly:    s.ViewOnly,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Genes are clamped to the die range.
func (s *SavedCar) UnmarshalYAML(n *yaml.Node) error {
	var raw savedCarYAML
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*s = SavedCar{
		ID:          raw.ID,
		DisplayName: raw.DisplayName,
		Origin:      raw.Origin,
		Descriptor:  genome.FromValues(raw.Genes),
		ColorTag:    raw.ColorTag,
		BestScores:  raw.BestScores,
		ViewOnly:    raw.ViewOnly,
	}
	return nil
}

// FromDice builds a dice car from six rolled values in gene order. Values
// outside the die range are clamped.
func FromDice(name string, values []int) SavedCar {
	return SavedCar{
		DisplayName: name,
		Origin:      OriginDice,
		Descriptor:  genome.FromValues(values),
	}
}

// FromCar records an evolved car.
func FromCar(c *car.Car, name string) SavedCar {
	s := SavedCar{
		ID:          c.ID,
		DisplayName: name,
		Origin:      OriginGenetic,
		Descriptor:  c.Genome,
		ViewOnly:    c.ViewOnly,
	}
	if len(c.BestScores) > 0 {
		s.BestScores = make(map[string]float64, len(c.BestScores))
		for k, v := range c.BestScores {
			s.BestScores[k] = v
		}
	}
	return s
}

// Garage is an ordered set of saved cars.
type Garage struct {
	Cars []SavedCar `yaml:"cars"`
}

// Load reads a garage file.
func Load(path string) (*Garage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading garage: %w", err)
	}
	g := &Garage{}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parsing garage: %w", err)
	}
	return g, nil
}

// Save writes the garage to path.
func (g *Garage) Save(path string) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshaling garage: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing garage: %w", err)
	}
	return nil
}

// Add appends a car.
func (g *Garage) Add(s SavedCar) {
	g.Cars = append(g.Cars, s)
}

// Racers returns the cars that join the evolving population.
func (g *Garage) Racers() []SavedCar {
	return g.filter(false)
}

// Spectators returns the view-only reference cars.
func (g *Garage) Spectators() []SavedCar {
	return g.filter(true)
}

func (g *Garage) filter(viewOnly bool) []SavedCar {
	if g == nil {
		return nil
	}
	var out []SavedCar
	for _, s := range g.Cars {
		if s.ViewOnly == viewOnly {
			out = append(out, s)
		}
	}
	return out
}
