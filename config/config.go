// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Car        CarConfig        `yaml:"car"`
	Genetic    GeneticConfig    `yaml:"genetic"`
	Track      TrackConfig      `yaml:"track"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	HallOfFame HallOfFameConfig `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the window the track lives in.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"` // ticks per simulated second
}

// CarConfig holds driving physics shared by every car.
type CarConfig struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	MinSpeed     float64 `yaml:"min_speed"`
	TurnAngle    float64 `yaml:"turn_angle"` // degrees per tick
	Acceleration float64 `yaml:"acceleration"`
	Deceleration float64 `yaml:"deceleration"`
	DriftFactor  float64 `yaml:"drift_factor"` // carried for saved parameter sets; not used by the tick
	Width        float64 `yaml:"width"`        // sprite extent along the heading
	Height       float64 `yaml:"height"`       // sprite extent across the heading
	BackoffSteps int     `yaml:"backoff_steps"`
}

// GeneticConfig holds population and evolution parameters.
type GeneticConfig struct {
	PopulationSize    int     `yaml:"population_size"`
	ChanceMutation    float64 `yaml:"chance_mutation"`
	ChanceCrossover   float64 `yaml:"chance_crossover"`
	ProportionKept    float64 `yaml:"proportion_kept"`
	TimeGeneration    float64 `yaml:"time_generation"` // seconds of simulated time per generation
	MutationAttempts  int     `yaml:"mutation_attempts"`
	CrossoverAttempts int     `yaml:"crossover_attempts"`
}

// TrackConfig describes the map cars drive on.
type TrackConfig struct {
	Name                 string       `yaml:"name"`
	Image                string       `yaml:"image"`          // bitmap path; empty = procedural oval
	WallThreshold        uint8        `yaml:"wall_threshold"` // luminance split between wall and road
	WallsLight           bool         `yaml:"walls_light"`    // walls are the bright side of the threshold
	Mode                 string       `yaml:"mode"`           // "race" or "endurance"
	WidthConeMultiplier  float64      `yaml:"width_cone_multiplier"`
	LengthConeMultiplier float64      `yaml:"length_cone_multiplier"`
	CheckpointRadius     float64      `yaml:"checkpoint_radius"`
	Checkpoints          [][2]float64 `yaml:"checkpoints"`
	Start                [2]float64   `yaml:"start"`
	StartHeading         float64      `yaml:"start_heading"` // degrees
	WrongWayTicks        int          `yaml:"wrong_way_ticks"`
	Oval                 OvalConfig   `yaml:"oval"`
}

// OvalConfig parameterises the procedural ring track.
type OvalConfig struct {
	Margin      int     `yaml:"margin"`
	Thickness   int     `yaml:"thickness"`
	Checkpoints int     `yaml:"checkpoints"`
	Wobble      float64 `yaml:"wobble"` // max edge shift in pixels, 0 = smooth
	Seed        int64   `yaml:"seed"`   // noise seed for the wobble
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfLogInterval int `yaml:"perf_log_interval"` // generations between perf log lines (0 = never)
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	StagnationGenerations int     `yaml:"stagnation_generations"`
	WipeoutFraction       float64 `yaml:"wipeout_fraction"` // all dead before this fraction of the generation budget
}

// HallOfFameConfig holds hall of fame settings.
type HallOfFameConfig struct {
	Enabled     bool `yaml:"enabled"`
	Size        int  `yaml:"size"`
	ReseedCount int  `yaml:"reseed_count"` // first-generation cars drawn from a loaded hall
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GenerationTicks int     // Genetic.TimeGeneration * Screen.TargetFPS
	SlowBandLimit   float64 // speeds below this use the slow cone
	FastBandLimit   float64 // speeds at or above this use the fast cone
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	case c.Genetic.PopulationSize < 1:
		return fmt.Errorf("genetic.population_size must be at least 1, got %d", c.Genetic.PopulationSize)
	case c.Car.MaxSpeed <= 0 || c.Car.MinSpeed > c.Car.MaxSpeed:
		return fmt.Errorf("car speed range [%v, %v] is invalid", c.Car.MinSpeed, c.Car.MaxSpeed)
	case c.Track.WidthConeMultiplier <= 0 || c.Track.LengthConeMultiplier <= 0:
		return fmt.Errorf("cone multipliers must be positive")
	case c.Track.Mode != "" && c.Track.Mode != "race" && c.Track.Mode != "endurance":
		return fmt.Errorf("track.mode must be race or endurance, got %q", c.Track.Mode)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after editing fields in place.
func (c *Config) ComputeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.GenerationTicks = int(math.Round(c.Genetic.TimeGeneration * float64(fps)))
	c.Derived.SlowBandLimit = c.Car.MaxSpeed / 3
	c.Derived.FastBandLimit = 2 * c.Car.MaxSpeed / 3
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Track.Checkpoints = append([][2]float64(nil), c.Track.Checkpoints...)
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
