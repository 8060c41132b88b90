package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Car.MinSpeed != 1 {
		t.Errorf("min_speed = %v, want 1", cfg.Car.MinSpeed)
	}
	if cfg.Genetic.CrossoverAttempts != 10 {
		t.Errorf("crossover_attempts = %d, want 10", cfg.Genetic.CrossoverAttempts)
	}
	want := int(cfg.Genetic.TimeGeneration * float64(cfg.Screen.TargetFPS))
	if cfg.Derived.GenerationTicks != want {
		t.Errorf("GenerationTicks = %d, want %d", cfg.Derived.GenerationTicks, want)
	}
	if cfg.Derived.SlowBandLimit != cfg.Car.MaxSpeed/3 {
		t.Errorf("SlowBandLimit = %v, want %v", cfg.Derived.SlowBandLimit, cfg.Car.MaxSpeed/3)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("genetic:\n  population_size: 7\ntrack:\n  mode: endurance\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Genetic.PopulationSize != 7 {
		t.Errorf("population_size = %d, want 7", cfg.Genetic.PopulationSize)
	}
	if cfg.Track.Mode != "endurance" {
		t.Errorf("mode = %q, want endurance", cfg.Track.Mode)
	}
	// Untouched fields keep their defaults
	if cfg.Car.MaxSpeed != Default().Car.MaxSpeed {
		t.Errorf("max_speed = %v, want default", cfg.Car.MaxSpeed)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero population", "genetic:\n  population_size: 0\n"},
		{"bad mode", "track:\n  mode: drift\n"},
		{"inverted speeds", "car:\n  min_speed: 20\n  max_speed: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Genetic.ChanceMutation = 0.42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Genetic.ChanceMutation != 0.42 {
		t.Errorf("chance_mutation = %v, want 0.42", loaded.Genetic.ChanceMutation)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	cfg.Track.Checkpoints = [][2]float64{{1, 2}}

	cp := cfg.Clone()
	cp.Track.Checkpoints[0] = [2]float64{9, 9}
	cp.Car.MaxSpeed = 99

	if cfg.Track.Checkpoints[0] != [2]float64{1, 2} {
		t.Error("clone shares checkpoint storage")
	}
	if cfg.Car.MaxSpeed == 99 {
		t.Error("clone shares car config")
	}
}
