package sim

import (
	"testing"

	"github.com/pthm-cable/conerace/config"
	"github.com/pthm-cable/conerace/genome"
	"github.com/pthm-cable/conerace/track"
)

func TestBand(t *testing.T) {
	cfg := config.Default()
	cfg.Car.MaxSpeed = 9
	cfg.ComputeDerived()
	ctx := NewContext(cfg, track.New("t", 10, 10))

	tests := []struct {
		speed float64
		want  genome.Band
	}{
		{0, genome.BandSlow},
		{2.99, genome.BandSlow},
		{3, genome.BandMedium},
		{5.99, genome.BandMedium},
		{6, genome.BandFast},
		{9, genome.BandFast},
	}
	for _, tt := range tests {
		if got := ctx.Band(tt.speed); got != tt.want {
			t.Errorf("Band(%v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}

func TestNewContextScale(t *testing.T) {
	cfg := config.Default()
	cfg.Track.LengthConeMultiplier = 12
	cfg.Track.WidthConeMultiplier = 3
	ctx := NewContext(cfg, track.New("scaled", 10, 10))

	if ctx.Scale.Length != 12 || ctx.Scale.Width != 3 {
		t.Errorf("scale = %+v, want {12 3}", ctx.Scale)
	}
	if ctx.MapName() != "scaled" {
		t.Errorf("MapName = %q", ctx.MapName())
	}
}
