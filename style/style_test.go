package style

import (
	"testing"

	"github.com/pthm-cable/swarm/config"
)

func TestPaletteEndpoints(t *testing.T) {
	p, err := NewPalette(config.Default().Particle)
	if err != nil {
		t.Fatalf("NewPalette error: %v", err)
	}

	if got := p.At(0).Hex(); got != "#111111" {
		t.Errorf("At(0) = %s, want #111111", got)
	}
	if got := p.At(1).Hex(); got != "#ff0f00" {
		t.Errorf("At(1) = %s, want #ff0f00", got)
	}
	// Saturates past the limit
	if got := p.At(3).Hex(); got != "#ff0f00" {
		t.Errorf("At(3) = %s, want #ff0f00", got)
	}
}

func TestPaletteMidpoint(t *testing.T) {
	p, err := NewPalette(config.ParticleConfig{ColorLonely: "#000000", ColorCrowded: "#ff0000"})
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := p.RGB(0.5)
	if r < 127 || r > 128 || g != 0 || b != 0 {
		t.Errorf("RGB(0.5) = (%d, %d, %d), want ~(128, 0, 0)", r, g, b)
	}
}

func TestPaletteBadHex(t *testing.T) {
	if _, err := NewPalette(config.ParticleConfig{ColorLonely: "nope", ColorCrowded: "#ff0000"}); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		ratio float64
		want  rune
	}{
		{0, '.'},
		{0.25, '·'},
		{0.5, 'o'},
		{1, '@'},
	}
	for _, tc := range tests {
		if got := Glyph(tc.ratio); got != tc.want {
			t.Errorf("Glyph(%v) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}
