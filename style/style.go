// Package style maps simulation state to visual styling shared by the
// window and terminal front-ends.
package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/swarm/config"
)

// Palette interpolates between the lonely and crowded particle colors.
type Palette struct {
	Lonely  colorful.Color
	Crowded colorful.Color
	Radius  float64
}

// NewPalette builds a palette from particle config.
func NewPalette(cfg config.ParticleConfig) (*Palette, error) {
	lonely, err := colorful.Hex(cfg.ColorLonely)
	if err != nil {
		return nil, fmt.Errorf("parsing color_lonely %q: %w", cfg.ColorLonely, err)
	}
	crowded, err := colorful.Hex(cfg.ColorCrowded)
	if err != nil {
		return nil, fmt.Errorf("parsing color_crowded %q: %w", cfg.ColorCrowded, err)
	}
	return &Palette{Lonely: lonely, Crowded: crowded, Radius: cfg.Radius}, nil
}

// At returns the color for a crowding ratio in [0, 1]. Out-of-range ratios
// are clamped.
func (p *Palette) At(ratio float64) colorful.Color {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return p.Lonely.BlendRgb(p.Crowded, ratio).Clamped()
}

// RGB returns the 8-bit channels for a crowding ratio.
func (p *Palette) RGB(ratio float64) (r, g, b uint8) {
	return p.At(ratio).RGB255()
}

// Glyph picks a terminal rune for a crowding ratio: denser swarms draw heavier.
func Glyph(ratio float64) rune {
	switch {
	case ratio >= 1:
		return '@'
	case ratio >= 0.5:
		return 'o'
	case ratio > 0:
		return '·'
	default:
		return '.'
	}
}
