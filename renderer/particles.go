// Package renderer draws the swarm with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/style"
)

// Background is the window clear color.
var Background = rl.Color{R: 245, G: 245, B: 240, A: 255}

// ParticleRenderer draws swarm particles as filled circles.
type ParticleRenderer struct {
	palette *style.Palette
	views   []game.ParticleView
}

// NewParticleRenderer creates a particle renderer.
func NewParticleRenderer(palette *style.Palette) *ParticleRenderer {
	return &ParticleRenderer{palette: palette}
}

// Draw renders every particle in a, colored by crowding.
func (r *ParticleRenderer) Draw(a *game.Area) {
	radius := float32(r.palette.Radius)
	if radius < 0.5 {
		radius = 0.5
	}

	r.views = a.Snapshot(r.views)
	for i := range r.views {
		p := &r.views[i]
		cr, cg, cb := r.palette.RGB(p.Ratio())
		rl.DrawCircleV(
			rl.Vector2{X: float32(p.X), Y: float32(p.Y)},
			radius,
			rl.Color{R: cr, G: cg, B: cb, A: 255},
		)
	}
}

// Count returns the number of particles drawn last frame.
func (r *ParticleRenderer) Count() int {
	return len(r.views)
}
