package ui

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/renderer"
)

// App runs an area inside a raylib window. The window must already be open.
type App struct {
	area      *game.Area
	ticker    *game.Ticker
	particles *renderer.ParticleRenderer
	hud       *HUD
	sound     *audio.Player
	log       *slog.Logger

	paused     bool
	lastResult game.TickResult
}

// NewApp creates a window front-end ticking a at the configured interval.
func NewApp(a *game.Area, particles *renderer.ParticleRenderer, sound *audio.Player, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		area:      a,
		ticker:    game.NewTicker(a.Config().Derived.TickInterval),
		particles: particles,
		hud:       NewHUD(),
		sound:     sound,
		log:       logger,
	}
}

// Update handles input, then ticks the area if a tick is due.
func (app *App) Update() {
	app.handleResize()
	app.handleInput()

	if app.paused {
		return
	}
	if app.ticker.Due(time.Now()) {
		app.lastResult = app.area.Tick()
	}
}

// Draw renders one frame.
func (app *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(renderer.Background)

	app.particles.Draw(app.area)

	actions := app.hud.Draw(HUDData{
		Particles:     app.area.Len(),
		ClosePairs:    app.lastResult.ClosePairs,
		Tick:          app.area.TickCount(),
		ScrambleForce: app.area.ScrambleForce(),
		MaxScramble:   app.area.Config().Simulation.MaxScrambleForce,
		FPS:           rl.GetFPS(),
		Paused:        app.paused,
	})
	app.hud.DrawControls(int32(rl.GetScreenHeight()))

	rl.EndDrawing()

	if actions.Scramble {
		app.scramble()
	}
	if actions.TogglePause {
		app.paused = !app.paused
	}
}

// Tick returns the number of completed ticks.
func (app *App) Tick() int32 {
	return app.area.TickCount()
}

func (app *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		app.paused = !app.paused
	}
	if rl.IsKeyPressed(rl.KeyS) {
		app.scramble()
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if app.hud.Contains(mouse.X, mouse.Y) {
		return
	}

	if modifierDown() {
		app.scramble()
		return
	}
	if _, err := app.area.Spawn(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)}); err != nil {
		app.log.Warn("spawn rejected", "error", err)
	}
}

// modifierDown reports whether ctrl or cmd is held.
func modifierDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func (app *App) scramble() {
	app.area.TriggerScramble()
	app.sound.PlayScramble(1)
}

// handleResize re-centers the area when the window size changes.
func (app *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if size := app.area.Size(); size.X == w && size.Y == h {
		return
	}
	if err := app.area.Resize(w, h); err != nil {
		app.log.Warn("resize rejected", "width", w, "height", h, "error", err)
	}
}
