package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Particles     int
	ClosePairs    int
	Tick          int32
	ScrambleForce float64
	MaxScramble   float64
	FPS           int32
	Paused        bool
}

// HUDActions reports which HUD buttons were clicked this frame.
type HUDActions struct {
	Scramble    bool
	TogglePause bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        10,
		y:        10,
		width:    220,
	}
}

// Contains reports whether a screen point falls on the HUD panel.
func (h *HUD) Contains(x, y float32) bool {
	return x >= float32(h.x) && x <= float32(h.x+h.width) &&
		y >= float32(h.y) && y <= float32(h.y+h.height())
}

func (h *HUD) height() int32 {
	t := h.renderer.Theme
	return t.Padding*2 + t.LineHeight*5 + 2 + 30
}

// Draw renders the HUD and returns the clicked actions.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	t := r.Theme
	r.DrawPanel(h.x, h.y, h.width, h.height())

	x := h.x + t.Padding
	y := h.y + t.Padding

	rl.DrawText("Swarm", x, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight

	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	y = r.DrawLabelValue(x, y, "Close pairs", fmt.Sprintf("%d", data.ClosePairs))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d (%d fps)", data.Tick, data.FPS))

	var strength float32
	if data.MaxScramble > 0 {
		strength = float32(data.ScrambleForce / data.MaxScramble)
	}
	y = r.DrawBar(x, y, "Scramble", strength, h.width-t.Padding*2)
	y += 4

	var actions HUDActions
	btnW := float32(h.width-t.Padding*3) / 2
	actions.Scramble = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: btnW, Height: 24}, "Scramble")

	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	actions.TogglePause = gui.Button(rl.Rectangle{X: float32(x) + btnW + float32(t.Padding), Y: float32(y), Width: btnW, Height: 24}, pauseLabel)

	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("[click] spawn  [ctrl/cmd+click] scramble  [space] pause  [s] scramble",
		10, screenHeight-25, 14, rl.Gray)
}
