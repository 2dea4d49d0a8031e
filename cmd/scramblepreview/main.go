// Scramble decay preview tool - interactive plot of the scramble force curve.
//
// Usage: go run ./cmd/scramblepreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	plotSize     = 512
	panelWidth   = windowWidth - plotSize - 40
	maxPlotTicks = 120
)

// ScrambleParams holds the tunable scramble parameters.
type ScrambleParams struct {
	MaxForce       float32
	Falloff        float32
	Floor          float32
	TickIntervalMS float32
}

func defaultParams() ScrambleParams {
	sim := config.Default().Simulation
	return ScrambleParams{
		MaxForce:       float32(sim.MaxScrambleForce),
		Falloff:        float32(sim.ScrambleFalloff),
		Floor:          float32(sim.ScrambleFloor),
		TickIntervalMS: float32(sim.TickIntervalMS),
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Scramble Decay Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	curve := decayCurve(params)

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(curve, params)

		panelX := float32(plotSize + 30)
		panelY := float32(10)

		rl.DrawText("Scramble Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		panelY, changed = slider(panelX, panelY, "Max force", "0", "200", &params.MaxForce, 0, 200, "%.1f", changed)
		panelY, changed = slider(panelX, panelY, "Falloff (per-tick factor)", "0.50", "0.99", &params.Falloff, 0.5, 0.99, "%.3f", changed)
		panelY, changed = slider(panelX, panelY, "Floor (snap to zero below)", "0.01", "5", &params.Floor, 0.01, 5, "%.2f", changed)
		panelY, changed = slider(panelX, panelY, "Tick interval (ms)", "10", "100", &params.TickIntervalMS, 10, 100, "%.1f", changed)
		if changed {
			curve = decayCurve(params)
		}

		s := systems.NewScramble(float64(params.MaxForce), float64(params.Falloff), float64(params.Floor))
		ticks := s.TicksToRest()
		seconds := float64(ticks) * float64(params.TickIntervalMS) / 1000
		rl.DrawText(fmt.Sprintf("Ticks to rest: %d (%.2fs)", ticks, seconds), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			curve = decayCurve(params)
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := yamlSnippet(params)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and returns the next row position.
func slider(x, y float32, label, minText, maxText string, value *float32, minVal, maxVal float32, format string, changed bool) (float32, bool) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		*value, minVal, maxVal,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	if next != *value {
		*value = next
		changed = true
	}
	return y + 35, changed
}

// decayCurve returns the force after each tick of a fresh scramble.
func decayCurve(p ScrambleParams) []float64 {
	s := systems.NewScramble(float64(p.MaxForce), float64(p.Falloff), float64(p.Floor))
	s.Trigger()
	curve := []float64{s.Force()}
	for i := 0; i < maxPlotTicks && s.Active(); i++ {
		curve = append(curve, s.Decay())
	}
	return curve
}

func drawPlot(curve []float64, p ScrambleParams) {
	const x0, y0 = 10, 10
	rl.DrawRectangle(x0, y0, plotSize, plotSize, rl.Color{R: 30, G: 30, B: 35, A: 255})
	rl.DrawRectangleLines(x0, y0, plotSize, plotSize, rl.DarkGray)

	maxForce := float64(p.MaxForce)
	if maxForce <= 0 {
		return
	}
	stepX := float32(plotSize) / float32(maxPlotTicks)
	for i := 1; i < len(curve); i++ {
		ax := float32(x0) + float32(i-1)*stepX
		bx := float32(x0) + float32(i)*stepX
		ay := float32(y0+plotSize) - float32(curve[i-1]/maxForce)*plotSize
		by := float32(y0+plotSize) - float32(curve[i]/maxForce)*plotSize
		rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, rl.Color{R: 255, G: 15, B: 0, A: 255})
	}

	floorY := int32(float32(y0+plotSize) - float32(float64(p.Floor)/maxForce)*plotSize)
	rl.DrawLine(x0, floorY, x0+plotSize, floorY, rl.Gray)
}

func yamlSnippet(p ScrambleParams) string {
	return fmt.Sprintf(`simulation:
  tick_interval_ms: %.3f
  max_scramble_force: %.1f
  scramble_falloff: %.3f
  scramble_floor: %.2f`,
		p.TickIntervalMS, p.MaxForce, p.Falloff, p.Floor)
}
