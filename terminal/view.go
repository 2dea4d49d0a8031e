// Package terminal runs the swarm in a tcell terminal screen.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/style"
)

// Area units covered by one terminal cell. Cells are roughly twice as tall
// as they are wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// hudRows is the number of rows reserved below the field for the status line.
const hudRows = 1

// AreaSize returns the area extent for a screen of cols x rows cells.
func AreaSize(cols, rows int) (width, height float64) {
	fieldRows := rows - hudRows
	if fieldRows < 1 {
		fieldRows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return float64(cols) * CellWidth, float64(fieldRows) * CellHeight
}

// CellAt maps an area position to a screen cell.
func CellAt(x, y float64) (col, row int) {
	return int(x / CellWidth), int(y / CellHeight)
}

// fieldCell maps an area position to a cell of a cols x fieldRows field.
// Positions on the far edge land in the last column or row.
func fieldCell(x, y float64, cols, fieldRows int) (col, row int, ok bool) {
	col, row = CellAt(x, y)
	if col < 0 || row < 0 || cols < 1 || fieldRows < 1 {
		return 0, 0, false
	}
	return min(col, cols-1), min(row, fieldRows-1), true
}

// PointAt maps a screen cell to the area position at its center.
func PointAt(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// View draws particles onto a screen.
type View struct {
	screen  tcell.Screen
	palette *style.Palette
	views   []game.ParticleView
	cells   map[[2]int]float64
}

// NewView creates a view drawing to screen.
func NewView(screen tcell.Screen, palette *style.Palette) *View {
	return &View{
		screen:  screen,
		palette: palette,
		cells:   make(map[[2]int]float64),
	}
}

// Draw renders the area and the status line, then shows the screen.
func (v *View) Draw(a *game.Area) {
	cols, rows := v.screen.Size()
	fieldRows := rows - hudRows

	v.screen.Clear()

	// A cell holding several particles shows the most crowded one.
	clear(v.cells)
	v.views = a.Snapshot(v.views)
	for _, p := range v.views {
		col, row, ok := fieldCell(p.X, p.Y, cols, fieldRows)
		if !ok {
			continue
		}
		key := [2]int{col, row}
		if r, ok := v.cells[key]; !ok || p.Ratio() > r {
			v.cells[key] = p.Ratio()
		}
	}

	for key, ratio := range v.cells {
		r, g, b := v.palette.RGB(ratio)
		st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		v.screen.SetContent(key[0], key[1], style.Glyph(ratio), nil, st)
	}

	if fieldRows >= 0 {
		v.drawStatus(a, fieldRows, cols)
	}
	v.screen.Show()
}

func (v *View) drawStatus(a *game.Area, row, cols int) {
	status := fmt.Sprintf(" particles %d  tick %d  scramble %.1f  [click] spawn  [ctrl+click/s] scramble  [q] quit",
		a.Len(), a.TickCount(), a.ScrambleForce())
	st := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, ch := range status {
		if col >= cols {
			break
		}
		v.screen.SetContent(col, row, ch, nil, st)
		col++
	}
	for ; col < cols; col++ {
		v.screen.SetContent(col, row, ' ', nil, st)
	}
}
