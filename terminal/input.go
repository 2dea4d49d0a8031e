package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swarm/game"
)

// Input translates tcell events into area commands.
type Input struct {
	buttons tcell.ButtonMask
}

// Translate returns the command for ev, or nil. quit is set for the quit keys.
// Mouse commands fire on press only; tcell repeats events while a button is held.
func (in *Input) Translate(ev tcell.Event) (cmd game.Command, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return nil, true
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return nil, true
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 's' || ev.Rune() == ' '):
			return game.ScrambleCommand{}, false
		}

	case *tcell.EventMouse:
		prev := in.buttons
		in.buttons = ev.Buttons()
		if ev.Buttons()&tcell.Button1 == 0 || prev&tcell.Button1 != 0 {
			return nil, false
		}
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta) != 0 {
			return game.ScrambleCommand{}, false
		}
		col, row := ev.Position()
		x, y := PointAt(col, row)
		return game.SpawnCommand{X: x, Y: y}, false

	case *tcell.EventResize:
		cols, rows := ev.Size()
		w, h := AreaSize(cols, rows)
		return game.ResizeCommand{Width: w, Height: h}, false
	}
	return nil, false
}
