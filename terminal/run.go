package terminal

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/style"
)

// Runner drives an area on a terminal screen.
type Runner struct {
	Screen  tcell.Screen // must already be initialized
	Area    *game.Area
	Clock   *game.Clock
	Palette *style.Palette
	Sound   *audio.Player // optional
	Logger  *slog.Logger
}

// Run resizes the area to the screen, then ticks and draws until ctx is
// done, the clock stops, or a quit key is pressed. The caller owns
// Screen.Fini, which also stops the event goroutine.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.Screen.EnableMouse()
	r.Screen.HideCursor()

	cols, rows := r.Screen.Size()
	if err := r.Area.Resize(AreaSize(cols, rows)); err != nil {
		return err
	}

	view := NewView(r.Screen, r.Palette)
	view.Draw(r.Area)

	commands := make(chan game.Command, 16)
	go r.pollEvents(ctx, cancel, commands, logger)

	err := r.Clock.Run(ctx, r.Area, commands, func(game.TickResult) {
		view.Draw(r.Area)
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

// pollEvents forwards translated events until the screen is finalized or
// ctx is done.
func (r *Runner) pollEvents(ctx context.Context, quit context.CancelFunc, commands chan<- game.Command, logger *slog.Logger) {
	var in Input
	for {
		ev := r.Screen.PollEvent()
		if ev == nil {
			return
		}
		cmd, stop := in.Translate(ev)
		if stop {
			logger.Info("quit requested")
			quit()
			return
		}
		if cmd == nil {
			continue
		}
		if _, ok := cmd.(game.ScrambleCommand); ok {
			r.Sound.PlayScramble(1)
		}
		select {
		case commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}
