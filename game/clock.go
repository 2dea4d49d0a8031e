package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Command is an input-side request applied to the area between ticks.
type Command interface {
	Apply(a *Area) error
}

// SpawnCommand adds a particle at a pointer position.
type SpawnCommand struct {
	X, Y float64
}

// Apply implements Command.
func (c SpawnCommand) Apply(a *Area) error {
	_, err := a.Spawn(r2.Vec{X: c.X, Y: c.Y})
	return err
}

// ScrambleCommand triggers a scramble.
type ScrambleCommand struct{}

// Apply implements Command.
func (ScrambleCommand) Apply(a *Area) error {
	a.TriggerScramble()
	return nil
}

// ResizeCommand re-centers the area on a new surface size.
type ResizeCommand struct {
	Width, Height float64
}

// Apply implements Command.
func (c ResizeCommand) Apply(a *Area) error {
	return a.Resize(c.Width, c.Height)
}

// Clock drives an area at a fixed tick interval.
// A tick that overruns the interval causes the missed ticks to be dropped,
// not queued.
type Clock struct {
	Interval time.Duration
	MaxTicks int          // stop after this many ticks (0 = unlimited)
	Logger   *slog.Logger // defaults to slog.Default()
}

// Run ticks the area until ctx is done or MaxTicks is reached. Commands are
// applied on the calling goroutine between ticks, so they never overlap a
// tick. onTick, if set, runs after each tick on the same goroutine.
// A closed commands channel is ignored.
func (c *Clock) Run(ctx context.Context, a *Area, commands <-chan Command, onTick func(TickResult)) error {
	if c.Interval <= 0 {
		return errors.New("clock interval must be positive")
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// time.Ticker drops ticks for a slow receiver.
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if err := cmd.Apply(a); err != nil {
				logger.Warn("command rejected", "command", commandName(cmd), "error", err)
			}

		case <-ticker.C:
			res := a.Tick()
			if onTick != nil {
				onTick(res)
			}
			ticks++
			if c.MaxTicks > 0 && ticks >= c.MaxTicks {
				return nil
			}
		}
	}
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case SpawnCommand:
		return "spawn"
	case ScrambleCommand:
		return "scramble"
	case ResizeCommand:
		return "resize"
	default:
		return "unknown"
	}
}

// Ticker gates ticks for frame-driven loops. At most one tick is due per
// call; backlog from a slow frame is dropped.
type Ticker struct {
	interval time.Duration
	last     time.Time
}

// NewTicker creates a ticker with the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Due reports whether a tick should run at now.
func (t *Ticker) Due(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
