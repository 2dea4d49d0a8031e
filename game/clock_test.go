package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClockAppliesCommandsBetweenTicks(t *testing.T) {
	a := newTestArea(t, 200, 200, nil)

	commands := make(chan Command, 4)
	commands <- SpawnCommand{X: 10, Y: 10}
	commands <- SpawnCommand{X: 190, Y: 190}
	commands <- ScrambleCommand{}
	close(commands)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := &Clock{Interval: time.Millisecond, Logger: quietLogger()}
	var last TickResult
	err := clock.Run(ctx, a, commands, func(res TickResult) {
		last = res
		if a.Len() == 2 && res.Tick >= 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if a.Len() != 2 {
		t.Errorf("particles = %d, want 2", a.Len())
	}
	if last.Tick < 3 {
		t.Errorf("last tick = %d, want >= 3", last.Tick)
	}
}

func TestClockMaxTicks(t *testing.T) {
	a := newTestArea(t, 200, 200, nil)
	if _, err := a.SpawnRandom(10); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ticks := 0
	clock := &Clock{Interval: time.Millisecond, MaxTicks: 4, Logger: quietLogger()}
	if err := clock.Run(ctx, a, nil, func(TickResult) { ticks++ }); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if ticks != 4 || a.TickCount() != 4 {
		t.Errorf("ticks = %d (area %d), want 4", ticks, a.TickCount())
	}
}

func TestClockRejectedCommandDoesNotStop(t *testing.T) {
	a := newTestArea(t, 200, 200, nil)

	commands := make(chan Command, 2)
	commands <- ResizeCommand{Width: 0, Height: 10}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := &Clock{Interval: time.Millisecond, MaxTicks: 2, Logger: quietLogger()}
	if err := clock.Run(ctx, a, commands, nil); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if a.Size().X != 200 {
		t.Errorf("rejected resize changed size to %v", a.Size())
	}
}

func TestClockInvalidInterval(t *testing.T) {
	a := newTestArea(t, 200, 200, nil)
	clock := &Clock{}
	if err := clock.Run(context.Background(), a, nil, nil); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestTickerDropsBacklog(t *testing.T) {
	tk := NewTicker(40 * time.Millisecond)
	start := time.Unix(1000, 0)

	if !tk.Due(start) {
		t.Fatal("first call should be due")
	}
	if tk.Due(start.Add(10 * time.Millisecond)) {
		t.Error("due before the interval elapsed")
	}
	// A long stall yields a single tick, not a burst
	late := start.Add(500 * time.Millisecond)
	if !tk.Due(late) {
		t.Error("not due after a stall")
	}
	if tk.Due(late.Add(time.Millisecond)) {
		t.Error("backlog was queued after a stall")
	}
	if !tk.Due(late.Add(40 * time.Millisecond)) {
		t.Error("not due one interval after the stall")
	}
}
