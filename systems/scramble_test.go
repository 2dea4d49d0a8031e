package systems

import "testing"

func TestScrambleIdle(t *testing.T) {
	s := NewScramble(80, 0.8, 0.1)
	if s.Active() {
		t.Error("new controller should be idle")
	}
	if f := s.Decay(); f != 0 {
		t.Errorf("idle decay = %v, want 0", f)
	}
}

func TestScrambleDecayTerminates(t *testing.T) {
	s := NewScramble(80, 0.8, 0.1)
	s.Trigger()
	if s.Force() != 80 {
		t.Fatalf("triggered force = %v, want 80", s.Force())
	}

	ticks := 0
	prev := s.Force()
	for s.Active() {
		f := s.Decay()
		ticks++
		if f < 0 {
			t.Fatalf("force went negative at tick %d: %v", ticks, f)
		}
		if f >= prev {
			t.Fatalf("force did not decrease at tick %d: %v -> %v", ticks, prev, f)
		}
		prev = f
		if ticks > 1000 {
			t.Fatal("scramble never reached zero")
		}
	}

	if ticks != 30 {
		t.Errorf("scramble reached 0 after %d ticks, want 30", ticks)
	}
	if ticks != s.TicksToRest() {
		t.Errorf("TicksToRest() = %d, observed %d", s.TicksToRest(), ticks)
	}
	if s.Force() != 0 {
		t.Errorf("force after rest = %v, want exactly 0", s.Force())
	}

	// Stays at zero
	for i := 0; i < 5; i++ {
		if f := s.Decay(); f != 0 {
			t.Errorf("force after rest tick %d = %v, want 0", i, f)
		}
	}
}

func TestScrambleRetrigger(t *testing.T) {
	s := NewScramble(80, 0.5, 0.1)
	s.Trigger()
	s.Decay()
	s.Decay()
	s.Trigger()
	if s.Force() != 80 {
		t.Errorf("retrigger force = %v, want 80", s.Force())
	}
}

func TestScrambleTicksToRest(t *testing.T) {
	tests := []struct {
		name                string
		max, falloff, floor float64
	}{
		{"reference", 80, 0.8, 0.1},
		{"fast", 100, 0.5, 0.1},
		{"slow", 10, 0.95, 0.1},
		{"below floor", 0.05, 0.8, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScramble(tt.max, tt.falloff, tt.floor)
			s.Trigger()
			n := 0
			for s.Active() {
				s.Decay()
				n++
			}
			if n != s.TicksToRest() {
				t.Errorf("TicksToRest() = %d, observed %d", s.TicksToRest(), n)
			}
		})
	}
}
