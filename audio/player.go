// Package audio plays the scramble sound effect.
package audio

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/swarm/config"
)

// Player plays scramble sounds through the system speaker.
// A nil or uninitialized Player is silent.
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	rng         *rand.Rand
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player from audio config. It does not open the device.
func NewPlayer(cfg config.AudioConfig, seed int64) *Player {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &Player{
		rate:   beep.SampleRate(rate),
		volume: cfg.Volume,
		rng:    rand.New(rand.NewSource(seed)),
		mixer:  &beep.Mixer{},
	}
}

// Initialize opens the speaker.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayScramble queues a scramble sound; strength is force / max force.
func (p *Player) PlayScramble(strength float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := CreateScrambleSound(p.rate, p.volume, strength, p.rng)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
