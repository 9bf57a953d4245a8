// Package audio plays short cues when the pointer crosses the window edge and on close.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cue identifies a sound
type Cue uint8

const (
	CueEnter Cue = iota
	CueLeave
	CueClose
)

const (
	sampleRate = beep.SampleRate(44100)

	blipDuration  = 40 * time.Millisecond
	blipAttack    = 5 * time.Millisecond
	blipRelease   = 25 * time.Millisecond
	closeDuration = 90 * time.Millisecond

	cueVolume = 0.35
)

// Duration returns how long the cue plays
func (c Cue) Duration() time.Duration {
	if c == CueClose {
		return 2 * closeDuration
	}
	return blipDuration
}

// Streamer builds a fresh streamer for the cue
func (c Cue) Streamer(rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueEnter:
		return newVolume(blip(880, blipDuration, rate), cueVolume)
	case CueLeave:
		return newVolume(blip(660, blipDuration, rate), cueVolume)
	case CueClose:
		return newVolume(beep.Seq(
			blip(660, closeDuration, rate),
			blip(440, closeDuration, rate),
		), cueVolume)
	default:
		return nil
	}
}

func blip(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewTone(freq, duration, rate), duration, blipAttack, blipRelease, rate)
}

// Player plays cues through the system speaker
// A Player that failed to initialize stays silent
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a silent player; call Init to open the speaker
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues a cue without blocking
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := c.Streamer(sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Enter plays the pointer-entered cue
func (p *Player) Enter() { p.Play(CueEnter) }

// Leave plays the pointer-left cue
func (p *Player) Leave() { p.Play(CueLeave) }

// Farewell plays the close cue and waits for it to finish
func (p *Player) Farewell() {
	p.mu.Lock()
	on := p.initialized
	p.mu.Unlock()
	if !on {
		return
	}
	p.Play(CueClose)
	time.Sleep(CueClose.Duration())
}

// Close stops playback and releases the speaker
func (p *Player) Close() {
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
