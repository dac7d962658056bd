// Package audio plays a short tone per tick whose pitch follows the fish
// share of the grid, and a falling chime when a species dies out.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/scheduler"
)

const (
	sampleRate = beep.SampleRate(44100)

	tickToneDuration  = 40 * time.Millisecond
	chimeNoteDuration = 180 * time.Millisecond

	basePitch  = 220.0
	pitchRange = 440.0
)

// Sound classifies what a tick should play
type Sound int

const (
	SoundNone Sound = iota
	SoundTick
	SoundExtinction
)

// Cue turns ticks into sounds; safe to call from the scheduler goroutine
type Cue struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool

	prev    engine.Census
	hasPrev bool
}

// NewCue creates a cue with the given linear volume in (0, 1]
func NewCue(volume float64) *Cue {
	return &Cue{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker; ticks observed before a successful Init are silent
func (c *Cue) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences the mixer
func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// ObserveTick plays the sound for info
func (c *Cue) ObserveTick(info scheduler.TickInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sound := c.classify(info)
	if !c.initialized || sound == SoundNone {
		return
	}

	var s beep.Streamer
	switch sound {
	case SoundTick:
		s = newTone(Pitch(info.Census), tickToneDuration, sampleRate)
	case SoundExtinction:
		s = beep.Seq(
			newTone(basePitch*2, chimeNoteDuration, sampleRate),
			newTone(basePitch, chimeNoteDuration, sampleRate),
		)
	}

	speaker.Lock()
	c.mixer.Add(withVolume(s, c.volume))
	speaker.Unlock()
}

// classify updates the previous census and picks the sound; runs under c.mu
func (c *Cue) classify(info scheduler.TickInfo) Sound {
	prev, hadPrev := c.prev, c.hasPrev
	c.prev, c.hasPrev = info.Census, true

	if info.Tick == 0 || !hadPrev {
		return SoundNone
	}
	if (prev.Fish > 0 && info.Census.Fish == 0) || (prev.Sharks > 0 && info.Census.Sharks == 0) {
		return SoundExtinction
	}
	if info.Census.Fish == 0 && info.Census.Sharks == 0 {
		return SoundNone
	}
	return SoundTick
}

// Pitch maps the fish share of the grid onto [basePitch, basePitch+pitchRange]
func Pitch(c engine.Census) float64 {
	total := c.Total()
	if total == 0 {
		return basePitch
	}
	return basePitch + pitchRange*float64(c.Fish)/float64(total)
}
