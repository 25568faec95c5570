package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Ringer is the terminal fallback used when no audio device is available
type Ringer interface {
	Bell()
}

// Bell plays a short tone through the speaker, or rings the terminal bell
// when audio is disabled or the speaker could not be opened
type Bell struct {
	mu       sync.Mutex
	fallback Ringer
	enabled  bool
	volume   float64
	opened   bool
	tried    bool
	rings    int

	// replaced in tests
	initSpeaker func() error
	play        func(beep.Streamer)
}

// NewBell creates a bell; the speaker is opened lazily on Init or the first Ring
func NewBell(fallback Ringer, enabled bool, volume float64) *Bell {
	return &Bell{
		fallback: fallback,
		enabled:  enabled,
		volume:   volume,
		initSpeaker: func() error {
			return speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
		},
		play: func(s beep.Streamer) {
			speaker.Play(s)
		},
	}
}

// Init opens the speaker once. A failure is returned but the bell stays usable
// through the terminal fallback.
func (b *Bell) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.init()
}

func (b *Bell) init() error {
	if b.opened || b.tried || !b.enabled {
		return nil
	}
	b.tried = true
	if err := b.initSpeaker(); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	b.opened = true
	return nil
}

// Ring plays the bell tone or falls back to the terminal bell
func (b *Bell) Ring() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rings++
	if err := b.init(); err != nil {
		log.Printf("%v; using terminal bell", err)
	}
	if b.enabled && b.opened {
		b.play(BellTone(sampleRate, b.volume))
		return
	}
	if b.fallback != nil {
		b.fallback.Bell()
	}
}

// SetEnabled switches between the speaker and the terminal bell
func (b *Bell) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
	if enabled && !b.opened {
		// retry on the next ring after a previous failure
		b.tried = false
	}
}

// SetVolume sets the tone volume, clamped to [0, 1]
func (b *Bell) SetVolume(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = max(0, min(v, 1))
}

// Speaker reports whether rings go to the audio device
func (b *Bell) Speaker() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled && b.opened
}

// Rings returns the number of Ring calls
func (b *Bell) Rings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rings
}
