// Package audio plays short synthesized cues for simulation events.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Field-Command/internal/game"
)

const (
	sampleRate = beep.SampleRate(48000)

	// maxVoices caps simultaneous cues so a volley does not clip.
	maxVoices = 12
)

// Cue identifies one of the board's sounds.
type Cue int

const (
	CueNone Cue = iota
	CueShot
	CueImpact
	CueDeath
	CueSniperMode
	CueSniperOff
	CueCloak
	CueHeal
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueImpact:
		return "impact"
	case CueDeath:
		return "death"
	case CueSniperMode:
		return "sniper_mode"
	case CueSniperOff:
		return "sniper_off"
	case CueCloak:
		return "cloak"
	case CueHeal:
		return "heal"
	default:
		return "none"
	}
}

// CueFor maps an event to the cue it triggers.
func CueFor(e game.Event) Cue {
	switch e.Kind {
	case game.EventShoot:
		return CueShot
	case game.EventHit:
		return CueImpact
	case game.EventUnitDied:
		return CueDeath
	case game.EventSniperToggled:
		if e.Active {
			return CueSniperMode
		}
		return CueSniperOff
	case game.EventInvisibilityToggled:
		if e.Active {
			return CueCloak
		}
	case game.EventHeal:
		return CueHeal
	}
	return CueNone
}

// Streamer builds a fresh, finite streamer for c.
func (c Cue) Streamer() beep.Streamer {
	switch c {
	case CueShot:
		return beep.Take(sampleRate.N(time.Millisecond*60), NewClickGenerator(sampleRate, 1400, 60))
	case CueImpact:
		return beep.Take(sampleRate.N(time.Millisecond*90), NewNoiseGenerator(sampleRate, 18))
	case CueDeath:
		return beep.Take(sampleRate.N(time.Millisecond*400), NewSweepGenerator(sampleRate, 320, 70))
	case CueSniperMode:
		return beep.Take(sampleRate.N(time.Millisecond*250), NewSweepGenerator(sampleRate, 400, 1200))
	case CueSniperOff:
		return beep.Take(sampleRate.N(time.Millisecond*150), NewBuzzGenerator(sampleRate, 120))
	case CueCloak:
		return beep.Take(sampleRate.N(time.Millisecond*300), NewSweepGenerator(sampleRate, 900, 200))
	case CueHeal:
		return beep.Take(sampleRate.N(time.Millisecond*200), NewClickGenerator(sampleRate, 660, 6))
	}
	return nil
}

// SoundBoard is a game.EventSink that plays a cue per event. Until
// Initialize succeeds every Notify is a no-op.
type SoundBoard struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	muted       map[Cue]bool
	played      map[Cue]int
	initialized bool
}

// NewSoundBoard creates a silent board.
func NewSoundBoard() *SoundBoard {
	return &SoundBoard{
		mixer:  &beep.Mixer{},
		muted:  make(map[Cue]bool),
		played: make(map[Cue]int),
	}
}

// Initialize opens the speaker. Calling it twice is a no-op.
func (sb *SoundBoard) Initialize() error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(sb.mixer)
	sb.initialized = true
	return nil
}

// Close silences the board.
func (sb *SoundBoard) Close() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.initialized {
		return
	}
	speaker.Lock()
	sb.mixer.Clear()
	speaker.Unlock()
	sb.initialized = false
}

// Mute enables or disables a cue.
func (sb *SoundBoard) Mute(c Cue, muted bool) {
	sb.mu.Lock()
	sb.muted[c] = muted
	sb.mu.Unlock()
}

// Played reports how many times c reached the mixer.
func (sb *SoundBoard) Played(c Cue) int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.played[c]
}

// Notify implements game.EventSink.
func (sb *SoundBoard) Notify(e game.Event) {
	c := CueFor(e)
	if c == CueNone {
		return
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.initialized || sb.muted[c] {
		return
	}
	speaker.Lock()
	if sb.mixer.Len() < maxVoices {
		sb.mixer.Add(c.Streamer())
		sb.played[c]++
	}
	speaker.Unlock()
}
