package feedback

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

const sampleRate = beep.SampleRate(44100)

// SoundFor picks the sound for a routed key event. Keys that did nothing
// buzz, Ok and Cancel have their own tones, everything else clicks.
func SoundFor(ev touchkeys.KeyEvent, a touchkeys.Action) Sound {
	if ev.Disabled {
		return SoundDeny
	}
	switch a.Kind {
	case touchkeys.ActionNone:
		return SoundDeny
	case touchkeys.ActionAccept:
		return SoundConfirm
	case touchkeys.ActionCancel:
		return SoundDismiss
	default:
		return SoundClick
	}
}

// Player plays key feedback through the speaker. It implements
// touchkeys.ActionObserver.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool

	// play hands a stream to the output; tests replace it.
	play func(beep.Streamer)
}

func NewPlayer(volume float64) *Player {
	p := &Player{mixer: &beep.Mixer{}, volume: volume}
	p.play = p.toMixer
	return p
}

// Initialize opens the audio device and starts the mixer.
func (p *Player) Initialize() error {
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

func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *Player) Observe(ev touchkeys.KeyEvent, a touchkeys.Action) {
	p.Play(SoundFor(ev, a))
}

func (p *Player) Play(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.play == nil {
		return
	}
	p.play(Generate(s, sampleRate, p.volume))
}

func (p *Player) toMixer(s beep.Streamer) {
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}
