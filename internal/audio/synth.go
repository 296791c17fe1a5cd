// Package audio synthesizes the game's sound effects with beep. Every sound
// is generated on the fly from oscillators; there are no sample files.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// Sentinel errors.
var (
	ErrUnknownSound  = errors.New("unknown sound")
	ErrAudioNotReady = errors.New("audio not ready")
)

// Config tunes the synthesizer.
type Config struct {
	SampleRate   int
	MasterVolume float64 // 0..1, applied on top of every voice volume
	Muted        bool    // start muted
}

// DefaultConfig returns 48 kHz output at 70% master volume.
func DefaultConfig() Config {
	return Config{SampleRate: 48000, MasterVolume: 0.7}
}

// Synth plays game sound events through a beep mixer. It implements
// game.AudioSink.
type Synth struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	master   float64
	mixer    *beep.Mixer
	muted    bool
	ready    bool
	attached bool // mixer is fed to the speaker
	logger   *log.Logger
}

// NewSynth opens the default output device and starts the mixer on it.
func NewSynth(cfg Config, logger *log.Logger) (*Synth, error) {
	s := newSynth(cfg, logger)
	err := speaker.Init(s.rate, s.rate.N(100*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.attached = true
	s.logger.Debug("speaker ready", "rate", int(s.rate), "master", s.master)
	return s, nil
}

// NewDetached builds a synth whose mixer is not connected to any device.
// Headless runs use it; the caller may pull samples with Stream.
func NewDetached(cfg Config, logger *log.Logger) *Synth {
	return newSynth(cfg, logger)
}

func newSynth(cfg Config, logger *log.Logger) *Synth {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Synth{
		rate:   beep.SampleRate(cfg.SampleRate),
		master: math.Max(0, math.Min(1, cfg.MasterVolume)),
		mixer:  &beep.Mixer{},
		muted:  cfg.Muted,
		ready:  true,
		logger: logger.WithPrefix("audio"),
	}
}

func (s *Synth) lock() {
	if s.attached {
		speaker.Lock()
	}
	s.mu.Lock()
}

func (s *Synth) unlock() {
	s.mu.Unlock()
	if s.attached {
		speaker.Unlock()
	}
}

// Play starts the voice for ev. Muted synths accept and drop the event.
func (s *Synth) Play(ev game.SoundEvent) error {
	v, ok := voices[ev]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownSound, ev)
	}
	s.lock()
	defer s.unlock()
	if !s.ready {
		return ErrAudioNotReady
	}
	if s.muted {
		return nil
	}
	s.mixer.Add(v.streamer(s.rate, s.master))
	return nil
}

// ToggleMute flips the mute flag and reports whether sound is now enabled.
// Muting also cuts whatever is still playing.
func (s *Synth) ToggleMute() bool {
	s.lock()
	defer s.unlock()
	s.muted = !s.muted
	if s.muted {
		s.mixer.Clear()
	}
	return !s.muted
}

// Muted reports the mute flag.
func (s *Synth) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Active returns the number of voices still sounding.
func (s *Synth) Active() int {
	s.lock()
	defer s.unlock()
	return s.mixer.Len()
}

// Stream pulls samples from the mixer directly. Only meaningful on a
// detached synth.
func (s *Synth) Stream(samples [][2]float64) (int, bool) {
	s.lock()
	defer s.unlock()
	return s.mixer.Stream(samples)
}

// Close silences the mixer and releases the output device. Further Play
// calls fail with ErrAudioNotReady.
func (s *Synth) Close() {
	s.lock()
	if !s.ready {
		s.unlock()
		return
	}
	s.mixer.Clear()
	s.ready = false
	s.unlock()

	if s.attached {
		speaker.Close()
	}
	s.logger.Debug("closed")
}

// newVolume wraps s in a linear gain. math.Log2(0) is -Inf, so zero is
// expressed as a silent effect.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
