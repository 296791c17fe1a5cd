package audio

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestSynth_PlayEveryEvent(t *testing.T) {
	events := []game.SoundEvent{
		game.SoundShoot, game.SoundExplosion, game.SoundBonus, game.SoundHit, game.SoundMove,
	}
	for _, ev := range events {
		s := NewDetached(DefaultConfig(), quietLogger())
		if err := s.Play(ev); err != nil {
			t.Fatalf("Play(%s): %v", ev, err)
		}
		if s.Active() != 1 {
			t.Fatalf("%s: expected 1 active voice, got %d", ev, s.Active())
		}
		buf := make([][2]float64, 512)
		s.Stream(buf)
		p := peak(buf)
		if p == 0 {
			t.Errorf("%s: produced silence", ev)
		}
		if p > 0.7 {
			t.Errorf("%s: peak %.3f exceeds master volume", ev, p)
		}
	}
}

func TestSynth_VoiceEndsAfterDuration(t *testing.T) {
	s := NewDetached(DefaultConfig(), quietLogger())
	if err := s.Play(game.SoundMove); err != nil {
		t.Fatal(err)
	}
	n := beep.SampleRate(48000).N(Duration(game.SoundMove)) + 1024
	s.Stream(make([][2]float64, n))
	s.Stream(make([][2]float64, 16))
	if s.Active() != 0 {
		t.Errorf("move voice should have drained, %d still active", s.Active())
	}
}

func TestSynth_UnknownSound(t *testing.T) {
	s := NewDetached(DefaultConfig(), quietLogger())
	err := s.Play(game.SoundEvent("laser"))
	if !errors.Is(err, ErrUnknownSound) {
		t.Fatalf("expected ErrUnknownSound, got %v", err)
	}
}

func TestSynth_MuteDropsAndCuts(t *testing.T) {
	s := NewDetached(DefaultConfig(), quietLogger())
	if err := s.Play(game.SoundExplosion); err != nil {
		t.Fatal(err)
	}
	if on := s.ToggleMute(); on {
		t.Fatal("first toggle should mute")
	}
	if s.Active() != 0 {
		t.Errorf("muting should cut playing voices, %d left", s.Active())
	}
	if err := s.Play(game.SoundShoot); err != nil {
		t.Fatalf("muted Play should succeed silently: %v", err)
	}
	if s.Active() != 0 {
		t.Error("muted Play should not add a voice")
	}
	if on := s.ToggleMute(); !on {
		t.Fatal("second toggle should unmute")
	}
	if err := s.Play(game.SoundShoot); err != nil || s.Active() != 1 {
		t.Errorf("unmuted Play: err=%v active=%d", err, s.Active())
	}
}

func TestSynth_StartMuted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Muted = true
	s := NewDetached(cfg, quietLogger())
	if !s.Muted() {
		t.Fatal("expected synth to start muted")
	}
}

func TestSynth_ClosedRejectsPlay(t *testing.T) {
	s := NewDetached(DefaultConfig(), quietLogger())
	s.Close()
	s.Close()
	if err := s.Play(game.SoundHit); !errors.Is(err, ErrAudioNotReady) {
		t.Fatalf("expected ErrAudioNotReady, got %v", err)
	}
}

func TestSynth_ZeroMasterIsSilent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MasterVolume = 0
	s := NewDetached(cfg, quietLogger())
	if err := s.Play(game.SoundShoot); err != nil {
		t.Fatal(err)
	}
	buf := make([][2]float64, 256)
	s.Stream(buf)
	if p := peak(buf); p != 0 {
		t.Errorf("zero master volume should be silent, peak %.4f", p)
	}
}

func TestOscillator_SweepAndDecay(t *testing.T) {
	rate := beep.SampleRate(48000)
	o := newOscillator(note{wave: WaveSaw, from: 100, to: 20, dur: 300 * time.Millisecond}, rate)
	if f := o.freq(0); f != 100 {
		t.Errorf("sweep should start at 100 Hz, got %.2f", f)
	}
	if f := o.freq(1); math.Abs(f-20) > 1e-9 {
		t.Errorf("sweep should end at 20 Hz, got %.2f", f)
	}
	if f := o.freq(0.5); f >= 60 {
		t.Errorf("exponential sweep midpoint should be below linear midpoint, got %.2f", f)
	}

	buf := make([][2]float64, rate.N(300*time.Millisecond))
	n, ok := o.Stream(buf)
	if !ok || n != len(buf) {
		t.Fatalf("expected full note, got n=%d ok=%v", n, ok)
	}
	head, tail := peak(buf[:n/10]), peak(buf[n-n/10:])
	if tail >= head {
		t.Errorf("gain should decay: head %.3f tail %.3f", head, tail)
	}
	if n, ok := o.Stream(buf); n != 0 || ok {
		t.Errorf("exhausted oscillator should report 0,false; got %d,%v", n, ok)
	}
}

func TestOscillator_TriangleRange(t *testing.T) {
	rate := beep.SampleRate(48000)
	o := newOscillator(note{wave: WaveTriangle, from: 80, dur: 40 * time.Millisecond}, rate)
	buf := make([][2]float64, 200)
	o.Stream(buf)
	for i, s := range buf {
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("sample %d out of range: %f", i, s[0])
		}
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(game.SoundBonus); d != 360*time.Millisecond {
		t.Errorf("bonus arpeggio should last 360ms, got %v", d)
	}
	if d := Duration(game.SoundEvent("nope")); d != 0 {
		t.Errorf("unknown event duration should be zero, got %v", d)
	}
}
