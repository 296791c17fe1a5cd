package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// releaseFloor is the gain every note decays to by its end.
const releaseFloor = 0.001

// note is a single oscillator run. A non-zero to sweeps the pitch
// exponentially from from to to over the note.
type note struct {
	wave     Wave
	from, to float64
	dur      time.Duration
}

// voice is what one sound event plays: its notes back to back at one volume.
type voice struct {
	notes  []note
	volume float64
}

var voices = map[game.SoundEvent]voice{
	game.SoundShoot: {
		notes:  []note{{wave: WaveSine, from: 150, dur: 150 * time.Millisecond}},
		volume: 0.2,
	},
	game.SoundExplosion: {
		notes:  []note{{wave: WaveSaw, from: 100, to: 20, dur: 300 * time.Millisecond}},
		volume: 0.3,
	},
	game.SoundBonus: {
		notes: []note{
			{wave: WaveSine, from: 523.25, dur: 80 * time.Millisecond},
			{wave: WaveSine, from: 659.25, dur: 80 * time.Millisecond},
			{wave: WaveSine, from: 783.99, dur: 200 * time.Millisecond},
		},
		volume: 0.2,
	},
	game.SoundHit: {
		notes:  []note{{wave: WaveSquare, from: 200, to: 50, dur: 80 * time.Millisecond}},
		volume: 0.3,
	},
	game.SoundMove: {
		notes:  []note{{wave: WaveTriangle, from: 80, dur: 40 * time.Millisecond}},
		volume: 0.08,
	},
}

// Duration is the total play time of the voice for ev, or zero if unknown.
func Duration(ev game.SoundEvent) time.Duration {
	var d time.Duration
	for _, n := range voices[ev].notes {
		d += n.dur
	}
	return d
}

func (v voice) streamer(rate beep.SampleRate, master float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(v.notes))
	for _, n := range v.notes {
		parts = append(parts, newOscillator(n, rate))
	}
	return newVolume(beep.Seq(parts...), v.volume*master)
}

// oscillator renders one note with an exponential pitch sweep and an
// exponential gain decay down to releaseFloor.
type oscillator struct {
	n        note
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
}

func newOscillator(n note, rate beep.SampleRate) *oscillator {
	return &oscillator{n: n, rate: rate, total: rate.N(n.dur)}
}

func (o *oscillator) freq(progress float64) float64 {
	if o.n.to <= 0 || o.n.to == o.n.from {
		return o.n.from
	}
	return o.n.from * math.Pow(o.n.to/o.n.from, progress)
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}
		progress := float64(o.position) / float64(o.total)

		var val float64
		switch o.n.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		}
		val *= math.Pow(releaseFloor, progress)

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq(progress) / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }
