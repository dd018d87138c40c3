package audio

import (
	"math"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the output rate of every cue.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length tone
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in and out to avoid clicks
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; e.release > 0 && left < e.release {
			vol = math.Max(float64(left)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly. math.Log2(0) is -Inf, so zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

type note struct {
	freq float64
	dur  time.Duration
	wave Wave
}

// cues maps each round sound to its notes, played in sequence
var cues = map[round.Sound][]note{
	round.SoundCorrect:    {{880, 60 * time.Millisecond, WaveSine}, {1320, 80 * time.Millisecond, WaveSine}},
	round.SoundWrong:      {{140, 150 * time.Millisecond, WaveSaw}},
	round.SoundDecoy:      {{220, 90 * time.Millisecond, WaveSquare}, {110, 140 * time.Millisecond, WaveSaw}},
	round.SoundReshuffle:  {{440, 50 * time.Millisecond, WaveSine}, {554, 50 * time.Millisecond, WaveSine}, {659, 50 * time.Millisecond, WaveSine}},
	round.SoundRegenerate: {{659, 60 * time.Millisecond, WaveSine}, {523, 60 * time.Millisecond, WaveSine}},
	round.SoundWarning:    {{1000, 40 * time.Millisecond, WaveSquare}},
	round.SoundComplete:   {{523, 100 * time.Millisecond, WaveSine}, {659, 100 * time.Millisecond, WaveSine}, {784, 200 * time.Millisecond, WaveSine}},
	round.SoundTimeout:    {{392, 150 * time.Millisecond, WaveSaw}, {262, 300 * time.Millisecond, WaveSaw}},
	round.SoundLifeOut:    {{330, 150 * time.Millisecond, WaveSquare}, {196, 350 * time.Millisecond, WaveSquare}},
}

// Cue builds the streamer for sound at vol (0.0 ~ 1.0). Unknown sounds
// return nil.
func Cue(sound round.Sound, vol float64, rate beep.SampleRate) beep.Streamer {
	notes, ok := cues[sound]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := newOscillator(n.freq, n.dur, n.wave, rate)
		parts = append(parts, newEnvelope(osc, n.dur, 5*time.Millisecond, 20*time.Millisecond, rate))
	}
	// the raw waves are full scale; keep cues quiet
	return newVolume(beep.Seq(parts...), 0.3*vol)
}

// Length returns the number of samples Cue produces for sound.
func Length(sound round.Sound, rate beep.SampleRate) int {
	total := 0
	for _, n := range cues[sound] {
		total += rate.N(n.dur)
	}
	return total
}
