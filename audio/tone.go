package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a sine burst with a linear attack and release
type tone struct {
	freq    float64
	rate    beep.SampleRate
	phase   float64
	pos     int
	total   int
	attack  int
	release int
}

// newTone returns a streamer that ends after duration
func newTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	edge := total / 5
	return &tone{
		freq:    freq,
		rate:    rate,
		total:   total,
		attack:  edge,
		release: edge,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		gain := 1.0
		if t.attack > 0 && t.pos < t.attack {
			gain = float64(t.pos) / float64(t.attack)
		}
		if left := t.total - t.pos; t.release > 0 && left < t.release {
			gain = float64(left) / float64(t.release)
		}

		v := gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s; math.Log2(0) is -Inf so zero volume is silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
