package audio

import (
	"math"

	"github.com/faiface/beep"
)

const (
	metronomeFreq       = 1000.0
	metronomeDurationMs = 70
	metronomeAttackSec  = 0.005
	metronomeGain       = 0.4
)

// metronomeBuffer renders the count-in click into a buffer: a short sine
// burst with a fast attack and a linear release tail.
func metronomeBuffer(format beep.Format) *beep.Buffer {
	totalSamples := int(format.SampleRate) * metronomeDurationMs / 1000
	durationSec := float64(metronomeDurationMs) / 1000.0
	releaseStart := durationSec - metronomeAttackSec

	pos := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= totalSamples {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= totalSamples {
				break
			}
			t := float64(pos) / float64(format.SampleRate)
			var env float64
			switch {
			case t < metronomeAttackSec:
				env = t / metronomeAttackSec
			case t > releaseStart:
				env = math.Max(durationSec-t, 0) / (durationSec - releaseStart)
			default:
				env = 1
			}
			v := math.Sin(2*math.Pi*metronomeFreq*t) * env * metronomeGain
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, true
	})

	buf := beep.NewBuffer(format)
	buf.Append(gen)
	return buf
}
