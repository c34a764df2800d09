package audio

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetronomeBufferShape(t *testing.T) {
	t.Parallel()

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	buf := metronomeBuffer(format)

	wantSamples := 44100 * metronomeDurationMs / 1000
	require.Equal(t, wantSamples, buf.Len())

	// Every sample stays inside the gain envelope.
	s := buf.Streamer(0, buf.Len())
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			assert.LessOrEqual(t, chunk[i][0], metronomeGain+1e-3)
			assert.GreaterOrEqual(t, chunk[i][0], -metronomeGain-1e-3)
			assert.Equal(t, chunk[i][0], chunk[i][1])
		}
		if !ok {
			break
		}
	}
}
