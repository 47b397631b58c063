package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
)

// The STFT and Goertzel analyzers must agree bin for bin on the same input.
func TestAnalyzersAgree(t *testing.T) {
	const sampleRate = 44100

	tests := []struct {
		name      string
		n         int
		frequency float64
		phase     float64
		window    windowing.Function
	}{
		{"one second a4 hann", 44100, 440, 0, windowing.Hann{}},
		{"off center with phase", 44100, 440.37, 1.2, windowing.Hann{}},
		{"short rectangle", 4410, 1234.5, -2.5, windowing.Rectangle{Width: 3000}},
		{"identity odd window", 1001, 3000, 0.4, windowing.Identity{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := MustSamplingContext(sampleRate, tt.n)
			target := sc.FrequencyToBin(float32(tt.frequency))

			var bins []int
			for b := target - 20; b <= target+20; b++ {
				bins = append(bins, b)
			}

			stft := NewSTFTAnalyzer(sc, tt.window, quiet())
			goertzel, err := NewGoertzelAnalyzer(sc, bins, tt.window, quiet())
			require.NoError(t, err)

			signal := cosineTone(sampleRate, tt.n, tt.frequency, tt.phase)
			full := stft.Analyze(signal)
			sparse := goertzel.Analyze(signal)

			stftPeak := mustPeak(t, full[target-20:target+21])
			goertzelPeak := mustPeak(t, sparse)
			assert.Equal(t, stftPeak.BinIndex(), goertzelPeak.BinIndex())
			assert.Equal(t, target, goertzelPeak.BinIndex())

			for _, g := range sparse {
				s, ok := harmonicAt(full, g.BinIndex())
				require.True(t, ok)
				assert.InDelta(t, s.Amplitude(), g.Amplitude(), 0.01, "amplitude at bin %d", g.BinIndex())

				// phase is meaningless where there is no energy
				if g.Amplitude() > goertzelPeak.Amplitude()*1e-3 {
					assert.Less(t, phaseDistance(float64(s.Phase()), float64(g.Phase())), 2*math.Pi/100,
						"phase at bin %d", g.BinIndex())
				}
			}
		})
	}
}
