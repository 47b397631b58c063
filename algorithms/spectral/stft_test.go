package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-dft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dft/logging"
)

func quiet() Option {
	return WithLogger(&logging.NoOpLogger{})
}

func TestSTFTResultLayout(t *testing.T) {
	sc := MustSamplingContext(44100, 100)
	s := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())

	hs := s.Analyze(make([]float32, 100))
	require.Len(t, hs, 51)
	for i, h := range hs {
		assert.Equal(t, i, h.BinIndex())
		assert.Equal(t, sc, h.Bin.Context())
		assert.Equal(t, complex64(0), h.Phasor)
	}
	assert.Equal(t, sc, s.SamplingContext())
}

func TestSTFTLocalizesEveryBin(t *testing.T) {
	for _, backend := range []Backend{BackendGonum, BackendGoDSP} {
		t.Run(string(backend), func(t *testing.T) {
			plan, err := PlanFor(backend)
			require.NoError(t, err)

			sc := MustSamplingContext(6400, 64)
			s := NewSTFTAnalyzer(sc, windowing.Identity{}, WithPlan(plan), quiet())

			for b := range sc.BinCount() {
				tone := cosineTone(sc.SampleRate(), sc.WindowLength(), float64(sc.BinToFrequency(b)), 0)
				peak, ok := Peak(s.AnalyzeInPlace(tone))
				require.True(t, ok)
				assert.Equal(t, b, peak.BinIndex(), "tone at bin %d", b)
			}
		})
	}
}

func TestSTFTAmplitudeNormalization(t *testing.T) {
	sc := MustSamplingContext(6400, 64)
	s := NewSTFTAnalyzer(sc, windowing.Identity{}, quiet())

	// a unit cosine at an interior bin puts N/2 into that coefficient
	hs := s.Analyze(cosineTone(6400, 64, 500, 0))
	assert.InDelta(t, math.Sqrt(64)/2, hs[5].Amplitude(), 1e-5)

	// DC carries the full sum
	dc := make([]float32, 64)
	for i := range dc {
		dc[i] = 1
	}
	hs = s.Analyze(dc)
	assert.InDelta(t, 8, hs[0].Amplitude(), 1e-5)
}

func TestSTFTPhaseAtBinCenter(t *testing.T) {
	sc := MustSamplingContext(44100, 4410)
	s := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())

	hs := s.Analyze(cosineTone(44100, 4410, float64(sc.BinToFrequency(50)), 0))
	peak, ok := Peak(hs)
	require.True(t, ok)
	assert.Equal(t, 50, peak.BinIndex())
	assert.InDelta(t, 0, peak.Phase(), 0.001)
}

func TestSTFTConcreteScenario(t *testing.T) {
	sc := MustSamplingContext(44100, 100)
	require.Equal(t, 1, sc.FrequencyToBin(440))

	// a Hann window spreads a 100-sample 440 Hz tone into DC, so use the
	// unwindowed spectrum for the full-range peak
	s := NewSTFTAnalyzer(sc, windowing.Identity{}, quiet())
	peak, ok := Peak(s.Analyze(cosineTone(44100, 100, 440, 0)))
	require.True(t, ok)
	assert.Equal(t, 1, peak.BinIndex())
	assert.Less(t, math.Abs(float64(peak.Phase())), 0.01)
}

func TestSTFTPhaseSweep(t *testing.T) {
	sc := MustSamplingContext(44100, 4410)
	s := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())
	freq := float64(sc.BinToFrequency(50))

	for step := 0; step <= 100; step++ {
		phase := -math.Pi + 2*math.Pi*float64(step)/100

		// three periods of the same window; 50 cycles fit exactly in each
		signal := cosineTone(44100, 3*4410, freq, phase)
		for w := range 3 {
			hs := s.AnalyzeInPlace(signal[w*4410 : (w+1)*4410])
			got := float64(hs[50].Phase())
			assert.Less(t, phaseDistance(got, phase), 0.001, "phase %.4f window %d: got %.4f", phase, w, got)
		}
	}
}

func TestSTFTInPlaceAliasing(t *testing.T) {
	sc := MustSamplingContext(8000, 16)
	s := NewSTFTAnalyzer(sc, windowing.Identity{}, quiet())

	first := s.AnalyzeInPlace(cosineTone(8000, 16, 500, 0))
	owned := s.Analyze(cosineTone(8000, 16, 500, 0))
	second := s.AnalyzeInPlace(cosineTone(8000, 16, 2000, 0))

	assert.Same(t, &first[0], &second[0], "AnalyzeInPlace reuses its buffer")
	assert.Equal(t, 4, mustPeak(t, second).BinIndex())
	assert.Equal(t, 1, mustPeak(t, owned).BinIndex(), "Analyze result survives later calls")
}

func TestSTFTPanicsOnLengthMismatch(t *testing.T) {
	s := NewSTFTAnalyzer(MustSamplingContext(8000, 16), windowing.Hann{}, quiet())
	assert.Panics(t, func() { s.Analyze(make([]float32, 15)) })
	assert.Panics(t, func() { s.AnalyzeInPlace(make([]float32, 17)) })
	assert.Panics(t, func() { NewSTFTAnalyzer(SamplingContext{}, windowing.Hann{}) })
}

func TestBackendsAgree(t *testing.T) {
	for _, n := range []int{100, 1024, 4410} {
		sc := MustSamplingContext(44100, n)
		gonum := NewSTFTAnalyzer(sc, windowing.Hann{}, WithPlan(GonumPlan), quiet())
		godsp := NewSTFTAnalyzer(sc, windowing.Hann{}, WithPlan(DSPPlan), quiet())

		signal := noise(n, uint64(n))
		a := gonum.Analyze(signal)
		b := godsp.Analyze(signal)
		require.Len(t, b, len(a))
		for i := range a {
			assert.InDelta(t, real(a[i].Phasor), real(b[i].Phasor), 1e-4, "n=%d bin %d", n, i)
			assert.InDelta(t, imag(a[i].Phasor), imag(b[i].Phasor), 1e-4, "n=%d bin %d", n, i)
		}
	}
}

func TestSynthesizeInvertsAnalyze(t *testing.T) {
	for _, plan := range []PlanFactory{GonumPlan, DSPPlan} {
		for _, n := range []int{64, 99} {
			s := NewSTFTAnalyzer(MustSamplingContext(8000, n), windowing.Identity{}, WithPlan(plan), quiet())
			signal := noise(n, 7)
			back := s.Synthesize(s.Analyze(signal))
			require.Len(t, back, n)
			for i := range signal {
				assert.InDelta(t, signal[i], back[i], 1e-4, "n=%d i=%d", n, i)
			}
		}
	}

	s := NewSTFTAnalyzer(MustSamplingContext(8000, 8), windowing.Identity{}, quiet())
	assert.Panics(t, func() { s.Synthesize(nil) })
}

func TestPlanFor(t *testing.T) {
	p, err := PlanFor("")
	require.NoError(t, err)
	assert.Equal(t, 8, p(8).Len())

	p, err = PlanFor("go-dsp")
	require.NoError(t, err)
	assert.Equal(t, 12, p(12).Len())

	_, err = PlanFor("fftw")
	assert.Error(t, err)
}

func mustPeak(t *testing.T, hs []Harmonic) Harmonic {
	t.Helper()
	peak, ok := Peak(hs)
	require.True(t, ok)
	return peak
}

func BenchmarkSTFTAnalyzeInPlace(b *testing.B) {
	sc := MustSamplingContext(44100, 4096)
	s := NewSTFTAnalyzer(sc, windowing.Hann{}, quiet())
	signal := noise(4096, 1)

	b.ReportAllocs()
	for b.Loop() {
		s.AnalyzeInPlace(signal)
	}
}
