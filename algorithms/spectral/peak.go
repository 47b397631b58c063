package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-dft/algorithms/common"
)

// RefinedPeak estimates the frequency of the strongest component with finer
// resolution than the bin spacing, by fitting a parabola through the log
// amplitudes of the peak bin and its two neighbours. Neighbours must be the
// adjacent bins, which holds for full spectra; otherwise, and at the edges
// of the spectrum, the bin frequency of the peak is returned.
func RefinedPeak(harmonics []Harmonic) (frequency float32, ok bool) {
	if len(harmonics) == 0 {
		return 0, false
	}

	i := 0
	best := harmonics[0].Power()
	for j, h := range harmonics[1:] {
		if p := h.Power(); p > best {
			i, best = j+1, p
		}
	}
	peak := harmonics[i]

	if i == 0 || i == len(harmonics)-1 {
		return peak.Frequency(), true
	}
	left, right := harmonics[i-1], harmonics[i+1]
	if left.BinIndex() != peak.BinIndex()-1 || right.BinIndex() != peak.BinIndex()+1 {
		return peak.Frequency(), true
	}

	la, ca, ra := logAmplitude(left), logAmplitude(peak), logAmplitude(right)
	if math.IsInf(la, -1) || math.IsInf(ra, -1) {
		return peak.Frequency(), true
	}

	offset, _ := common.ParabolicVertex(la, ca, ra)
	offset = common.Clamp(offset, -0.5, 0.5)

	gap := float64(peak.Bin.Context().FrequencyGap())
	return float32(float64(peak.Frequency()) + offset*gap), true
}

func logAmplitude(h Harmonic) float64 {
	return math.Log(float64(h.Amplitude()))
}
