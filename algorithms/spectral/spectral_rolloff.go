package spectral

// DefaultRolloff is the energy fraction used by Describe.
const DefaultRolloff = 0.85

// Rolloff is the frequency of the first harmonic, in bin order, at which the
// cumulative power reaches fraction of the total. fraction is clamped to
// [0, 1]. A silent frame has rolloff 0.
func Rolloff(harmonics []Harmonic, fraction float64) float32 {
	fraction = min(max(fraction, 0), 1)

	total := 0.0
	for _, h := range harmonics {
		total += float64(h.Power())
	}
	if total == 0 {
		return 0
	}

	target := fraction * total
	cumulative := 0.0
	for _, h := range harmonics {
		cumulative += float64(h.Power())
		if cumulative >= target {
			return h.Frequency()
		}
	}

	// rounding left cumulative just short of total
	return harmonics[len(harmonics)-1].Frequency()
}
