package spectral

import (
	"fmt"
	"math"
)

// Flux measures how much the spectrum grew from prev to cur: the Euclidean
// norm of the positive amplitude differences, bin by bin. Both frames must
// come from the same analyzer; differing lengths panic.
func Flux(prev, cur []Harmonic) float64 {
	if len(prev) != len(cur) {
		panic(fmt.Sprintf("spectral: flux between frames of %d and %d harmonics", len(prev), len(cur)))
	}

	sum := 0.0
	for i := range cur {
		if diff := float64(cur[i].Amplitude() - prev[i].Amplitude()); diff > 0 {
			sum += diff * diff
		}
	}
	return math.Sqrt(sum)
}
