package spectral

import (
	"math"
	"math/rand/v2"
)

// cosineTone returns n samples of cos(2*pi*frequency*i/sampleRate + phase).
func cosineTone(sampleRate, n int, frequency, phase float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Cos(2*math.Pi*frequency*float64(i)/float64(sampleRate) + phase))
	}
	return out
}

func noise(n int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(r.Float64()*2 - 1)
	}
	return out
}

// phaseDistance is the absolute angular distance between two phases, in [0, pi].
func phaseDistance(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d)
}

func harmonicAt(hs []Harmonic, bin int) (Harmonic, bool) {
	for _, h := range hs {
		if h.BinIndex() == bin {
			return h, true
		}
	}
	return Harmonic{}, false
}
