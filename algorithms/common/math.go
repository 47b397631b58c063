package common

import "math"

// SilenceDB is the level reported for an all-zero signal.
const SilenceDB = -math.MaxFloat64

// RMS calculates the root mean square of a float32 signal.
func RMS(data []float32) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range data {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(data)))
}

// AmplitudeToDB converts a linear amplitude, 1.0 being full scale, to dBFS.
func AmplitudeToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return SilenceDB
	}
	return 20 * math.Log10(amplitude)
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}
