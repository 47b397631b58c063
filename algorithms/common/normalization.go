package common

import "math"

// NormalizePeak scales samples in place so that the largest magnitude equals
// target, and returns the applied gain. Silent input is left untouched and
// reports a gain of 1.
func NormalizePeak(samples []float32, target float32) float32 {
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak == 0 {
		return 1
	}

	gain := float32(float64(target) / peak)
	for i := range samples {
		samples[i] *= gain
	}
	return gain
}

// NormalizeRMS scales samples in place to the given RMS level and returns the
// applied gain. Samples may exceed [-1, 1] afterwards.
func NormalizeRMS(samples []float32, target float64) float32 {
	rms := RMS(samples)
	if rms == 0 {
		return 1
	}

	gain := float32(target / rms)
	for i := range samples {
		samples[i] *= gain
	}
	return gain
}
