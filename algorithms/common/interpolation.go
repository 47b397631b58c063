package common

import "math"

// ParabolicVertex fits a parabola through (-1, left), (0, center) and
// (1, right) and returns the position of its extremum relative to the center
// sample together with the interpolated value there. When the three points
// are collinear the center is returned unchanged.
//
// Reference: J. O. Smith III, "Spectral Audio Signal Processing", Quadratic
// Interpolation of Spectral Peaks.
func ParabolicVertex(left, center, right float64) (offset, value float64) {
	curvature := left - 2*center + right
	if curvature == 0 {
		return 0, center
	}

	offset = 0.5 * (left - right) / curvature
	value = center - 0.25*(left-right)*offset
	return offset, value
}

// LinearAt interpolates data at a fractional index. Indices outside
// [0, len(data)-1] yield 0.
func LinearAt(data []float64, index float64) float64 {
	if len(data) == 0 || index < 0 || index > float64(len(data)-1) {
		return 0
	}

	lo := int(math.Floor(index))
	if lo == len(data)-1 {
		return data[lo]
	}
	frac := index - float64(lo)
	return data[lo] + frac*(data[lo+1]-data[lo])
}
