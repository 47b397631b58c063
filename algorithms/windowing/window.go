// Package windowing provides window functions and precomputed window weights
// for spectral analysis.
package windowing

import (
	"fmt"
	"math"
	"strings"
)

// Type names a window function.
type Type string

const (
	TypeHann           Type = "hann"
	TypeRectangle      Type = "rectangle"
	TypeIdentity       Type = "identity"
	TypeHamming        Type = "hamming"
	TypeBlackman       Type = "blackman"
	TypeBlackmanHarris Type = "blackman_harris"
)

// Function maps a sample position inside a window to a weight.
//
// Implementations must be pure: the same (index, windowLength) always
// yields the same weight. Analyzers sample a Function once at construction.
type Function interface {
	RatioAt(index, windowLength int) float32
	Type() Type
}

// Weights samples fn at every index of a window of length n.
func Weights(fn Function, n int) []float32 {
	weights := make([]float32, n)
	for i := range n {
		weights[i] = fn.RatioAt(i, n)
	}
	return weights
}

// ByName returns the window function for name. rectangleWidth is only used
// by the rectangle window.
func ByName(name string, rectangleWidth int) (Function, error) {
	switch Type(strings.ToLower(strings.TrimSpace(name))) {
	case TypeHann:
		return Hann{}, nil
	case TypeRectangle, "rect", "rectangular":
		if rectangleWidth < 0 {
			return nil, fmt.Errorf("rectangle width must not be negative, got %d", rectangleWidth)
		}
		return Rectangle{Width: rectangleWidth}, nil
	case TypeIdentity, "none":
		return Identity{}, nil
	case TypeHamming:
		return Hamming{}, nil
	case TypeBlackman:
		return Blackman{}, nil
	case TypeBlackmanHarris, "blackman-harris":
		return BlackmanHarris{}, nil
	default:
		return nil, fmt.Errorf("unknown window type %q", name)
	}
}

// MinLength is the shortest window fn can be sampled over. The cosine-sum
// windows divide by n-1 and need two samples.
func MinLength(fn Function) int {
	switch fn.Type() {
	case TypeHann, TypeHamming, TypeBlackman, TypeBlackmanHarris:
		return 2
	default:
		return 1
	}
}

// Types lists the names accepted by ByName.
func Types() []Type {
	return []Type{TypeHann, TypeRectangle, TypeIdentity, TypeHamming, TypeBlackman, TypeBlackmanHarris}
}

// Window is a Function sampled at a fixed length.
type Window struct {
	fn           Function
	size         int
	coefficients []float32
}

// New samples fn over size points.
func New(fn Function, size int) *Window {
	return &Window{
		fn:           fn,
		size:         size,
		coefficients: Weights(fn, size),
	}
}

// ApplyTo writes the windowed signal into dst as float64. Both slices must
// have the window's length; callers check this.
func (w *Window) ApplyTo(dst []float64, signal []float32) {
	dst = dst[:w.size]
	signal = signal[:w.size]
	for i, c := range w.coefficients {
		dst[i] = float64(signal[i]) * float64(c)
	}
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.fn.Type()
}

// Function returns the sampled window function.
func (w *Window) Function() Function {
	return w.fn
}

// cosineSum evaluates a0 - a1*cos(x) + a2*cos(2x) - a3*cos(3x) ... with
// x = 2*pi*i/(n-1), the symmetric form shared by the cosine-sum windows.
func cosineSum(name Type, i, n int, a ...float64) float32 {
	if n < 2 {
		panic(fmt.Sprintf("windowing: %s window needs at least 2 samples, got %d", name, n))
	}

	x := 2 * math.Pi * float64(i) / float64(n-1)
	sum := 0.0
	sign := 1.0
	for k, ak := range a {
		sum += sign * ak * math.Cos(float64(k)*x)
		sign = -sign
	}
	return float32(sum)
}
