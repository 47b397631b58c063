package common

import (
	"gonum.org/v1/gonum/floats"
)

// MovingAverage is the arithmetic mean of the last N pushed values.
type MovingAverage struct {
	series  *CircularBuffer
	scratch []float64
}

// NewMovingAverage averages over windowSize values. windowSize must be positive.
func NewMovingAverage(windowSize int) *MovingAverage {
	return &MovingAverage{
		series:  NewCircularBuffer(windowSize),
		scratch: make([]float64, 0, windowSize),
	}
}

func (m *MovingAverage) Push(v float64) {
	m.series.Push(v)
}

// Average of the values in the window; 0 when empty.
func (m *MovingAverage) Average() float64 {
	if m.series.IsEmpty() {
		return 0
	}
	m.scratch = m.series.Values(m.scratch)
	return floats.Sum(m.scratch) / float64(len(m.scratch))
}

// IsWindowFull reports whether N values have been pushed since the last reset.
func (m *MovingAverage) IsWindowFull() bool {
	return m.series.IsFull()
}

func (m *MovingAverage) IsWindowEmpty() bool {
	return m.series.IsEmpty()
}

func (m *MovingAverage) WindowSize() int {
	return m.series.Cap()
}

func (m *MovingAverage) Reset() {
	m.series.Clear()
}
