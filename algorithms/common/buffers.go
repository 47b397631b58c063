package common

// CircularBuffer is a fixed-capacity ring of float64 values. Writing to a
// full buffer overwrites the oldest value.
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
	count    int
}

// NewCircularBuffer creates a buffer holding up to size values. size must be positive.
func NewCircularBuffer(size int) *CircularBuffer {
	if size < 1 {
		panic("common: circular buffer size must be positive")
	}
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Push appends one value, evicting the oldest when full. It returns the
// evicted value and whether one was evicted.
func (cb *CircularBuffer) Push(v float64) (evicted float64, ok bool) {
	if cb.count == cb.size {
		evicted, ok = cb.buffer[cb.writePos], true
	} else {
		cb.count++
	}
	cb.buffer[cb.writePos] = v
	cb.writePos = (cb.writePos + 1) % cb.size
	return evicted, ok
}

// Write pushes every value of data.
func (cb *CircularBuffer) Write(data []float64) int {
	for _, v := range data {
		cb.Push(v)
	}
	return len(data)
}

// Values copies the contents into dst, oldest first, and returns dst[:Len()].
// A nil or short dst is replaced by a new slice.
func (cb *CircularBuffer) Values(dst []float64) []float64 {
	if cap(dst) < cb.count {
		dst = make([]float64, cb.count)
	}
	dst = dst[:cb.count]

	start := (cb.writePos - cb.count + cb.size) % cb.size
	n := copy(dst, cb.buffer[start:min(start+cb.count, cb.size)])
	copy(dst[n:], cb.buffer[:cb.count-n])
	return dst
}

// Len returns the number of stored values.
func (cb *CircularBuffer) Len() int {
	return cb.count
}

// Cap returns the capacity.
func (cb *CircularBuffer) Cap() int {
	return cb.size
}

func (cb *CircularBuffer) Clear() {
	cb.writePos = 0
	cb.count = 0
}

func (cb *CircularBuffer) IsFull() bool {
	return cb.count == cb.size
}

func (cb *CircularBuffer) IsEmpty() bool {
	return cb.count == 0
}
