package audio

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(from, to int) []float32 {
	out := make([]float32, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, float32(i))
	}
	return out
}

func TestNewHopperValidation(t *testing.T) {
	t.Parallel()

	_, err := NewHopper(0, 1)
	assert.Error(t, err)
	_, err = NewHopper(4, 0)
	assert.Error(t, err)
}

func TestHopperIndexMatchesCallCount(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(2, 2)
	require.NoError(t, err)

	calls := 0
	fn := func(_ []float32, idx int) error {
		assert.Equal(t, calls, idx)
		calls++
		return nil
	}
	require.NoError(t, h.Feed([]float32{0, 1}, fn))
	require.NoError(t, h.Feed([]float32{2, 3}, fn))
	require.NoError(t, h.Feed([]float32{4}, fn))
	require.NoError(t, h.Feed([]float32{5}, fn))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, h.Processed())
}

func TestHopperOneAtATime(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(2, 2)
	require.NoError(t, err)

	for i := range 10 {
		require.NoError(t, h.Feed([]float32{float32(i)}, func(w []float32, idx int) error {
			assert.Equal(t, []float32{float32(idx * 2), float32(idx*2 + 1)}, w)
			return nil
		}))
	}
	assert.Equal(t, 5, h.Processed())
	assert.Zero(t, h.Pending())
}

func TestHopperIrregularChunks(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(3, 3)
	require.NoError(t, err)

	var last []float32
	fn := func(w []float32, idx int) error {
		assert.Equal(t, seq(idx*3, idx*3+3), w)
		last = slices.Clone(w)
		return nil
	}

	chunks := [][]float32{
		{0, 1}, {2, 3, 4, 5}, {6}, {7}, {8, 9}, seq(10, 16), seq(16, 20),
		seq(20, 23), {23, 24}, {25}, {}, nil, {}, {26},
	}
	for _, c := range chunks {
		require.NoError(t, h.Feed(c, fn))
	}
	assert.Equal(t, []float32{24, 25, 26}, last)
	assert.Equal(t, 9, h.Processed())
}

func TestHopperOverlap(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(4, 2)
	require.NoError(t, err)

	var windows [][]float32
	require.NoError(t, h.Feed(seq(0, 10), func(w []float32, _ int) error {
		windows = append(windows, slices.Clone(w))
		return nil
	}))

	assert.Equal(t, [][]float32{
		{0, 1, 2, 3},
		{2, 3, 4, 5},
		{4, 5, 6, 7},
		{6, 7, 8, 9},
	}, windows)
	assert.Equal(t, 2, h.Pending())
}

func TestHopperSkipsBetweenWindows(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(2, 5)
	require.NoError(t, err)

	var starts []float32
	fn := func(w []float32, _ int) error {
		starts = append(starts, w[0])
		return nil
	}
	require.NoError(t, h.Feed(seq(0, 7), fn))
	require.NoError(t, h.Feed(seq(7, 13), fn))
	assert.Equal(t, []float32{0, 5, 10}, starts)
}

func TestHopperStopsOnError(t *testing.T) {
	t.Parallel()

	h, err := NewHopper(2, 2)
	require.NoError(t, err)

	calls := 0
	err = h.Feed(seq(0, 10), func([]float32, int) error {
		calls++
		if calls == 2 {
			return ErrStop
		}
		return nil
	})
	assert.True(t, errors.Is(err, ErrStop))
	assert.Equal(t, 2, calls)

	h.Reset()
	assert.Zero(t, h.Processed())
	assert.Zero(t, h.Pending())
}
