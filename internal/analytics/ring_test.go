package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingEviction(t *testing.T) {
	r := newRing(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.Push(v)
	}
	require.Equal(t, 3, r.Len())
	require.Equal(t, []float64{3, 4, 5}, r.Values())
	require.Equal(t, []float64{4, 5}, r.Last(2))
}

func TestRingPartialFill(t *testing.T) {
	r := newRing(5)
	r.Push(7)
	r.Push(8)
	require.Equal(t, 2, r.Len())
	require.Equal(t, []float64{7, 8}, r.Values())
	require.Equal(t, []float64{7, 8}, r.Last(10))
}

func TestMeanStddev(t *testing.T) {
	require.Equal(t, 0.0, mean(nil))
	require.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	require.Equal(t, 0.0, stddev([]float64{5}))
	require.InDelta(t, 2.0, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}
