package fastmarching

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialQueue(t *testing.T) {
	{ // Extraction is ordered and the slot table follows every move
		q, err := NewTrialQueue[float64](100)
		require.NoError(t, err)
		r := rand.New(rand.NewSource(7))
		keys := make(map[int]float64)
		for _, off := range r.Perm(100)[:60] {
			k := r.Float64()
			keys[off] = k
			require.NoError(t, q.Insert(off, k))
		}
		for off := 0; off < 100; off++ {
			_, queued := keys[off]
			assert.Equal(t, queued, q.Contains(off))
		}
		// decrease a few keys
		for off, k := range keys {
			if off%3 == 0 {
				keys[off] = k / 10
				require.NoError(t, q.DecreaseKey(off, k/10))
			}
		}
		var want []float64
		for _, k := range keys {
			want = append(want, k)
		}
		sort.Float64s(want)
		var got []float64
		for q.Len() > 0 {
			off, k := q.ExtractMin()
			assert.Equal(t, keys[off], k)
			assert.False(t, q.Contains(off))
			got = append(got, k)
		}
		assert.Equal(t, want, got)
	}
	{ // Illegal operations
		q, err := NewTrialQueue[float32](4)
		require.NoError(t, err)
		require.NoError(t, q.Insert(2, 1.5))
		assert.ErrorIs(t, q.Insert(2, 0.5), ErrDuplicateTrial)
		assert.ErrorIs(t, q.DecreaseKey(1, 0.5), ErrNotQueued)
		assert.Error(t, q.DecreaseKey(2, 3))
		k, ok := q.Key(2)
		assert.True(t, ok)
		assert.Equal(t, float32(1.5), k)
		_, ok = q.Key(3)
		assert.False(t, ok)
	}
}
