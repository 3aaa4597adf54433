package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox(t *testing.T) {
	{
		b := NewBox(4, 5, 6)
		assert.Equal(t, 3, b.NDim())
		assert.Equal(t, []int{4, 5, 6}, b.Dims())
		assert.Equal(t, 120, b.Size())
		assert.True(t, b.Contains(Index{3, 4, 5}))
		assert.False(t, b.Contains(Index{4, 0, 0}))
		assert.False(t, b.Contains(Index{0, -1, 0}))
		assert.Equal(t, "[0:3, 0:4, 0:5]", b.String())
	}
	{ // Fill box
		ghost := NewBox(7, 9)
		fill, err := FillBox(ghost, 2)
		require.NoError(t, err)
		assert.Equal(t, Index{2, 2}, fill.Lo)
		assert.Equal(t, Index{4, 6}, fill.Hi)
		assert.True(t, ghost.ContainsBox(fill))
		fill, err = FillBox(ghost, 4)
		require.NoError(t, err)
		assert.True(t, fill.Empty())
		assert.Equal(t, 0, fill.Size())
		_, err = FillBox(ghost, -1)
		assert.ErrorIs(t, err, ErrValidation)
	}
	{ // Align a smaller box inside a larger one
		aligned, err := AlignBox(NewBox(10, 8, 6), NewBox(6, 8, 2))
		require.NoError(t, err)
		assert.Equal(t, Index{2, 0, 2}, aligned.Lo)
		assert.Equal(t, Index{7, 7, 3}, aligned.Hi)

		aligned, err = AlignBox(NewBox(4), NewBox(8))
		require.NoError(t, err)
		assert.Equal(t, Index{-2}, aligned.Lo)
		assert.Equal(t, Index{5}, aligned.Hi)

		_, err = AlignBox(NewBox(10, 8), NewBox(7, 8))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = AlignBox(NewBox(10, 8), NewBox(10))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
	{ // ForEach runs in storage order, axis 0 fastest
		var visited []Index
		b, err := NewBoxFromBounds(Index{1, 3}, Index{2, 4})
		require.NoError(t, err)
		b.ForEach(func(idx Index) { visited = append(visited, idx.Copy()) })
		assert.Equal(t, []Index{{1, 3}, {2, 3}, {1, 4}, {2, 4}}, visited)
		_, err = NewBoxFromBounds(Index{1}, Index{2, 4})
		assert.Error(t, err)
	}
}

func TestField(t *testing.T) {
	b, err := NewBoxFromBounds(Index{-1, 2, 0}, Index{2, 4, 1})
	require.NoError(t, err)
	f, err := NewField[float64](b)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 12}, f.Strides)
	assert.Len(t, f.Data, 24)
	idx := NewIndex(3)
	b.ForEach(func(p Index) {
		o := f.Offset(p)
		f.Coords(o, idx)
		assert.Equal(t, p, idx)
		f.Set(p, float64(p[0]+10*p[1]+100*p[2]))
	})
	assert.Equal(t, 20., f.Data[f.Offset(Index{0, 2, 0})])
	assert.Equal(t, 119., f.At(Index{-1, 2, 1}))
	assert.Equal(t, 0, f.Offset(b.Lo))
	assert.Equal(t, 23, f.Offset(b.Hi))

	_, err = WrapField(b, make([]float32, 5))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGrid(t *testing.T) {
	g, err := NewGrid([]int{5, 7}, []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.1}, g.DX)
	assert.Equal(t, 1, NaturalAxis(0))
	assert.Equal(t, 0, NaturalAxis(1))
	assert.Equal(t, 2, NaturalAxis(2))
	assert.Equal(t, []float64{2, 1, 3}, StorageOrderSpacing([]float64{1, 2, 3}))
	assert.Equal(t, []float64{4}, StorageOrderSpacing([]float64{4}))

	_, err = NewGrid([]int{5, 7}, []float64{0.1})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "dX", ve.Arg)
	_, err = NewGrid([]int{5, 7}, []float64{0.1, 0})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewGrid([]int{0, 7}, []float64{0.1, 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocate(t *testing.T) {
	saved := MaxScratchElements
	defer func() { MaxScratchElements = saved }()
	MaxScratchElements = 10
	buf, err := Allocate[float32](10)
	require.NoError(t, err)
	assert.Len(t, buf, 10)
	_, err = Allocate[float32](11)
	assert.ErrorIs(t, err, ErrAllocation)
	_, err = Allocate[int](-1)
	assert.ErrorIs(t, err, ErrAllocation)
	v, err := ConstArray(3, 2.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, v)
}

func TestConvergenceOrder(t *testing.T) {
	h := []float64{0.1, 0.05, 0.025}
	errs := []float64{3e-3, 3e-3 / 4, 3e-3 / 16}
	order, pairwise, err := ConvergenceOrder(h, errs)
	require.NoError(t, err)
	assert.InDelta(t, 2., order, 1.e-9)
	require.Len(t, pairwise, 2)
	for _, p := range pairwise {
		assert.InDelta(t, 2., p, 1.e-9)
	}
	_, _, err = ConvergenceOrder(h[:1], errs[:1])
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = ConvergenceOrder([]float64{1, 0.5}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrValidation)

	maxErr, rmsErr := ErrorNorms([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 2})
	assert.Equal(t, 2., maxErr)
	assert.InDelta(t, 1., rmsErr, 1.e-12)
}
