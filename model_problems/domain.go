package model_problems

import (
	"fmt"

	"github.com/notargets/golsm/utils"
)

// Domain is a uniform grid over a rectangular region. Sizes and bounds are
// given in natural (x, y, z) order; the grid itself is in storage order.
type Domain struct {
	Grid    *utils.Grid
	Lower   []float64 // natural order
	Spacing []float64 // natural order
}

// NewDomain places n[a] points on [lower[a], upper[a]] for every natural
// axis a.
func NewDomain(n []int, lower, upper []float64) (d *Domain, err error) {
	if len(lower) != len(n) || len(upper) != len(n) {
		err = utils.NewValidationError("domain", "have %d sizes, %d lower and %d upper bounds",
			len(n), len(lower), len(upper))
		return
	}
	d = &Domain{
		Lower:   append([]float64(nil), lower...),
		Spacing: make([]float64, len(n)),
	}
	dims := make([]int, len(n))
	for a := range n {
		if n[a] < 2 || !(upper[a] > lower[a]) {
			err = utils.NewValidationError("domain", "axis %d: need at least 2 points on an increasing interval, have %d on [%v, %v]",
				a, n[a], lower[a], upper[a])
			return nil, err
		}
		d.Spacing[a] = (upper[a] - lower[a]) / float64(n[a]-1)
		dims[swapAxis(a, len(n))] = n[a]
	}
	if d.Grid, err = utils.NewGrid(dims, d.Spacing); err != nil {
		return nil, err
	}
	return
}

// Coordinates writes the natural-order position of a storage-order index.
func (d *Domain) Coordinates(idx utils.Index, x []float64) {
	for a := range idx {
		nat := swapAxis(a, len(idx))
		x[nat] = d.Lower[nat] + float64(idx[a]-d.Grid.Box.Lo[a])*d.Spacing[nat]
	}
}

// Sample evaluates f at every grid point.
func Sample[T utils.Float](d *Domain, f ScalarFunction) (data []T, err error) {
	var fld *utils.Field[T]
	if fld, err = utils.NewField[T](d.Grid.Box); err != nil {
		return
	}
	x := make([]float64, d.Grid.NDim())
	d.Grid.Box.ForEach(func(idx utils.Index) {
		d.Coordinates(idx, x)
		fld.Set(idx, T(f(x)))
	})
	return fld.Data, nil
}

// swapAxis maps between storage and natural axes; the map is its own inverse.
func swapAxis(axis, ndim int) int {
	if ndim == 1 {
		return axis
	}
	return utils.NaturalAxis(axis)
}

func (d *Domain) String() string {
	return fmt.Sprintf("domain lower=%v spacing=%v %s", d.Lower, d.Spacing, d.Grid)
}
