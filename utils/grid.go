package utils

import "fmt"

// Grid is an immutable structured grid descriptor. Spacing is in storage
// order: storage axis 0 is the y axis, storage axis 1 is the x axis.
type Grid struct {
	Box Box
	DX  []float64
}

// NewGrid builds a grid over dims (storage order) from spacing given in
// natural (x, y, z) order.
func NewGrid(dims []int, dxNatural []float64) (g *Grid, err error) {
	if len(dxNatural) != len(dims) {
		err = NewValidationError("dX", "have %d spacings for a %d-dimensional array",
			len(dxNatural), len(dims))
		return
	}
	for a, n := range dims {
		if n < 1 {
			err = NewValidationError("dims", "axis %d has extent %d", a, n)
			return
		}
	}
	dx := StorageOrderSpacing(dxNatural)
	for a, h := range dx {
		if !(h > 0) {
			err = NewValidationError("dX", "spacing on storage axis %d must be positive, have %v", a, h)
			return
		}
	}
	g = &Grid{Box: NewBox(dims...), DX: dx}
	return
}

// StorageOrderSpacing permutes natural (x, y, z) spacing into storage
// (y, x, z) order.
func StorageOrderSpacing(dxNatural []float64) (dx []float64) {
	dx = make([]float64, len(dxNatural))
	copy(dx, dxNatural)
	if len(dx) >= 2 {
		dx[0], dx[1] = dx[1], dx[0]
	}
	return
}

// NaturalAxis maps a storage axis to its natural coordinate axis.
func NaturalAxis(storageAxis int) int {
	switch storageAxis {
	case 0:
		return 1
	case 1:
		return 0
	}
	return storageAxis
}

func (g *Grid) NDim() int { return g.Box.NDim() }

func (g *Grid) String() string {
	return fmt.Sprintf("grid %s dx=%v", g.Box, g.DX)
}
