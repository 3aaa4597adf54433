// Package spatialderivatives approximates grad(phi) for Hamilton-Jacobi
// equations with upwind ENO finite differences.
package spatialderivatives

import (
	"io"
	"log/slog"
	"math"

	"github.com/notargets/golsm/utils"
)

// UpwindProblem describes one upwind derivative call. Phi and the output
// arrays cover PhiBox; each velocity component covers its own box, which is
// centered inside PhiBox when the extents differ.
type UpwindProblem[T utils.Float] struct {
	PhiBox      utils.Box
	Phi         []T
	VelocityBox utils.Box
	Velocity    [][]T     // one component per axis, storage order
	GhostWidth  int
	DX          []float64 // storage order
	Order       int       // 1 or 2, zero means 2
	Workers     int       // goroutines splitting the fill box, <= 1 runs inline
	Logger      *slog.Logger
}

// UpwindHJENO returns one derivative array per axis over PhiBox. Entries
// outside the fill box are zero.
func UpwindHJENO[T utils.Float](p *UpwindProblem[T]) (grad [][]T, err error) {
	if _, err = p.validate(); err != nil {
		return
	}
	grad = make([][]T, p.PhiBox.NDim())
	for a := range grad {
		if grad[a], err = utils.Allocate[T](len(p.Phi)); err != nil {
			return nil, err
		}
	}
	if err = UpwindHJENOInto(p, grad); err != nil {
		return nil, err
	}
	return
}

// UpwindHJENOInto writes derivatives into caller-owned arrays, touching only
// fill-box entries.
func UpwindHJENOInto[T utils.Float](p *UpwindProblem[T], grad [][]T) (err error) {
	var k *kernel[T]
	if k, err = p.validate(); err != nil {
		return
	}
	if len(grad) != p.PhiBox.NDim() {
		return utils.NewValidationError("outputs", "have %d derivative arrays for %d axes", len(grad), p.PhiBox.NDim())
	}
	for a, g := range grad {
		if len(g) != len(p.Phi) {
			return utils.NewValidationError("outputs", "derivative %d has %d values, need %d", a, len(g), len(p.Phi))
		}
	}
	k.grad = grad
	if k.fill.Empty() {
		return
	}
	var (
		outer = k.fill.NDim() - 1
		pm    = utils.NewPartitionMap(p.Workers, k.fill.Extent(outer))
	)
	k.log.Debug("upwind derivative", "order", k.order, "fill", k.fill.String(), "workers", pm.ParallelDegree)
	pm.ParallelFor(k.fill.Lo[outer], func(_, kMin, kMax int) {
		k.sweep(k.fill.SubBox(outer, kMin, kMax-1))
	})
	return
}

type kernel[T utils.Float] struct {
	order int
	phi   *utils.Field[T]
	vel   []*utils.Field[T]
	fill  utils.Box
	dx    []T
	grad  [][]T
	log   *slog.Logger
}

func (p *UpwindProblem[T]) validate() (k *kernel[T], err error) {
	if p == nil {
		return nil, utils.NewValidationError("phi", "a problem is required")
	}
	nd := p.PhiBox.NDim()
	switch {
	case nd < 1 || nd > 3:
		return nil, utils.NewValidationError("phi", "must have 1 to 3 axes, have %d", nd)
	case len(p.Velocity) != nd:
		return nil, utils.NewValidationError("velocity", "have %d components for %d axes", len(p.Velocity), nd)
	case len(p.DX) != nd:
		return nil, utils.NewValidationError("dX", "have %d spacings for %d axes", len(p.DX), nd)
	case p.Order < 0 || p.Order > 2:
		return nil, utils.NewValidationError("order", "must be 1 or 2, have %d", p.Order)
	}
	k = &kernel[T]{order: p.Order, dx: make([]T, nd), log: p.Logger}
	if k.order == 0 {
		k.order = 2
	}
	if k.log == nil {
		k.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for a, h := range p.DX {
		if !(h > 0) || math.IsInf(h, 0) {
			return nil, utils.NewValidationError("dX", "spacing on storage axis %d must be positive, have %v", a, h)
		}
		k.dx[a] = T(h)
	}
	if k.phi, err = utils.WrapField(p.PhiBox, p.Phi); err != nil {
		return nil, utils.NewValidationError("phi", "%v", err)
	}
	if k.fill, err = utils.FillBox(p.PhiBox, p.GhostWidth); err != nil {
		return nil, err
	}
	velBox := p.VelocityBox
	if velBox.NDim() == 0 {
		velBox = p.PhiBox
	}
	var aligned utils.Box
	if aligned, err = utils.AlignBox(p.PhiBox, velBox); err != nil {
		ve := utils.NewValidationError("velocity", "%v", err)
		ve.Err = utils.ErrShapeMismatch
		return nil, ve
	}
	if !aligned.ContainsBox(k.fill) {
		return nil, utils.NewValidationError("velocity", "centered velocity box %s does not cover fill box %s",
			aligned, k.fill)
	}
	k.vel = make([]*utils.Field[T], nd)
	for a, v := range p.Velocity {
		if k.vel[a], err = utils.WrapField(aligned, v); err != nil {
			return nil, utils.NewValidationError("velocity", "component %d: %v", a, err)
		}
	}
	return
}

func (k *kernel[T]) sweep(region utils.Box) {
	region.ForEach(func(idx utils.Index) {
		o := k.phi.Offset(idx)
		for a := range idx {
			k.grad[a][o] = k.derivative(o, idx, a, k.vel[a].At(idx))
		}
	})
}

// derivative picks the backward difference when vel > 0, else the forward
// one. Order 2 adds the ENO correction built from the smaller undivided second
// difference, when the whole four-point window is inside the ghost box.
func (k *kernel[T]) derivative(o int, idx utils.Index, axis int, vel T) T {
	var (
		s      = k.phi.Strides[axis]
		phi    = k.phi.Data
		h      = k.dx[axis]
		lo, hi = k.phi.Box.Lo[axis], k.phi.Box.Hi[axis]
		c      = idx[axis]
		hasM   = c-1 >= lo
		hasP   = c+1 <= hi
	)
	backward := vel > 0
	switch {
	case !hasM && !hasP:
		return 0
	case backward && !hasM:
		backward = false
	case !backward && !hasP:
		backward = true
	}
	if backward {
		d1 := phi[o] - phi[o-s]
		if k.order == 2 && c-2 >= lo && c+1 <= hi {
			m := enoSelect(phi[o]-2*phi[o-s]+phi[o-2*s], phi[o+s]-2*phi[o]+phi[o-s])
			return (d1 + m/2) / h
		}
		return d1 / h
	}
	d1 := phi[o+s] - phi[o]
	if k.order == 2 && c-1 >= lo && c+2 <= hi {
		m := enoSelect(phi[o+s]-2*phi[o]+phi[o-s], phi[o+2*s]-2*phi[o+s]+phi[o])
		return (d1 - m/2) / h
	}
	return d1 / h
}

// enoSelect returns the second difference of smaller magnitude.
func enoSelect[T utils.Float](a, b T) T {
	if math.Abs(float64(a)) <= math.Abs(float64(b)) {
		return a
	}
	return b
}
