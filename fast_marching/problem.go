package fastmarching

import (
	"io"
	"log/slog"
	"math"

	"github.com/notargets/golsm/utils"
)

// Problem describes one fast marching invocation. All arrays are laid out
// over Grid.Box in storage order.
type Problem[T utils.Float] struct {
	Grid       *utils.Grid
	Phi        []T
	Mask       []T   // optional; a negative value removes the point from the domain
	Sources    [][]T // fields to extend off the interface
	Order      int   // 1 or 2, zero means 2
	GhostWidth int   // layers excluded from the computation on every side
	// OnKnown, when set, is called for each point finalized by the marching
	// loop, in extraction order.
	OnKnown func(offset int, distance T)
	Logger  *slog.Logger
}

// Solution holds the outputs of a fast marching call. Distance is +Inf where
// no value was computed.
type Solution[T utils.Float] struct {
	Distance   []T
	Extensions [][]T
	FillBox    utils.Box
	NumFront   int // points initialized directly from the interface
	NumKnown   int // all points finalized, front included
}

// NewSolution allocates outputs for p: Distance is filled with +Inf and the
// extension fields with zeros.
func NewSolution[T utils.Float](p *Problem[T]) (sol *Solution[T], err error) {
	if err = p.validate(); err != nil {
		return
	}
	n := p.Grid.Box.Size()
	sol = &Solution[T]{Extensions: make([][]T, len(p.Sources))}
	if sol.Distance, err = utils.ConstArray(n, utils.Inf[T]()); err != nil {
		return nil, err
	}
	for i := range sol.Extensions {
		if sol.Extensions[i], err = utils.Allocate[T](n); err != nil {
			return nil, err
		}
	}
	return
}

func (p *Problem[T]) order() int {
	if p.Order == 0 {
		return 2
	}
	return p.Order
}

func (p *Problem[T]) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

func (p *Problem[T]) validate() (err error) {
	if p == nil || p.Grid == nil {
		return utils.NewValidationError("grid", "a grid descriptor is required")
	}
	var (
		nd = p.Grid.NDim()
		n  = p.Grid.Box.Size()
	)
	switch {
	case nd != 2 && nd != 3:
		return utils.NewValidationError("phi", "must be 2 or 3 dimensional, have %d axes", nd)
	case len(p.Grid.DX) != nd:
		return utils.NewValidationError("dX", "have %d spacings for %d axes", len(p.Grid.DX), nd)
	case len(p.Phi) != n:
		return utils.NewValidationError("phi", "have %d values for grid %s", len(p.Phi), p.Grid.Box)
	case len(p.Mask) != 0 && len(p.Mask) != n:
		return utils.NewValidationError("mask", "have %d values for grid %s", len(p.Mask), p.Grid.Box)
	case p.Order < 0 || p.Order > 2:
		return utils.NewValidationError("order", "must be 1 or 2, have %d", p.Order)
	case p.GhostWidth < 0:
		return utils.NewValidationError("ghostWidth", "must be >= 0, have %d", p.GhostWidth)
	}
	for a, h := range p.Grid.DX {
		if !(h > 0) {
			return utils.NewValidationError("dX", "spacing on storage axis %d must be positive, have %v", a, h)
		}
	}
	for i, src := range p.Sources {
		if len(src) != n {
			return utils.NewValidationError("sourceFields",
				"field %d has %d values for grid %s", i, len(src), p.Grid.Box)
		}
	}
	for i, v := range p.Phi {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return utils.NewValidationError("phi", "non-finite value %v at offset %d", v, i)
		}
	}
	return
}

func (sol *Solution[T]) validate(p *Problem[T]) error {
	n := p.Grid.Box.Size()
	if sol == nil || len(sol.Distance) != n {
		return utils.NewValidationError("distance", "output must hold %d values", n)
	}
	if len(sol.Extensions) != len(p.Sources) {
		return utils.NewValidationError("extensionFields", "have %d outputs for %d source fields",
			len(sol.Extensions), len(p.Sources))
	}
	for i, ext := range sol.Extensions {
		if len(ext) != n {
			return utils.NewValidationError("extensionFields", "field %d has %d values, need %d", i, len(ext), n)
		}
	}
	return nil
}
