package gateway

import (
	"log/slog"

	"github.com/notargets/golsm/spatial_derivatives"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

// UpwindArgs are the inputs of the upwind derivative calls. Velocity and the
// returned derivatives are indexed by natural axis (x, y, z).
type UpwindArgs struct {
	Phi        types.Array
	Velocity   []types.Array // all components share one shape, centered inside phi
	GhostWidth int
	DX         []float64 // natural order
	NumOutputs int       // zero means one derivative per axis
	Workers    int
	Logger     *slog.Logger
}

type UpwindResult struct {
	Derivatives []types.Array // natural order, each shaped like phi
	GhostBox    utils.Box
	FillBox     utils.Box
}

const upwindDims = 3

// UpwindHJENO1 computes first-order upwind derivatives of a 3D phi.
func UpwindHJENO1(args UpwindArgs) (*UpwindResult, error) { return upwind(args, 1) }

// UpwindHJENO2 computes second-order ENO upwind derivatives of a 3D phi.
func UpwindHJENO2(args UpwindArgs) (*UpwindResult, error) { return upwind(args, 2) }

func upwind(args UpwindArgs, order int) (res *UpwindResult, err error) {
	if err = args.validate(); err != nil {
		return
	}
	if args.Phi.Precision() == types.Float32 {
		return computeUpwind[float32](args, order)
	}
	return computeUpwind[float64](args, order)
}

func (args UpwindArgs) numOutputs() int {
	if args.NumOutputs == 0 {
		return upwindDims
	}
	return args.NumOutputs
}

func (args UpwindArgs) validate() (err error) {
	if args.Phi.IsEmpty() {
		return utils.NewValidationError("phi", "missing required argument")
	}
	if len(args.DX) == 0 {
		return utils.NewValidationError("dX", "missing required argument")
	}
	if args.NumOutputs < 0 || args.NumOutputs > upwindDims {
		return utils.NewValidationError("outputs", "at most %d outputs can be requested, have %d",
			upwindDims, args.NumOutputs)
	}
	if err = args.Phi.Validate("phi"); err != nil {
		return
	}
	if args.Phi.NDim() != upwindDims {
		return utils.NewValidationError("phi", "must be exactly 3 dimensional, have %d axes", args.Phi.NDim())
	}
	if len(args.Velocity) != upwindDims {
		return utils.NewValidationError("velocity", "need %d components, have %d", upwindDims, len(args.Velocity))
	}
	if len(args.DX) != upwindDims {
		return utils.NewValidationError("dX", "have %d spacings for %d axes", len(args.DX), upwindDims)
	}
	if args.GhostWidth < 0 {
		return utils.NewValidationError("ghostWidth", "must be >= 0, have %d", args.GhostWidth)
	}
	for _, v := range args.Velocity {
		if err = v.Validate("velocity"); err != nil {
			return
		}
		switch {
		case v.NDim() != upwindDims:
			return utils.NewValidationError("velocity", "must be exactly 3 dimensional, have %d axes", v.NDim())
		case v.Precision() != args.Phi.Precision():
			return utils.NewValidationError("velocity", "precision %v differs from phi precision %v",
				v.Precision(), args.Phi.Precision())
		case !v.SameShape(args.Velocity[0]):
			ve := utils.NewValidationError("velocity", "components have dims %v and %v",
				args.Velocity[0].Dims, v.Dims)
			ve.Err = utils.ErrShapeMismatch
			return ve
		}
	}
	return
}

func computeUpwind[T utils.Float](args UpwindArgs, order int) (res *UpwindResult, err error) {
	var grid *utils.Grid
	if grid, err = utils.NewGrid(args.Phi.Dims, args.DX); err != nil {
		return
	}
	p := &spatialderivatives.UpwindProblem[T]{
		PhiBox:      grid.Box,
		Phi:         types.Slice[T](args.Phi),
		VelocityBox: args.Velocity[0].Box(),
		Velocity:    make([][]T, upwindDims),
		GhostWidth:  args.GhostWidth,
		DX:          grid.DX,
		Order:       order,
		Workers:     args.Workers,
		Logger:      args.Logger,
	}
	// velocity component a drives the derivative along storage axis a
	for a := range p.Velocity {
		p.Velocity[a] = types.Slice[T](args.Velocity[utils.NaturalAxis(a)])
	}
	var grad [][]T
	if grad, err = spatialderivatives.UpwindHJENO(p); err != nil {
		return
	}
	res = &UpwindResult{
		Derivatives: make([]types.Array, args.numOutputs()),
		GhostBox:    grid.Box,
	}
	if res.FillBox, err = utils.FillBox(grid.Box, args.GhostWidth); err != nil {
		return nil, err
	}
	for nat := range res.Derivatives {
		res.Derivatives[nat] = types.FromSlice(args.Phi.Dims, grad[utils.NaturalAxis(nat)])
	}
	return
}
