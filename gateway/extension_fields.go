package gateway

import (
	"log/slog"

	"github.com/notargets/golsm/fast_marching"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

// ExtensionFieldsArgs are the inputs of ComputeExtensionFields.
type ExtensionFieldsArgs struct {
	Phi          types.Array
	SourceFields []types.Array
	DX           []float64   // natural order
	Mask         types.Array // empty means no masking
	Order        int         // 1 or 2, zero means 2
	NumOutputs   int         // 1: distance only, 2: distance and extensions, zero means 2
	GhostWidth   int
	Logger       *slog.Logger
}

type ExtensionFieldsResult struct {
	Distance        types.Array
	ExtensionFields []types.Array
	GhostBox        utils.Box
	FillBox         utils.Box
	NumFront        int
	NumKnown        int
}

// ComputeExtensionFields returns the unsigned distance to the zero level set
// of Phi and, when two outputs are requested, each source field extended off
// the interface.
func ComputeExtensionFields(args ExtensionFieldsArgs) (res *ExtensionFieldsResult, err error) {
	if err = args.validate(); err != nil {
		return
	}
	if args.Phi.Precision() == types.Float32 {
		return computeExtensionFields[float32](args)
	}
	return computeExtensionFields[float64](args)
}

func (args ExtensionFieldsArgs) numOutputs() int {
	if args.NumOutputs == 0 {
		return 2
	}
	return args.NumOutputs
}

func (args ExtensionFieldsArgs) validate() (err error) {
	if args.Phi.IsEmpty() {
		return utils.NewValidationError("phi", "missing required argument")
	}
	if len(args.DX) == 0 {
		return utils.NewValidationError("dX", "missing required argument")
	}
	if args.NumOutputs < 0 || args.NumOutputs > 2 {
		return utils.NewValidationError("outputs", "at most 2 outputs can be requested, have %d", args.NumOutputs)
	}
	if err = args.Phi.Validate("phi"); err != nil {
		return
	}
	if nd := args.Phi.NDim(); nd != 2 && nd != 3 {
		return utils.NewValidationError("phi", "must be 2 or 3 dimensional, have %d axes", nd)
	}
	if len(args.DX) != args.Phi.NDim() {
		return utils.NewValidationError("dX", "have %d spacings for %d axes", len(args.DX), args.Phi.NDim())
	}
	if !args.Mask.IsEmpty() {
		if err = matchPhi("mask", args.Phi, args.Mask); err != nil {
			return
		}
	}
	for _, src := range args.SourceFields {
		if err = matchPhi("sourceFields", args.Phi, src); err != nil {
			return
		}
	}
	return
}

// matchPhi checks a against phi for shape, dimensionality and precision.
func matchPhi(name string, phi, a types.Array) (err error) {
	if err = a.Validate(name); err != nil {
		return
	}
	switch {
	case a.NDim() != phi.NDim():
		return utils.NewValidationError(name, "has %d axes, phi has %d", a.NDim(), phi.NDim())
	case !a.SameShape(phi):
		ve := utils.NewValidationError(name, "dims %v differ from phi dims %v", a.Dims, phi.Dims)
		ve.Err = utils.ErrShapeMismatch
		return ve
	case a.Precision() != phi.Precision():
		return utils.NewValidationError(name, "precision %v differs from phi precision %v",
			a.Precision(), phi.Precision())
	}
	return
}

func computeExtensionFields[T utils.Float](args ExtensionFieldsArgs) (res *ExtensionFieldsResult, err error) {
	var grid *utils.Grid
	if grid, err = utils.NewGrid(args.Phi.Dims, args.DX); err != nil {
		return
	}
	p := &fastmarching.Problem[T]{
		Grid:       grid,
		Phi:        types.Slice[T](args.Phi),
		Mask:       types.Slice[T](args.Mask),
		Order:      args.Order,
		GhostWidth: args.GhostWidth,
		Logger:     args.Logger,
	}
	withExtensions := args.numOutputs() == 2
	if withExtensions {
		for _, src := range args.SourceFields {
			p.Sources = append(p.Sources, types.Slice[T](src))
		}
	}
	var sol *fastmarching.Solution[T]
	if sol, err = fastmarching.ComputeExtensionFields(p); err != nil {
		return
	}
	res = &ExtensionFieldsResult{
		Distance: types.FromSlice(args.Phi.Dims, sol.Distance),
		GhostBox: grid.Box,
		FillBox:  sol.FillBox,
		NumFront: sol.NumFront,
		NumKnown: sol.NumKnown,
	}
	if withExtensions {
		res.ExtensionFields = make([]types.Array, len(sol.Extensions))
		for i, ext := range sol.Extensions {
			res.ExtensionFields[i] = types.FromSlice(args.Phi.Dims, ext)
		}
	}
	return
}
