package gateway

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golsm/model_problems"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

func sampled(t *testing.T, d *model_problems.Domain, f model_problems.ScalarFunction) types.Array {
	data, err := model_problems.Sample[float64](d, f)
	require.NoError(t, err)
	return types.NewArray64(d.Grid.Box.Dims(), data)
}

func to32(a types.Array) types.Array {
	data := make([]float32, len(a.F64))
	for i, v := range a.F64 {
		data[i] = float32(v)
	}
	return types.NewArray32(a.Dims, data)
}

func planarCase(t *testing.T) (d *model_problems.Domain, args ExtensionFieldsArgs) {
	var err error
	// unequal spacing catches a missing natural to storage permutation
	d, err = model_problems.NewDomain([]int{11, 7}, []float64{-1.1, 0}, []float64{0.9, 3})
	require.NoError(t, err)
	args = ExtensionFieldsArgs{
		Phi:          sampled(t, d, model_problems.Coordinate(0)),
		SourceFields: []types.Array{sampled(t, d, model_problems.Coordinate(1))},
		DX:           d.Spacing,
		Order:        1,
	}
	return
}

func TestComputeExtensionFields(t *testing.T) {
	d, args := planarCase(t)
	res, err := ComputeExtensionFields(args)
	require.NoError(t, err)
	assert.Equal(t, types.Float64, res.Distance.Precision())
	assert.Equal(t, args.Phi.Dims, res.Distance.Dims)
	assert.True(t, res.GhostBox.Equal(d.Grid.Box))
	assert.True(t, res.FillBox.Equal(d.Grid.Box))
	assert.Equal(t, 2*7, res.NumFront)
	assert.Equal(t, 11*7, res.NumKnown)
	require.Len(t, res.ExtensionFields, 1)

	x := make([]float64, 2)
	fld, _ := utils.WrapField(d.Grid.Box, res.Distance.F64)
	d.Grid.Box.ForEach(func(idx utils.Index) {
		d.Coordinates(idx, x)
		o := fld.Offset(idx)
		assert.InDelta(t, math.Abs(x[0]), res.Distance.F64[o], 1.e-9, "at %v", x)
		assert.InDelta(t, x[1], res.ExtensionFields[0].F64[o], 1.e-9, "at %v", x)
	})

	// the same call in single precision
	args32 := args
	args32.Phi = to32(args.Phi)
	args32.SourceFields = []types.Array{to32(args.SourceFields[0])}
	res32, err := ComputeExtensionFields(args32)
	require.NoError(t, err)
	assert.Equal(t, types.Float32, res32.Distance.Precision())
	for i, v := range res.Distance.F64 {
		assert.InDelta(t, v, float64(res32.Distance.F32[i]), 1.e-5)
		assert.InDelta(t, res.ExtensionFields[0].F64[i], float64(res32.ExtensionFields[0].F32[i]), 1.e-5)
	}

	// distance only
	args.NumOutputs = 1
	res1, err := ComputeExtensionFields(args)
	require.NoError(t, err)
	assert.Nil(t, res1.ExtensionFields)
	assert.Empty(t, cmp.Diff(res.Distance.F64, res1.Distance.F64))
}

func TestExtensionFieldsMask(t *testing.T) {
	d, args := planarCase(t)
	mask := sampled(t, d, model_problems.Constant(1))
	fld, _ := utils.WrapField(d.Grid.Box, mask.F64)
	wall := d.Grid.Box.SubBox(1, 10, 10) // storage axis 1 is x
	wall.ForEach(func(idx utils.Index) { fld.Set(idx, -1) })
	args.Mask = mask
	res, err := ComputeExtensionFields(args)
	require.NoError(t, err)
	wall.ForEach(func(idx utils.Index) {
		assert.True(t, math.IsInf(res.Distance.F64[fld.Offset(idx)], 1))
	})
	assert.Equal(t, 10*7, res.NumKnown)
}

func TestExtensionFieldsValidation(t *testing.T) {
	_, good := planarCase(t)
	for name, mutate := range map[string]func(a *ExtensionFieldsArgs){
		"missing phi": func(a *ExtensionFieldsArgs) { a.Phi = types.Array{} },
		"missing dX":  func(a *ExtensionFieldsArgs) { a.DX = nil },
		"outputs":     func(a *ExtensionFieldsArgs) { a.NumOutputs = 3 },
		"dX count":    func(a *ExtensionFieldsArgs) { a.DX = []float64{1, 1, 1} },
		"dX sign":     func(a *ExtensionFieldsArgs) { a.DX = []float64{1, 0} },
		"order":       func(a *ExtensionFieldsArgs) { a.Order = 5 },
		"1D phi": func(a *ExtensionFieldsArgs) {
			a.Phi = types.NewArray64([]int{77}, a.Phi.F64)
			a.DX = []float64{1}
		},
		"source precision": func(a *ExtensionFieldsArgs) { a.SourceFields[0] = to32(a.SourceFields[0]) },
		"source axes": func(a *ExtensionFieldsArgs) {
			a.SourceFields[0] = types.NewArray64([]int{7, 11, 1}, a.SourceFields[0].F64)
		},
		"mask precision": func(a *ExtensionFieldsArgs) { a.Mask = to32(a.Phi) },
	} {
		args := good
		args.SourceFields = append([]types.Array(nil), good.SourceFields...)
		mutate(&args)
		res, err := ComputeExtensionFields(args)
		assert.ErrorIs(t, err, utils.ErrValidation, name)
		assert.Nil(t, res, name)
	}
	args := good
	args.SourceFields = []types.Array{types.NewArray64([]int{11, 7}, good.SourceFields[0].F64)}
	_, err := ComputeExtensionFields(args)
	assert.ErrorIs(t, err, utils.ErrShapeMismatch)

	defer func(limit int) { utils.MaxScratchElements = limit }(utils.MaxScratchElements)
	utils.MaxScratchElements = 10
	_, err = ComputeExtensionFields(good)
	assert.ErrorIs(t, err, utils.ErrAllocation)
}

func upwindCase(t *testing.T, velocity []float64) (d *model_problems.Domain, args UpwindArgs) {
	var err error
	d, err = model_problems.NewDomain([]int{9, 7, 6}, []float64{0, 0, 0}, []float64{1, 1.2, 2})
	require.NoError(t, err)
	args = UpwindArgs{
		Phi:        sampled(t, d, func(x []float64) float64 { return x[0]*x[0] + 2*x[1] + 3*x[2] }),
		GhostWidth: 1,
		DX:         d.Spacing,
	}
	for _, v := range velocity {
		args.Velocity = append(args.Velocity, sampled(t, d, model_problems.Constant(v)))
	}
	return
}

func TestUpwindHJENO(t *testing.T) {
	d, args := upwindCase(t, []float64{1, -1, 1})
	res, err := UpwindHJENO1(args)
	require.NoError(t, err)
	require.Len(t, res.Derivatives, 3)
	fill, _ := utils.FillBox(d.Grid.Box, 1)
	assert.True(t, res.FillBox.Equal(fill))
	assert.True(t, res.GhostBox.Equal(d.Grid.Box))

	var (
		hx  = d.Spacing[0]
		x   = make([]float64, 3)
		fld *utils.Field[float64]
	)
	fld, _ = utils.WrapField(d.Grid.Box, args.Phi.F64)
	d.Grid.Box.ForEach(func(idx utils.Index) {
		o := fld.Offset(idx)
		if !fill.Contains(idx) {
			for _, g := range res.Derivatives {
				assert.Equal(t, 0., g.F64[o])
			}
			return
		}
		d.Coordinates(idx, x)
		// positive x velocity selects the backward difference of x^2
		assert.InDelta(t, 2*x[0]-hx, res.Derivatives[0].F64[o], 1.e-9)
		assert.InDelta(t, 2., res.Derivatives[1].F64[o], 1.e-9)
		assert.InDelta(t, 3., res.Derivatives[2].F64[o], 1.e-9)
	})

	// ENO2 is exact on a quadratic once its window fits inside the ghost box
	res, err = UpwindHJENO2(args)
	require.NoError(t, err)
	fill.ForEach(func(idx utils.Index) {
		d.Coordinates(idx, x)
		want := 2 * x[0]
		if idx[1] < 2 {
			want -= hx
		}
		assert.InDelta(t, want, res.Derivatives[0].F64[fld.Offset(idx)], 1.e-9)
	})

	// reversed x velocity selects the forward difference
	_, args = upwindCase(t, []float64{-1, 1, 1})
	args.NumOutputs = 1
	res, err = UpwindHJENO1(args)
	require.NoError(t, err)
	require.Len(t, res.Derivatives, 1)
	fill.ForEach(func(idx utils.Index) {
		d.Coordinates(idx, x)
		assert.InDelta(t, 2*x[0]+hx, res.Derivatives[0].F64[fld.Offset(idx)], 1.e-9)
	})
}

func TestUpwindCenteredVelocityAndPrecision(t *testing.T) {
	d, args := upwindCase(t, []float64{1, 1, 1})
	full, err := UpwindHJENO2(args)
	require.NoError(t, err)

	inner := d.Grid.Box.Dims()
	for a := range inner {
		inner[a] -= 2
	}
	small := make([]float64, utils.NewBox(inner...).Size())
	for i := range small {
		small[i] = 1
	}
	args.Velocity = []types.Array{
		types.NewArray64(inner, small), types.NewArray64(inner, small), types.NewArray64(inner, small),
	}
	centered, err := UpwindHJENO2(args)
	require.NoError(t, err)
	for a := range full.Derivatives {
		assert.Empty(t, cmp.Diff(full.Derivatives[a].F64, centered.Derivatives[a].F64))
	}

	args.Phi = to32(args.Phi)
	for a := range args.Velocity {
		args.Velocity[a] = to32(args.Velocity[a])
	}
	args.Workers = 3
	single, err := UpwindHJENO2(args)
	require.NoError(t, err)
	for a := range full.Derivatives {
		for i, v := range full.Derivatives[a].F64 {
			assert.InDelta(t, v, float64(single.Derivatives[a].F32[i]), 1.e-4)
		}
	}
}

func TestUpwindValidation(t *testing.T) {
	_, good := upwindCase(t, []float64{1, 1, 1})
	for name, mutate := range map[string]func(a *UpwindArgs){
		"missing phi": func(a *UpwindArgs) { a.Phi = types.Array{} },
		"missing dX":  func(a *UpwindArgs) { a.DX = nil },
		"outputs":     func(a *UpwindArgs) { a.NumOutputs = 4 },
		"2D phi": func(a *UpwindArgs) {
			a.Phi = types.NewArray64([]int{63, 6}, a.Phi.F64)
		},
		"velocity count":     func(a *UpwindArgs) { a.Velocity = a.Velocity[:2] },
		"velocity precision": func(a *UpwindArgs) { a.Velocity[1] = to32(a.Velocity[1]) },
		"velocity axes": func(a *UpwindArgs) {
			a.Velocity[2] = types.NewArray64([]int{63, 6}, a.Velocity[2].F64)
		},
		"ghost width": func(a *UpwindArgs) { a.GhostWidth = -1 },
		"dX count":    func(a *UpwindArgs) { a.DX = a.DX[:2] },
	} {
		args := good
		args.Velocity = append([]types.Array(nil), good.Velocity...)
		mutate(&args)
		res, err := UpwindHJENO2(args)
		assert.ErrorIs(t, err, utils.ErrValidation, name)
		assert.Nil(t, res, name)
	}

	args := good
	args.Velocity = append([]types.Array(nil), good.Velocity...)
	args.Velocity[0] = types.NewArray64([]int{5, 7, 4}, make([]float64, 140))
	_, err := UpwindHJENO2(args)
	assert.ErrorIs(t, err, utils.ErrShapeMismatch)

	// centering an odd extent difference is impossible
	args.Velocity = []types.Array{
		types.NewArray64([]int{6, 9, 6}, make([]float64, 324)),
		types.NewArray64([]int{6, 9, 6}, make([]float64, 324)),
		types.NewArray64([]int{6, 9, 6}, make([]float64, 324)),
	}
	_, err = UpwindHJENO2(args)
	assert.ErrorIs(t, err, utils.ErrShapeMismatch)
}
