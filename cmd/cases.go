/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/golsm/InputParameters"
	"github.com/notargets/golsm/model_problems"
	"github.com/notargets/golsm/types"
	"github.com/notargets/golsm/utils"
)

// Case is a case file resolved against its grid.
type Case struct {
	Params    *InputParameters.CaseParameters
	Domain    *model_problems.Domain
	Precision types.Precision
}

func NewCase(cp *InputParameters.CaseParameters) (c *Case, err error) {
	c = &Case{Params: cp}
	if c.Precision, err = cp.GetPrecision(); err != nil {
		return nil, err
	}
	if c.Domain, err = cp.Domain(); err != nil {
		return nil, err
	}
	return
}

// Sample evaluates spec on the grid at the case precision.
func (c *Case) Sample(spec model_problems.FunctionSpec) (a types.Array, err error) {
	var f model_problems.ScalarFunction
	if f, err = spec.Build(c.Domain.Grid.NDim()); err != nil {
		return
	}
	dims := c.Domain.Grid.Box.Dims()
	if c.Precision == types.Float32 {
		var data []float32
		if data, err = model_problems.Sample[float32](c.Domain, f); err != nil {
			return
		}
		return types.FromSlice(dims, data), nil
	}
	var data []float64
	if data, err = model_problems.Sample[float64](c.Domain, f); err != nil {
		return
	}
	return types.FromSlice(dims, data), nil
}

// Mask is -1 inside the case's mask regions and 1 elsewhere, or empty when
// the case masks nothing.
func (c *Case) Mask() (mask types.Array, err error) {
	var regions []utils.Box
	if regions, err = c.Params.MaskRegions(c.Domain); err != nil || len(regions) == 0 {
		return
	}
	if mask, err = types.Zeros(c.Precision, c.Domain.Grid.Box.Dims()); err != nil {
		return
	}
	if mask.Precision() == types.Float32 {
		err = markRegions(c.Domain.Grid.Box, mask.F32, regions)
	} else {
		err = markRegions(c.Domain.Grid.Box, mask.F64, regions)
	}
	return
}

func markRegions[T utils.Float](box utils.Box, data []T, regions []utils.Box) (err error) {
	var fld *utils.Field[T]
	if fld, err = utils.WrapField(box, data); err != nil {
		return
	}
	fld.Fill(1)
	for _, r := range regions {
		r.ForEach(func(idx utils.Index) { fld.Set(idx, -1) })
	}
	return
}

// FieldBytes is the storage of one grid field at the case precision.
func (c *Case) FieldBytes() int {
	return c.Domain.Grid.Box.Size() * c.Precision.Bytes()
}

func asFloat64(a types.Array) []float64 {
	if a.Precision() == types.Float64 {
		return a.F64
	}
	data := make([]float64, len(a.F32))
	for i, v := range a.F32 {
		data[i] = float64(v)
	}
	return data
}

// printField prints a 2D storage-order field with x across and y down.
func printField(name string, dims []int, data []float64) {
	// column-major (ny, nx) storage is a row-major (nx, ny) matrix
	m := mat.NewDense(dims[1], dims[0], data)
	fmt.Printf("%s = \n%v\n", name, mat.Formatted(m.T(), mat.Squeeze()))
}

// finiteRange returns the extremes of the finite entries of data.
func finiteRange(data []float64) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		n++
	}
	return
}
