package model_problems

import (
	"fmt"
	"math"
	"strings"
)

// ScalarFunction maps a natural-order position to a value.
type ScalarFunction func(x []float64) float64

// Circle is the signed distance to a circle (sphere in 3D), negative inside.
func Circle(center []float64, radius float64) ScalarFunction {
	return func(x []float64) float64 {
		var r2 float64
		for a := range x {
			dx := x[a] - center[a]
			r2 += dx * dx
		}
		return math.Sqrt(r2) - radius
	}
}

// Plane is n.x - offset with n normalized.
func Plane(normal []float64, offset float64) ScalarFunction {
	var norm float64
	for _, v := range normal {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	return func(x []float64) (v float64) {
		for a := range x {
			v += normal[a] * x[a] / norm
		}
		return v - offset
	}
}

// Sine is sin(k*x[axis]).
func Sine(axis int, k float64) ScalarFunction {
	return func(x []float64) float64 { return math.Sin(k * x[axis]) }
}

// SineDerivative is d/dx[axis] of Sine(axis, k) along derivAxis.
func SineDerivative(axis int, k float64, derivAxis int) ScalarFunction {
	return func(x []float64) float64 {
		if derivAxis != axis {
			return 0
		}
		return k * math.Cos(k*x[axis])
	}
}

// Coordinate returns x[axis].
func Coordinate(axis int) ScalarFunction {
	return func(x []float64) float64 { return x[axis] }
}

func Constant(v float64) ScalarFunction {
	return func([]float64) float64 { return v }
}

// FunctionSpec selects and parameterizes a ScalarFunction from a case file.
type FunctionSpec struct {
	Type       string    `json:"Type" hcl:"type"`
	Center     []float64 `json:"Center,omitempty" hcl:"center,optional"`
	Radius     float64   `json:"Radius,omitempty" hcl:"radius,optional"`
	Normal     []float64 `json:"Normal,omitempty" hcl:"normal,optional"`
	Offset     float64   `json:"Offset,omitempty" hcl:"offset,optional"`
	Axis       int       `json:"Axis,omitempty" hcl:"axis,optional"`
	WaveNumber float64   `json:"WaveNumber,omitempty" hcl:"wave_number,optional"`
	Value      float64   `json:"Value,omitempty" hcl:"value,optional"`
}

// Build checks fs against a problem dimension and returns its function.
func (fs FunctionSpec) Build(ndim int) (f ScalarFunction, err error) {
	checkLen := func(name string, v []float64) error {
		if len(v) != ndim {
			return fmt.Errorf("%s function: %s needs %d components, have %d", fs.Type, name, ndim, len(v))
		}
		return nil
	}
	switch strings.ToLower(fs.Type) {
	case "circle", "sphere":
		if err = checkLen("center", fs.Center); err != nil {
			return
		}
		if !(fs.Radius > 0) {
			return nil, fmt.Errorf("%s function: radius must be positive", fs.Type)
		}
		f = Circle(fs.Center, fs.Radius)
	case "plane":
		if err = checkLen("normal", fs.Normal); err != nil {
			return
		}
		f = Plane(fs.Normal, fs.Offset)
	case "sine", "sin":
		if fs.Axis < 0 || fs.Axis >= ndim {
			return nil, fmt.Errorf("sine function: axis %d out of range", fs.Axis)
		}
		k := fs.WaveNumber
		if k == 0 {
			k = 1
		}
		f = Sine(fs.Axis, k)
	case "x", "y", "z":
		axis := int(strings.ToLower(fs.Type)[0] - 'x')
		if axis >= ndim {
			return nil, fmt.Errorf("coordinate %s out of range for %d dimensions", fs.Type, ndim)
		}
		f = Coordinate(axis)
	case "constant":
		f = Constant(fs.Value)
	default:
		err = fmt.Errorf("unknown function type %q", fs.Type)
	}
	return
}

// Derivative returns the analytic derivative along natural axis of the
// function fs builds. fs must already have passed Build.
func (fs FunctionSpec) Derivative(axis int) (df ScalarFunction) {
	switch strings.ToLower(fs.Type) {
	case "circle", "sphere":
		g := Circle(fs.Center, 0)
		return func(x []float64) float64 {
			r := g(x)
			if r == 0 {
				return 0
			}
			return (x[axis] - fs.Center[axis]) / r
		}
	case "plane":
		var norm float64
		for _, v := range fs.Normal {
			norm += v * v
		}
		return Constant(fs.Normal[axis] / math.Sqrt(norm))
	case "sine", "sin":
		k := fs.WaveNumber
		if k == 0 {
			k = 1
		}
		return SineDerivative(fs.Axis, k, axis)
	case "x", "y", "z":
		if int(strings.ToLower(fs.Type)[0]-'x') == axis {
			return Constant(1)
		}
	}
	return Constant(0)
}
