package types

import (
	"fmt"

	"github.com/notargets/golsm/utils"
)

/*
Array is a dynamically typed, column-major array as handed over by a host
program. Dims is in storage order with the first axis varying fastest. Exactly
one of F32 and F64 carries the data; which one is set decides the Precision.
*/
type Array struct {
	Dims []int
	F32  []float32
	F64  []float64
}

func NewArray64(dims []int, data []float64) Array {
	return Array{Dims: append([]int(nil), dims...), F64: data}
}

func NewArray32(dims []int, data []float32) Array {
	return Array{Dims: append([]int(nil), dims...), F32: data}
}

// FromSlice wraps data without copying it.
func FromSlice[T utils.Float](dims []int, data []T) (a Array) {
	a.Dims = append([]int(nil), dims...)
	switch d := any(data).(type) {
	case []float32:
		a.F32 = d
	case []float64:
		a.F64 = d
	}
	return
}

// Slice returns the data of a as []T, or nil when T is not a's precision.
func Slice[T utils.Float](a Array) []T {
	var data any
	switch a.Precision() {
	case Float32:
		data = a.F32
	case Float64:
		data = a.F64
	default:
		return nil
	}
	s, _ := data.([]T)
	return s
}

// Zeros allocates a zero array of the given precision.
func Zeros(p Precision, dims []int) (a Array, err error) {
	var n = 1
	for _, d := range dims {
		n *= d
	}
	a.Dims = append([]int(nil), dims...)
	switch p {
	case Float32:
		a.F32, err = utils.Allocate[float32](n)
	case Float64:
		a.F64, err = utils.Allocate[float64](n)
	default:
		err = fmt.Errorf("unknown precision %v", p)
	}
	return
}

func (a Array) Precision() Precision {
	switch {
	case a.F64 != nil:
		return Float64
	case a.F32 != nil:
		return Float32
	}
	return PrecisionNone
}

// IsEmpty reports an absent argument: no shape and no data.
func (a Array) IsEmpty() bool {
	return len(a.Dims) == 0 && a.Precision() == PrecisionNone
}

func (a Array) NDim() int { return len(a.Dims) }

func (a Array) Len() int {
	if a.F64 != nil {
		return len(a.F64)
	}
	return len(a.F32)
}

// Size is the element count implied by Dims.
func (a Array) Size() (n int) {
	if len(a.Dims) == 0 {
		return 0
	}
	n = 1
	for _, d := range a.Dims {
		n *= d
	}
	return
}

func (a Array) Box() utils.Box { return utils.NewBox(a.Dims...) }

func (a Array) SameShape(b Array) bool {
	if len(a.Dims) != len(b.Dims) {
		return false
	}
	for i := range a.Dims {
		if a.Dims[i] != b.Dims[i] {
			return false
		}
	}
	return true
}

// Validate checks that a carries data of one precision consistent with Dims.
// name identifies the argument in the returned error.
func (a Array) Validate(name string) error {
	if a.F32 != nil && a.F64 != nil {
		return utils.NewValidationError(name, "carries both float32 and float64 data")
	}
	if a.Precision() == PrecisionNone {
		return utils.NewValidationError(name, "has no floating-point data")
	}
	if len(a.Dims) == 0 {
		return utils.NewValidationError(name, "has no dimensions")
	}
	for i, d := range a.Dims {
		if d < 1 {
			return utils.NewValidationError(name, "axis %d has extent %d", i, d)
		}
	}
	if a.Len() != a.Size() {
		ve := utils.NewValidationError(name, "dims %v hold %d values, have %d", a.Dims, a.Size(), a.Len())
		ve.Err = utils.ErrShapeMismatch
		return ve
	}
	return nil
}

func (a Array) String() string {
	return fmt.Sprintf("%v%v", a.Precision(), a.Dims)
}
