package utils

import "fmt"

// Allocate returns a zeroed buffer of n elements, or ErrAllocation when n is
// negative or exceeds MaxScratchElements.
func Allocate[T any](n int) (buf []T, err error) {
	if n < 0 || n > MaxScratchElements {
		err = fmt.Errorf("%w: %d elements requested, limit is %d",
			ErrAllocation, n, MaxScratchElements)
		return
	}
	buf = make([]T, n)
	return
}

// ConstArray returns n copies of val, subject to the same limit as Allocate.
func ConstArray[T any](n int, val T) (v []T, err error) {
	if v, err = Allocate[T](n); err != nil {
		return
	}
	for i := range v {
		v[i] = val
	}
	return
}
