package utils

import "math"

const (
	NODETOL = 1.e-12
)

// MaxScratchElements bounds the number of elements any single scratch or
// output buffer may hold. Allocate refuses larger requests.
var MaxScratchElements = 1 << 30

// Inf returns the "infinite" sentinel for T.
func Inf[T Float]() T {
	return T(math.Inf(1))
}
