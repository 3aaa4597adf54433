package types

// Precision is the floating-point width shared by every array of one call.
type Precision uint8

const (
	PrecisionNone Precision = iota
	Float32
	Float64
)

var PrecisionNameMap = map[string]Precision{
	"float32": Float32,
	"single":  Float32,
	"float64": Float64,
	"double":  Float64,
}

func (p Precision) String() string {
	switch p {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "none"
}

// Bytes is the width of one element.
func (p Precision) Bytes() int {
	switch p {
	case Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}
