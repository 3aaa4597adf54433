package fastmarching

import (
	"fmt"

	"github.com/notargets/golsm/utils"
)

// DegeneracyError reports a point whose distance cannot be computed because
// no Known neighbour supports a stencil.
type DegeneracyError struct {
	Coords utils.Index
	Reason string
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("fastmarching: degenerate stencil at %v: %s", e.Coords, e.Reason)
}

func (e *DegeneracyError) Unwrap() error { return utils.ErrNumericalDegeneracy }
