package fastmarching

import (
	"math"

	"github.com/notargets/golsm/utils"
)

// stencilTerm is one axis of a local upwind discretization:
// weight*(d - center)^2, where weight is alpha/h^2 (alpha = 1 for first order,
// 9/4 for second order) and center is v1 or (4*v1 - v2)/3.
type stencilTerm[T utils.Float] struct {
	axis             int
	offset1, offset2 int // first and second upwind neighbours, offset2 < 0 when first order
	weight, center   T
}

type stencil[T utils.Float] struct {
	terms [3]stencilTerm[T]
	n     int
}

func (st *stencil[T]) reset() { st.n = 0 }

func (st *stencil[T]) add(term stencilTerm[T]) {
	// keep terms sorted by center so the most downwind term is last
	i := st.n
	for i > 0 && st.terms[i-1].center > term.center {
		st.terms[i] = st.terms[i-1]
		i--
	}
	st.terms[i] = term
	st.n++
}

// solve finds the largest root of sum(weight*(d-center)^2) = 1 that is not
// smaller than any contributing center. Terms that violate causality are
// dropped, most downwind first; st.n is left at the number of terms used.
func (st *stencil[T]) solve() (d T, ok bool) {
	for k := st.n; k > 0; k-- {
		if k == 1 {
			t := st.terms[0]
			st.n = 1
			return t.center + T(1/math.Sqrt(float64(t.weight))), true
		}
		var A, B, C float64
		for _, t := range st.terms[:k] {
			w, c := float64(t.weight), float64(t.center)
			A += w
			B -= 2 * w * c
			C += w * c * c
		}
		C -= 1
		disc := B*B - 4*A*C
		if disc < 0 {
			continue
		}
		root := T((-B + math.Sqrt(disc)) / (2 * A))
		if root >= st.terms[k-1].center {
			st.n = k
			return root, true
		}
	}
	st.n = 0
	return
}
