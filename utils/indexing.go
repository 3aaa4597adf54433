package utils

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Float is the element type of every field the kernels operate on.
type Float interface {
	constraints.Float
}

// Index is a multi-dimensional grid index in storage order.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

// Box is an inclusive per-axis index range. Axis 0 varies fastest in memory.
type Box struct {
	Lo, Hi Index
}

// NewBox returns the box [0, dims[a]-1] on every axis.
func NewBox(dims ...int) (b Box) {
	b = Box{Lo: NewIndex(len(dims)), Hi: NewIndex(len(dims))}
	for a, n := range dims {
		b.Hi[a] = n - 1
	}
	return
}

func NewBoxFromBounds(lo, hi Index) (b Box, err error) {
	if len(lo) != len(hi) {
		err = fmt.Errorf("%w: lower bound has %d axes, upper bound has %d",
			ErrShapeMismatch, len(lo), len(hi))
		return
	}
	b = Box{Lo: lo.Copy(), Hi: hi.Copy()}
	return
}

func (b Box) NDim() int { return len(b.Lo) }

func (b Box) Extent(axis int) int { return b.Hi[axis] - b.Lo[axis] + 1 }

func (b Box) Dims() (dims []int) {
	dims = make([]int, b.NDim())
	for a := range dims {
		dims[a] = b.Extent(a)
	}
	return
}

// Empty is true when any axis has no points.
func (b Box) Empty() bool {
	for a := range b.Lo {
		if b.Hi[a] < b.Lo[a] {
			return true
		}
	}
	return b.NDim() == 0
}

func (b Box) Size() (n int) {
	if b.Empty() {
		return 0
	}
	n = 1
	for a := range b.Lo {
		n *= b.Extent(a)
	}
	return
}

func (b Box) Contains(idx Index) bool {
	for a, i := range idx {
		if i < b.Lo[a] || i > b.Hi[a] {
			return false
		}
	}
	return true
}

// ContainsBox is true when every point of inner lies inside b.
func (b Box) ContainsBox(inner Box) bool {
	if inner.Empty() {
		return true
	}
	return b.Contains(inner.Lo) && b.Contains(inner.Hi)
}

func (b Box) Equal(o Box) bool {
	if b.NDim() != o.NDim() {
		return false
	}
	for a := range b.Lo {
		if b.Lo[a] != o.Lo[a] || b.Hi[a] != o.Hi[a] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for a := range b.Lo {
		if a > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d:%d", b.Lo[a], b.Hi[a])
	}
	sb.WriteString("]")
	return sb.String()
}

// AlignBox centers aux inside primary on every axis where their extents
// differ. The shift (primaryExtent-auxExtent)/2 must be an integer.
func AlignBox(primary, aux Box) (aligned Box, err error) {
	if primary.NDim() != aux.NDim() {
		err = fmt.Errorf("%w: primary box has %d axes, auxiliary box has %d",
			ErrShapeMismatch, primary.NDim(), aux.NDim())
		return
	}
	aligned = Box{Lo: aux.Lo.Copy(), Hi: aux.Hi.Copy()}
	for a := range primary.Lo {
		pExt, aExt := primary.Extent(a), aux.Extent(a)
		if pExt == aExt {
			continue
		}
		diff := pExt - aExt
		if diff%2 != 0 {
			err = fmt.Errorf("%w: axis %d extents %d and %d cannot be centered",
				ErrShapeMismatch, a, pExt, aExt)
			return
		}
		aligned.Lo[a] = primary.Lo[a] + diff/2
		aligned.Hi[a] = aligned.Lo[a] + aExt - 1
	}
	return
}

// FillBox shrinks ghost by ghostWidth on every side. The result may be empty.
func FillBox(ghost Box, ghostWidth int) (fill Box, err error) {
	if ghostWidth < 0 {
		err = NewValidationError("ghostWidth", "must be >= 0, have %d", ghostWidth)
		return
	}
	fill = Box{Lo: ghost.Lo.Add(ghostWidth), Hi: ghost.Hi.Add(-ghostWidth)}
	return
}

// ForEach visits every index of b in storage order. The idx slice is reused
// between calls.
func (b Box) ForEach(f func(idx Index)) {
	if b.Empty() {
		return
	}
	idx := b.Lo.Copy()
	nd := b.NDim()
	for {
		f(idx)
		a := 0
		for ; a < nd; a++ {
			idx[a]++
			if idx[a] <= b.Hi[a] {
				break
			}
			idx[a] = b.Lo[a]
		}
		if a == nd {
			return
		}
	}
}

// SubBox restricts b to [lo, hi] along one axis.
func (b Box) SubBox(axis, lo, hi int) (s Box) {
	s = Box{Lo: b.Lo.Copy(), Hi: b.Hi.Copy()}
	s.Lo[axis], s.Hi[axis] = lo, hi
	return
}
