package fastmarching

// extend solves sum(weight*(d-center)*(f-fc)) = 0 for f, where fc combines the
// neighbour values of field with the same order as the distance term.
func (st *stencil[T]) extend(d T, field []T) (f T) {
	var num, den, mean T
	for _, t := range st.terms[:st.n] {
		fc := field[t.offset1]
		if t.offset2 >= 0 {
			fc = (4*field[t.offset1] - field[t.offset2]) / 3
		}
		w := t.weight * (d - t.center)
		num += w * fc
		den += w
		mean += fc
	}
	if den > 0 {
		return num / den
	}
	return mean / T(st.n)
}
