package utils

import "fmt"

// Field is a column-major array over a Box. Offsets are computed from the box
// origin, so a Field addresses its data with the box's own index values.
type Field[T Float] struct {
	Box     Box
	Data    []T
	Strides []int
}

func NewField[T Float](box Box) (f *Field[T], err error) {
	var data []T
	if data, err = Allocate[T](box.Size()); err != nil {
		return
	}
	return WrapField(box, data)
}

// WrapField uses data as the storage of box without copying.
func WrapField[T Float](box Box, data []T) (f *Field[T], err error) {
	if len(data) != box.Size() {
		err = fmt.Errorf("%w: box %s holds %d values, have %d",
			ErrShapeMismatch, box, box.Size(), len(data))
		return
	}
	f = &Field[T]{
		Box:     box,
		Data:    data,
		Strides: make([]int, box.NDim()),
	}
	stride := 1
	for a := range f.Strides {
		f.Strides[a] = stride
		stride *= box.Extent(a)
	}
	return
}

func (f *Field[T]) Offset(idx Index) (o int) {
	for a, i := range idx {
		o += (i - f.Box.Lo[a]) * f.Strides[a]
	}
	return
}

// Coords decodes an offset into idx, which must have NDim entries.
func (f *Field[T]) Coords(offset int, idx Index) {
	for a := len(f.Strides) - 1; a >= 0; a-- {
		idx[a] = offset/f.Strides[a] + f.Box.Lo[a]
		offset %= f.Strides[a]
	}
}

func (f *Field[T]) At(idx Index) T { return f.Data[f.Offset(idx)] }

func (f *Field[T]) Set(idx Index, val T) { f.Data[f.Offset(idx)] = val }

func (f *Field[T]) Fill(val T) {
	for i := range f.Data {
		f.Data[i] = val
	}
}
