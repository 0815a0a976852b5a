// Package domain holds the labeled field model shared by the regridding core,
// the stores and the HTTP layer.
package domain

import (
	"fmt"
)

// Coord is a coordinate array over one or more of a field's dimensions.
// Values are stored row-major in the order of Dims.
type Coord struct {
	Dims   []string
	Shape  []int // Filled by NewField from the owning field's extents.
	Values []float64
}

// Axis builds a 1-D dimension coordinate.
func Axis(dim string, values []float64) Coord {
	return Coord{
		Dims:   []string{dim},
		Shape:  []int{len(values)},
		Values: values,
	}
}

// Len returns the number of values in the coordinate.
func (c Coord) Len() int {
	return len(c.Values)
}

// Field is a named N-D array with named dimensions and coordinates.
// Values are stored row-major: the last dimension varies fastest.
type Field struct {
	Name   string
	Dims   []string
	Shape  []int
	Coords map[string]Coord
	Values []float64
	Attrs  map[string]string
}

// NewField validates and assembles a field. Value and coordinate slices are
// borrowed, not copied.
func NewField(name string, values []float64, dims []string, shape []int, coords map[string]Coord) (*Field, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("%w: %d dims but %d extents", ErrInvalidField, len(dims), len(shape))
	}

	sizes := make(map[string]int, len(dims))
	for i, d := range dims {
		if d == "" {
			return nil, fmt.Errorf("%w: dimension %d has no name", ErrInvalidField, i)
		}
		if _, dup := sizes[d]; dup {
			return nil, fmt.Errorf("%w: duplicate dimension %q", ErrInvalidField, d)
		}
		if shape[i] < 0 {
			return nil, fmt.Errorf("%w: dimension %q has negative extent %d", ErrInvalidField, d, shape[i])
		}
		sizes[d] = shape[i]
	}

	if n := Product(shape); len(values) != n {
		return nil, fmt.Errorf("%w: %d values for shape %v (want %d)", ErrInvalidField, len(values), shape, n)
	}

	out := make(map[string]Coord, len(coords))
	for name, c := range coords {
		cshape := make([]int, len(c.Dims))
		for i, d := range c.Dims {
			n, ok := sizes[d]
			if !ok {
				return nil, fmt.Errorf("%w: coordinate %q uses unknown dimension %q", ErrInvalidField, name, d)
			}
			cshape[i] = n
		}
		if len(c.Values) != Product(cshape) {
			return nil, fmt.Errorf("%w: coordinate %q has %d values, dims %v need %d",
				ErrInvalidField, name, len(c.Values), c.Dims, Product(cshape))
		}
		out[name] = Coord{Dims: c.Dims, Shape: cshape, Values: c.Values}
	}

	return &Field{
		Name:   name,
		Dims:   dims,
		Shape:  shape,
		Coords: out,
		Values: values,
		Attrs:  map[string]string{},
	}, nil
}

// DimIndex returns the position of a dimension, or -1.
func (f *Field) DimIndex(name string) int {
	for i, d := range f.Dims {
		if d == name {
			return i
		}
	}
	return -1
}

// Size returns the extent of a dimension.
func (f *Field) Size(dim string) (int, bool) {
	i := f.DimIndex(dim)
	if i < 0 {
		return 0, false
	}
	return f.Shape[i], true
}

// Coord looks up a coordinate by name.
func (f *Field) Coord(name string) (Coord, error) {
	c, ok := f.Coords[name]
	if !ok {
		return Coord{}, fmt.Errorf("%w: %q in field %q", ErrCoordNotFound, name, f.Name)
	}
	return c, nil
}

// At returns the value at the given multi-index.
func (f *Field) At(idx ...int) float64 {
	return f.Values[Offset(f.Shape, idx)]
}

// Product returns the number of elements of an array with the given shape.
func Product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Offset converts a multi-index to a row-major flat offset.
func Offset(shape, idx []int) int {
	off := 0
	for i, s := range shape {
		off = off*s + idx[i]
	}
	return off
}

// Unravel converts a row-major flat offset back to a multi-index.
func Unravel(shape []int, off int) []int {
	idx := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == 0 {
			return idx
		}
		idx[i] = off % shape[i]
		off /= shape[i]
	}
	return idx
}

// Linspace returns n evenly spaced values over [start, stop], both included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
