package regrid

import (
	"fmt"

	"go.ngs.io/regrid/internal/adapter/sphere"
	"go.ngs.io/regrid/internal/domain"
)

// Grid describes the spatial part of a field: which coordinates locate its
// points and which dimensions they span.
type Grid struct {
	XCoord string
	YCoord string
	TCoord string // Leading time dimension, or "" for none.

	SpatialDims  []string
	SpatialShape []int
	TimeLen      int // 0 when TCoord is empty.
}

// Size returns the number of spatial points.
func (g Grid) Size() int {
	return domain.Product(g.SpatialShape)
}

// Describe derives the grid of f located by the x and y coordinates.
// When t is set it must name the first dimension of f. Spatial dims are the
// dims spanned by x and y, in the order f declares them.
func Describe(f *domain.Field, x, y, t string) (Grid, error) {
	if f == nil {
		return Grid{}, fmt.Errorf("%w: nil field", domain.ErrInvalidField)
	}

	xc, err := f.Coord(x)
	if err != nil {
		return Grid{}, err
	}
	yc, err := f.Coord(y)
	if err != nil {
		return Grid{}, err
	}

	g := Grid{XCoord: x, YCoord: y, TCoord: t}
	if t != "" {
		if len(f.Dims) == 0 || f.Dims[0] != t {
			return Grid{}, fmt.Errorf("%w: time dimension %q must come first in %v",
				domain.ErrUnsupportedLayout, t, f.Dims)
		}
		g.TimeLen = f.Shape[0]
	}

	spanned := make(map[string]bool, 2)
	for _, d := range xc.Dims {
		spanned[d] = true
	}
	for _, d := range yc.Dims {
		spanned[d] = true
	}
	if t != "" && spanned[t] {
		return Grid{}, fmt.Errorf("%w: coordinates %q/%q vary along time dimension %q",
			domain.ErrUnsupportedLayout, x, y, t)
	}
	for i, d := range f.Dims {
		if spanned[d] {
			g.SpatialDims = append(g.SpatialDims, d)
			g.SpatialShape = append(g.SpatialShape, f.Shape[i])
		}
	}
	if len(g.SpatialDims) == 0 {
		return Grid{}, fmt.Errorf("%w: coordinates %q/%q span no dimension", domain.ErrUnsupportedLayout, x, y)
	}

	return g, nil
}

// describeSource is Describe plus the requirement that the spatial and time
// dims cover every dimension of f, so values can be addressed as
// [t*Size() + flat].
func describeSource(f *domain.Field, x, y, t string) (Grid, error) {
	g, err := Describe(f, x, y, t)
	if err != nil {
		return Grid{}, err
	}
	covered := len(g.SpatialDims)
	if t != "" {
		covered++
	}
	if covered != len(f.Dims) {
		return Grid{}, fmt.Errorf("%w: dims %v are not all spanned by %q, %q and time %q",
			domain.ErrUnsupportedLayout, f.Dims, x, y, t)
	}
	return g, nil
}

// points projects the grid of f onto the sphere. Point i corresponds to
// row-major flat position i of g.SpatialShape.
func points(f *domain.Field, g Grid, radius float64) ([]sphere.Point, error) {
	if err := sphere.ValidateRadius(radius); err != nil {
		return nil, err
	}
	xc, err := f.Coord(g.XCoord)
	if err != nil {
		return nil, err
	}
	yc, err := f.Coord(g.YCoord)
	if err != nil {
		return nil, err
	}

	switch {
	case isAxis(yc, g, 0) && isAxis(xc, g, 1):
		// Canonical [y, x] layout with 1-D axes.
		return sphere.Project(xc, yc, radius)
	case len(xc.Dims) != len(yc.Dims):
		// Mixed rank: the projector rejects it.
		return sphere.Project(xc, yc, radius)
	}

	return sphere.ProjectPoints(broadcast(xc, g), broadcast(yc, g), radius)
}

// isAxis reports whether c is a 1-D coordinate over spatial dim pos of a 2-D grid.
func isAxis(c domain.Coord, g Grid, pos int) bool {
	return len(g.SpatialDims) == 2 && len(c.Dims) == 1 && c.Dims[0] == g.SpatialDims[pos]
}

// broadcast lays c out over the full spatial shape of g in row-major order.
func broadcast(c domain.Coord, g Grid) []float64 {
	pos := make([]int, len(c.Dims))
	for i, d := range c.Dims {
		for j, s := range g.SpatialDims {
			if s == d {
				pos[i] = j
			}
		}
	}

	out := make([]float64, g.Size())
	cidx := make([]int, len(c.Dims))
	for off := range out {
		idx := domain.Unravel(g.SpatialShape, off)
		for i, p := range pos {
			cidx[i] = idx[p]
		}
		out[off] = c.Values[domain.Offset(c.Shape, cidx)]
	}
	return out
}
