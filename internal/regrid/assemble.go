package regrid

import (
	"fmt"

	"golang.org/x/exp/slices"

	"go.ngs.io/regrid/internal/domain"
)

// assemble wraps remapped values in a field shaped like the target grid,
// prefixed by the source time axis when there is one. Name and attributes
// come from the source.
func assemble(src *domain.Field, sg Grid, target *domain.Field, tg Grid, values []float64) (*domain.Field, error) {
	dims := make([]string, 0, len(tg.SpatialDims)+1)
	shape := make([]int, 0, len(tg.SpatialShape)+1)
	coords := make(map[string]domain.Coord, 3)

	if sg.TCoord != "" {
		for _, d := range tg.SpatialDims {
			if d == sg.TCoord {
				return nil, fmt.Errorf("%w: target spatial dim %q clashes with source time dim",
					domain.ErrUnsupportedLayout, d)
			}
		}
		dims = append(dims, sg.TCoord)
		shape = append(shape, sg.TimeLen)
		if c, ok := src.Coords[sg.TCoord]; ok && len(c.Dims) == 1 && c.Dims[0] == sg.TCoord {
			coords[sg.TCoord] = cloneCoord(c)
		}
	}
	dims = append(dims, tg.SpatialDims...)
	shape = append(shape, tg.SpatialShape...)

	for _, name := range []string{tg.XCoord, tg.YCoord} {
		c, err := target.Coord(name)
		if err != nil {
			return nil, err
		}
		coords[name] = cloneCoord(c)
	}

	out, err := domain.NewField(src.Name, values, dims, shape, coords)
	if err != nil {
		return nil, err
	}
	for k, v := range src.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

func cloneCoord(c domain.Coord) domain.Coord {
	return domain.Coord{
		Dims:   slices.Clone(c.Dims),
		Shape:  slices.Clone(c.Shape),
		Values: slices.Clone(c.Values),
	}
}
