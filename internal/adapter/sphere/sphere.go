// Package sphere projects longitude/latitude coordinates onto Cartesian
// points on a sphere, the metric space used for neighbour search.
package sphere

import (
	"fmt"
	"math"

	"go.ngs.io/regrid/internal/domain"
)

// DefaultRadius projects onto the unit sphere.
const DefaultRadius = 1.0

// Point is a Cartesian point on the sphere.
type Point struct {
	X, Y, Z float64
}

// Norm returns the distance of the point from the origin.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// ToCartesian converts a single (lon, lat) pair in degrees.
//
//	x = r cos(lat) cos(lon)
//	y = r cos(lat) sin(lon)
//	z = r sin(lat)
func ToCartesian(lon, lat, radius float64) Point {
	lonR := toRad(lon)
	latR := toRad(lat)
	cosLat := math.Cos(latR)
	return Point{
		X: radius * cosLat * math.Cos(lonR),
		Y: radius * cosLat * math.Sin(lonR),
		Z: radius * math.Sin(latR),
	}
}

// ValidateRadius rejects radii that cannot define a sphere.
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return fmt.Errorf("%w: sphere radius must be positive and finite, got %v", domain.ErrInvalidParameter, radius)
	}
	return nil
}

// ProjectGrid projects the outer product of two axis vectors.
// Rows follow latitude and columns follow longitude, so point i*len(lon)+j
// is (lon[j], lat[i]).
func ProjectGrid(lon, lat []float64, radius float64) []Point {
	points := make([]Point, 0, len(lon)*len(lat))
	for _, la := range lat {
		for _, lo := range lon {
			points = append(points, ToCartesian(lo, la, radius))
		}
	}
	return points
}

// ProjectPoints projects parallel lon/lat arrays element-wise.
func ProjectPoints(lon, lat []float64, radius float64) ([]Point, error) {
	if len(lon) != len(lat) {
		return nil, fmt.Errorf("%w: %d longitudes and %d latitudes", domain.ErrInvalidGridShape, len(lon), len(lat))
	}
	points := make([]Point, len(lon))
	for i := range lon {
		points[i] = ToCartesian(lon[i], lat[i], radius)
	}
	return points, nil
}

// Project converts a pair of coordinate arrays into a flat point set.
// Two 1-D axes form an implicit grid (see ProjectGrid); arrays sharing the
// same N-D shape are projected element-wise in row-major order.
func Project(lon, lat domain.Coord, radius float64) ([]Point, error) {
	if err := ValidateRadius(radius); err != nil {
		return nil, err
	}

	lonShape, latShape := shapeOf(lon), shapeOf(lat)
	switch {
	case len(lonShape) == 1 && len(latShape) == 1:
		return ProjectGrid(lon.Values, lat.Values, radius), nil
	case len(lonShape) == 1 || len(latShape) == 1:
		return nil, fmt.Errorf("%w: cannot combine %d-D longitude with %d-D latitude",
			domain.ErrInvalidGridShape, len(lonShape), len(latShape))
	case !sameShape(lonShape, latShape):
		return nil, fmt.Errorf("%w: longitude shape %v differs from latitude shape %v",
			domain.ErrInvalidGridShape, lonShape, latShape)
	}
	return ProjectPoints(lon.Values, lat.Values, radius)
}

func shapeOf(c domain.Coord) []int {
	if len(c.Shape) > 0 {
		return c.Shape
	}
	return []int{len(c.Values)}
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
