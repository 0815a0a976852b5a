package sphere

import (
	"errors"
	"math"
	"testing"

	"go.ngs.io/regrid/internal/domain"
)

func TestToCartesian_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     Point
	}{
		{"origin meridian on equator", 0, 0, Point{1, 0, 0}},
		{"90E on equator", 90, 0, Point{0, 1, 0}},
		{"north pole", 123, 90, Point{0, 0, 1}},
		{"south pole", 0, -90, Point{0, 0, -1}},
		{"180 on equator", 180, 0, Point{-1, 0, 0}},
	}

	for _, tt := range tests {
		got := ToCartesian(tt.lon, tt.lat, 1)
		if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 || math.Abs(got.Z-tt.want.Z) > 1e-12 {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestProject_AxesFormUnitGrid(t *testing.T) {
	sizes := [][2]int{{1, 1}, {20, 10}, {7, 7}, {3, 11}}
	for _, s := range sizes {
		lon := domain.Axis("lon", domain.Linspace(0, 360, s[0]))
		lat := domain.Axis("lat", domain.Linspace(-90, 90, s[1]))

		points, err := Project(lon, lat, DefaultRadius)
		if err != nil {
			t.Fatalf("Project(%v): %v", s, err)
		}
		if len(points) != s[0]*s[1] {
			t.Fatalf("Project(%v) returned %d points, want %d", s, len(points), s[0]*s[1])
		}
		for i, p := range points {
			if math.Abs(p.Norm()-1) > 1e-12 {
				t.Fatalf("point %d has norm %.15f", i, p.Norm())
			}
		}
	}
}

func TestProject_GridIsRowMajorByLatitude(t *testing.T) {
	lon := []float64{0, 90, 180}
	lat := []float64{-45, 45}
	points := ProjectGrid(lon, lat, 2)

	for i, la := range lat {
		for j, lo := range lon {
			want := ToCartesian(lo, la, 2)
			if got := points[i*len(lon)+j]; got != want {
				t.Errorf("point (%d,%d) = %+v, want %+v", i, j, got, want)
			}
		}
	}
	if math.Abs(points[0].Norm()-2) > 1e-12 {
		t.Errorf("radius not applied: norm %v", points[0].Norm())
	}
}

func TestProject_FullShapeIsElementWise(t *testing.T) {
	lon := domain.Coord{Dims: []string{"y", "x"}, Shape: []int{2, 2}, Values: []float64{0, 10, 20, 30}}
	lat := domain.Coord{Dims: []string{"y", "x"}, Shape: []int{2, 2}, Values: []float64{1, 2, 3, 4}}

	points, err := Project(lon, lat, DefaultRadius)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}
	for i := range points {
		if want := ToCartesian(lon.Values[i], lat.Values[i], 1); points[i] != want {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want)
		}
	}
}

func TestProject_InvalidShapes(t *testing.T) {
	twoD := domain.Coord{Dims: []string{"y", "x"}, Shape: []int{2, 3}, Values: make([]float64, 6)}
	otherTwoD := domain.Coord{Dims: []string{"y", "x"}, Shape: []int{3, 2}, Values: make([]float64, 6)}
	oneD := domain.Axis("x", make([]float64, 3))

	tests := []struct {
		name     string
		lon, lat domain.Coord
	}{
		{"1-D lon with 2-D lat", oneD, twoD},
		{"2-D lon with 1-D lat", twoD, oneD},
		{"2-D shapes differ", twoD, otherTwoD},
	}
	for _, tt := range tests {
		if _, err := Project(tt.lon, tt.lat, 1); !errors.Is(err, domain.ErrInvalidGridShape) {
			t.Errorf("%s: error = %v, want ErrInvalidGridShape", tt.name, err)
		}
	}

	if _, err := ProjectPoints([]float64{1, 2}, []float64{1}, 1); !errors.Is(err, domain.ErrInvalidGridShape) {
		t.Errorf("ProjectPoints length mismatch: error = %v", err)
	}
}

func TestValidateRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateRadius(r); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("ValidateRadius(%v) = %v, want ErrInvalidParameter", r, err)
		}
	}
	if err := ValidateRadius(6371); err != nil {
		t.Errorf("ValidateRadius(6371) = %v", err)
	}
}
