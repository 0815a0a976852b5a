package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewField_Valid(t *testing.T) {
	lat := []float64{-10, 0, 10}
	lon := []float64{0, 90}
	f, err := NewField("tas", make([]float64, 6), []string{"lat", "lon"}, []int{3, 2}, map[string]Coord{
		"lat": Axis("lat", lat),
		"lon": Axis("lon", lon),
	})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	if n, ok := f.Size("lat"); !ok || n != 3 {
		t.Errorf("Size(lat) = %d, %v; want 3, true", n, ok)
	}
	if f.DimIndex("lon") != 1 {
		t.Errorf("DimIndex(lon) = %d, want 1", f.DimIndex("lon"))
	}
	c, err := f.Coord("lon")
	if err != nil {
		t.Fatalf("Coord(lon): %v", err)
	}
	if len(c.Shape) != 1 || c.Shape[0] != 2 {
		t.Errorf("coord shape = %v, want [2]", c.Shape)
	}
}

func TestNewField_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		dims   []string
		shape  []int
		coords map[string]Coord
	}{
		{
			name:   "dims and shape differ",
			values: make([]float64, 4),
			dims:   []string{"lat"},
			shape:  []int{2, 2},
		},
		{
			name:   "value count mismatch",
			values: make([]float64, 5),
			dims:   []string{"lat", "lon"},
			shape:  []int{2, 2},
		},
		{
			name:   "duplicate dimension",
			values: make([]float64, 4),
			dims:   []string{"lat", "lat"},
			shape:  []int{2, 2},
		},
		{
			name:   "coordinate on unknown dimension",
			values: make([]float64, 4),
			dims:   []string{"lat", "lon"},
			shape:  []int{2, 2},
			coords: map[string]Coord{"time": Axis("time", []float64{0, 1})},
		},
		{
			name:   "coordinate length mismatch",
			values: make([]float64, 4),
			dims:   []string{"lat", "lon"},
			shape:  []int{2, 2},
			coords: map[string]Coord{"lat": Axis("lat", []float64{0, 1, 2})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewField("x", tt.values, tt.dims, tt.shape, tt.coords)
			if !errors.Is(err, ErrInvalidField) {
				t.Errorf("NewField() error = %v, want ErrInvalidField", err)
			}
		})
	}
}

func TestField_CoordNotFound(t *testing.T) {
	f, err := NewField("x", []float64{1}, []string{"cell"}, []int{1}, nil)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if _, err := f.Coord("lat"); !errors.Is(err, ErrCoordNotFound) {
		t.Errorf("Coord(lat) error = %v, want ErrCoordNotFound", err)
	}
}

func TestOffsetUnravel(t *testing.T) {
	shape := []int{3, 4, 5}
	for off := 0; off < Product(shape); off++ {
		idx := Unravel(shape, off)
		if got := Offset(shape, idx); got != off {
			t.Fatalf("Offset(Unravel(%d)) = %d", off, got)
		}
	}

	f, err := NewField("x", []float64{0, 1, 2, 3, 4, 5}, []string{"y", "x"}, []int{2, 3}, nil)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if got := f.At(1, 2); got != 5 {
		t.Errorf("At(1, 2) = %v, want 5", got)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(-90, 90, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0] != -90 || got[9] != 90 {
		t.Errorf("endpoints = %v, %v", got[0], got[9])
	}
	if math.Abs(got[1]-(-70)) > 1e-12 {
		t.Errorf("got[1] = %v, want -70", got[1])
	}
	if len(Linspace(0, 1, 0)) != 0 {
		t.Errorf("Linspace with n=0 should be empty")
	}
	if one := Linspace(5, 9, 1); len(one) != 1 || one[0] != 5 {
		t.Errorf("Linspace with n=1 = %v", one)
	}
}
