package csv

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.ngs.io/regrid/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_Points(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", "station, lon, lat, depth\n"+
		"tokyo, 139.77, 35.65, 12.5\n"+
		"osaka, 135.43, 34.65,\n")

	f, err := NewStore(dir).Load("stations.csv", "depth")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Dims) != 1 || f.Dims[0] != PointDim || f.Shape[0] != 2 {
		t.Fatalf("dims %v shape %v", f.Dims, f.Shape)
	}
	if f.Values[0] != 12.5 || !math.IsNaN(f.Values[1]) {
		t.Errorf("values = %v", f.Values)
	}
	lon, err := f.Coord("lon")
	if err != nil {
		t.Fatalf("Coord(lon): %v", err)
	}
	if lon.Values[1] != 135.43 {
		t.Errorf("lon = %v", lon.Values)
	}
	if _, err := f.Coord("station"); !errors.Is(err, domain.ErrCoordNotFound) {
		t.Errorf("text column should not become a coordinate, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.csv", "lon,lat,name\n1,2,a\n")
	writeFile(t, dir, "ragged.csv", "lon,lat\n1,2\n3\n")
	s := NewStore(dir)

	tests := []struct {
		name     string
		path     string
		variable string
		want     error
	}{
		{"missing file", "none.csv", "lon", domain.ErrFieldNotFound},
		{"missing column", "p.csv", "depth", domain.ErrFieldNotFound},
		{"text variable", "p.csv", "name", domain.ErrInvalidField},
		{"escape", "../p.csv", "lon", domain.ErrInvalidParameter},
	}
	for _, tt := range tests {
		if _, err := s.Load(tt.path, tt.variable); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if _, err := s.Load("ragged.csv", "lon"); err == nil {
		t.Error("ragged rows should fail")
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	f, err := domain.NewField("sst", []float64{20.5, math.NaN(), -1}, []string{PointDim}, []int{3},
		map[string]domain.Coord{
			"lon": domain.Axis(PointDim, []float64{140, 141, 142}),
			"lat": domain.Axis(PointDim, []float64{30, 31, 32}),
		})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := s.Write("out/sst.csv", f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "out", "sst.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "lat,lon,sst\n30,140,20.5\n31,141,\n32,142,-1\n"
	if string(b) != want {
		t.Errorf("file =\n%s\nwant\n%s", b, want)
	}

	got, err := s.Load("out/sst.csv", "sst")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Values[0] != 20.5 || !math.IsNaN(got.Values[1]) || got.Values[2] != -1 {
		t.Errorf("values = %v", got.Values)
	}
	if lat, _ := got.Coord("lat"); lat.Values[2] != 32 {
		t.Errorf("lat = %v", lat.Values)
	}
}

func TestWrite_RejectsGrids(t *testing.T) {
	f, err := domain.NewField("sst", make([]float64, 4), []string{"lat", "lon"}, []int{2, 2}, nil)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := NewStore(t.TempDir()).Write("g.csv", f); !errors.Is(err, domain.ErrUnsupportedLayout) {
		t.Errorf("error = %v, want ErrUnsupportedLayout", err)
	}
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.csv", "lon,lat\n1,2\n")
	s := NewStore(dir)
	if _, err := s.Version("p.csv"); err != nil {
		t.Fatalf("Version: %v", err)
	}
	if _, err := s.Version("q.csv"); !errors.Is(err, domain.ErrFieldNotFound) {
		t.Errorf("missing file: error = %v", err)
	}
}
