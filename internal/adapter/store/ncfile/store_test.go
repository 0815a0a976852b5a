package ncfile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/regrid/internal/domain"
)

// createPackedTestFile writes a [lat, lon] SHORT variable with scale_factor,
// add_offset and _FillValue, plus a units attribute.
func createPackedTestFile(t *testing.T, path string, latVals, lonVals []float64, packed []int16) {
	t.Helper()
	//nolint:gosec // G301: Standard test directory permissions.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	defer func() { _ = f.Close() }()

	latDim, _ := f.AddDim("lat", uint64(len(latVals)))
	lonDim, _ := f.AddDim("lon", uint64(len(lonVals)))
	vlat, _ := f.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	vlon, _ := f.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	vsst, _ := f.AddVar("sst", netcdf.SHORT, []netcdf.Dim{latDim, lonDim})

	if err := vsst.Attr("scale_factor").WriteFloat64s([]float64{0.5}); err != nil {
		t.Fatalf("write scale_factor: %v", err)
	}
	if err := vsst.Attr("add_offset").WriteFloat64s([]float64{10}); err != nil {
		t.Fatalf("write add_offset: %v", err)
	}
	if err := vsst.Attr("_FillValue").WriteInt16s([]int16{-999}); err != nil {
		t.Fatalf("write _FillValue: %v", err)
	}
	if err := vsst.Attr("units").WriteBytes([]byte("degC")); err != nil {
		t.Fatalf("write units: %v", err)
	}

	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}
	if err := vlat.WriteFloat64s(latVals); err != nil {
		t.Fatalf("write lat: %v", err)
	}
	if err := vlon.WriteFloat64s(lonVals); err != nil {
		t.Fatalf("write lon: %v", err)
	}
	if err := vsst.WriteInt16s(packed); err != nil {
		t.Fatalf("write sst: %v", err)
	}
}

func TestLoad_UnpacksValuesAndCoords(t *testing.T) {
	dir := t.TempDir()
	createPackedTestFile(t, filepath.Join(dir, "sst.nc"),
		[]float64{-10, 0, 10}, []float64{100, 110},
		[]int16{0, 2, 4, -999, 8, 10},
	)

	s := NewStore(dir)
	f, err := s.Load("sst.nc", "sst")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(f.Dims) != 2 || f.Dims[0] != "lat" || f.Dims[1] != "lon" {
		t.Fatalf("dims = %v, want [lat lon]", f.Dims)
	}
	want := []float64{10, 11, 12, math.NaN(), 14, 15}
	for i, w := range want {
		got := f.Values[i]
		if math.IsNaN(w) {
			if !math.IsNaN(got) {
				t.Errorf("value %d = %v, want NaN", i, got)
			}
			continue
		}
		if math.Abs(got-w) > 1e-12 {
			t.Errorf("value %d = %v, want %v", i, got, w)
		}
	}

	lat, err := f.Coord("lat")
	if err != nil {
		t.Fatalf("Coord(lat): %v", err)
	}
	if lat.Len() != 3 || lat.Values[2] != 10 {
		t.Errorf("lat = %v", lat.Values)
	}
	if f.Attrs["units"] != "degC" {
		t.Errorf("units = %q, want degC", f.Attrs["units"])
	}
}

func TestWriteLoad_TimeAndAuxiliaryCoords(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	lon := []float64{0, 10, 20, 1, 11, 21}
	lat := []float64{5, 5, 5, 6, 6, 6}
	values := make([]float64, 2*2*3)
	for i := range values {
		values[i] = float64(i) * 0.25
	}
	values[3] = math.NaN()

	in, err := domain.NewField("tos", values, []string{"time", "y", "x"}, []int{2, 2, 3},
		map[string]domain.Coord{
			"time": domain.Axis("time", []float64{0, 1}),
			"lon":  {Dims: []string{"y", "x"}, Values: lon},
			"lat":  {Dims: []string{"y", "x"}, Values: lat},
		})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	in.Attrs["units"] = "K"

	if err := s.Write("out/tos.nc", in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := s.Load("out/tos.nc", "tos")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(out.Shape) != 3 || out.Shape[0] != 2 || out.Shape[1] != 2 || out.Shape[2] != 3 {
		t.Fatalf("shape = %v", out.Shape)
	}
	for i := range values {
		if math.IsNaN(values[i]) != math.IsNaN(out.Values[i]) || (!math.IsNaN(values[i]) && out.Values[i] != values[i]) {
			t.Errorf("value %d = %v, want %v", i, out.Values[i], values[i])
		}
	}
	for _, name := range []string{"time", "lon", "lat"} {
		if _, err := out.Coord(name); err != nil {
			t.Errorf("coordinate %s lost: %v", name, err)
		}
	}
	if c := out.Coords["lon"]; len(c.Dims) != 2 || c.Values[4] != 11 {
		t.Errorf("lon = %+v", c)
	}
	if out.Attrs["units"] != "K" {
		t.Errorf("units = %q", out.Attrs["units"])
	}
}

func TestLoad_NotFound(t *testing.T) {
	dir := t.TempDir()
	createPackedTestFile(t, filepath.Join(dir, "sst.nc"), []float64{0}, []float64{0}, []int16{1})
	s := NewStore(dir)

	if _, err := s.Load("missing.nc", "sst"); !errors.Is(err, domain.ErrFieldNotFound) {
		t.Errorf("missing file: error = %v, want ErrFieldNotFound", err)
	}
	if _, err := s.Load("sst.nc", "chl"); !errors.Is(err, domain.ErrFieldNotFound) {
		t.Errorf("missing variable: error = %v, want ErrFieldNotFound", err)
	}
	if _, err := s.Version("missing.nc"); !errors.Is(err, domain.ErrFieldNotFound) {
		t.Errorf("Version: error = %v, want ErrFieldNotFound", err)
	}
}

func TestResolve_Sandbox(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, p := range []string{"../secret.nc", "a/../../b.nc", ""} {
		if _, err := s.resolve(p); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("resolve(%q) error = %v, want ErrInvalidParameter", p, err)
		}
	}
	if _, err := s.resolve("nested/ok.nc"); err != nil {
		t.Errorf("resolve(nested/ok.nc): %v", err)
	}

	open := NewStore("")
	if got, err := open.resolve("../x.nc"); err != nil || got != "../x.nc" {
		t.Errorf("unsandboxed resolve = %q, %v", got, err)
	}
}

func TestVersion_ChangesOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sst.nc")
	createPackedTestFile(t, path, []float64{0}, []float64{0}, []int16{1})
	s := NewStore(dir)

	v1, err := s.Version("sst.nc")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	createPackedTestFile(t, path, []float64{0, 1}, []float64{0, 1}, []int16{1, 2, 3, 4})
	v2, err := s.Version("sst.nc")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v1 == v2 {
		t.Errorf("version unchanged after rewrite: %s", v1)
	}
}
