// Package ncfile reads and writes labeled fields as NetCDF variables.
package ncfile

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go.ngs.io/regrid/internal/adapter/store"
	"go.ngs.io/regrid/internal/domain"
)

// Store resolves field paths relative to a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir. Paths may not escape dataDir.
// An empty dataDir accepts any path.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Attributes copied between files and fields.
var textAttrs = []string{"units", "long_name", "standard_name"}

func (s *Store) resolve(path string) (string, error) {
	return store.Resolve(s.dataDir, path)
}

// Load reads a variable with its dimension coordinates (1-D variables named
// after a dimension) and the auxiliary coordinates listed in its CF
// "coordinates" attribute.
func (s *Store) Load(path, variable string) (*domain.Field, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s", domain.ErrFieldNotFound, path)
	}

	nc, err := netcdf.OpenFile(full, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	v, err := nc.Var(variable)
	if err != nil {
		return nil, fmt.Errorf("%w: variable %q in %s", domain.ErrFieldNotFound, variable, path)
	}
	dims, shape, err := varLayout(v)
	if err != nil {
		return nil, err
	}
	values, err := readValues(v, domain.Product(shape))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", variable, err)
	}

	coords := make(map[string]domain.Coord)
	for _, d := range dims {
		cv, err := nc.Var(d)
		if err != nil {
			continue
		}
		c, err := readCoord(cv)
		if err != nil {
			return nil, fmt.Errorf("failed to read coordinate %s: %w", d, err)
		}
		if len(c.Dims) == 1 && c.Dims[0] == d {
			coords[d] = c
		}
	}
	if aux, ok := attrString(v, "coordinates"); ok {
		for _, name := range strings.Fields(aux) {
			if _, done := coords[name]; done {
				continue
			}
			cv, err := nc.Var(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %q listed in coordinates of %s", domain.ErrCoordNotFound, name, variable)
			}
			c, err := readCoord(cv)
			if err != nil {
				return nil, fmt.Errorf("failed to read coordinate %s: %w", name, err)
			}
			coords[name] = c
		}
	}

	f, err := domain.NewField(variable, values, dims, shape, coords)
	if err != nil {
		return nil, err
	}
	for _, name := range textAttrs {
		if val, ok := attrString(v, name); ok {
			f.Attrs[name] = val
		}
	}
	return f, nil
}

func readCoord(v netcdf.Var) (domain.Coord, error) {
	dims, shape, err := varLayout(v)
	if err != nil {
		return domain.Coord{}, err
	}
	values, err := readValues(v, domain.Product(shape))
	if err != nil {
		return domain.Coord{}, err
	}
	return domain.Coord{Dims: dims, Shape: shape, Values: values}, nil
}

// Write stores f as a DOUBLE variable with NaN as fill value, together with
// its coordinates. Existing files are replaced.
func (s *Store) Write(path string, f *domain.Field) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	//nolint:gosec // G301: output directories are shared with the data directory.
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ds, err := netcdf.CreateFile(full, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	ncDims := make(map[string]netcdf.Dim, len(f.Dims))
	for i, name := range f.Dims {
		d, err := ds.AddDim(name, uint64(f.Shape[i]))
		if err != nil {
			return fmt.Errorf("failed to add dim %s: %w", name, err)
		}
		ncDims[name] = d
	}
	dimsOf := func(names []string) []netcdf.Dim {
		out := make([]netcdf.Dim, len(names))
		for i, n := range names {
			out[i] = ncDims[n]
		}
		return out
	}

	names := maps.Keys(f.Coords)
	slices.Sort(names)

	coordVars := make([]netcdf.Var, len(names))
	var aux []string
	for i, name := range names {
		c := f.Coords[name]
		cv, err := ds.AddVar(name, netcdf.DOUBLE, dimsOf(c.Dims))
		if err != nil {
			return fmt.Errorf("failed to add coordinate %s: %w", name, err)
		}
		coordVars[i] = cv
		if len(c.Dims) != 1 || c.Dims[0] != name {
			aux = append(aux, name)
		}
	}

	dataVar, err := ds.AddVar(f.Name, netcdf.DOUBLE, dimsOf(f.Dims))
	if err != nil {
		return fmt.Errorf("failed to add variable %s: %w", f.Name, err)
	}
	if err := dataVar.Attr("_FillValue").WriteFloat64s([]float64{math.NaN()}); err != nil {
		return fmt.Errorf("failed to write _FillValue: %w", err)
	}
	if len(aux) > 0 {
		if err := dataVar.Attr("coordinates").WriteBytes([]byte(strings.Join(aux, " "))); err != nil {
			return fmt.Errorf("failed to write coordinates attribute: %w", err)
		}
	}
	for _, name := range textAttrs {
		if val, ok := f.Attrs[name]; ok && val != "" {
			if err := dataVar.Attr(name).WriteBytes([]byte(val)); err != nil {
				return fmt.Errorf("failed to write %s attribute: %w", name, err)
			}
		}
	}

	if err := ds.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	for i, name := range names {
		if err := coordVars[i].WriteFloat64s(f.Coords[name].Values); err != nil {
			return fmt.Errorf("failed to write coordinate %s: %w", name, err)
		}
	}
	if err := dataVar.WriteFloat64s(f.Values); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return nil
}

// Version returns a token built from the file size and modification time.
func (s *Store) Version(path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	return store.FileVersion(full)
}
