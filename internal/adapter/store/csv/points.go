// Package csv reads and writes point lists as unstructured fields.
//
// The first row names the columns. Each numeric column becomes a coordinate
// over the "point" dimension, so a file with lon and lat columns can serve
// as a remap target. Empty cells read as NaN.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go.ngs.io/regrid/internal/adapter/store"
	"go.ngs.io/regrid/internal/domain"
)

// PointDim is the dimension shared by all columns.
const PointDim = "point"

// Store reads point files relative to a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a CSV point store. An empty dataDir accepts any path.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
	}
}

// Load reads column variable as a 1-D field over PointDim.
func (s *Store) Load(path, variable string) (*domain.Field, error) {
	full, err := store.Resolve(s.dataDir, path)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: path is resolved inside dataDir.
	file, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s", domain.ErrFieldNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if !slices.Contains(header, variable) {
		return nil, fmt.Errorf("%w: column %q in %s", domain.ErrFieldNotFound, variable, path)
	}

	// Read data rows; columns with any non-numeric cell are dropped.
	columns := make([][]float64, len(header))
	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = true
	}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d columns, header has %d",
				domain.ErrInvalidField, row, len(record), len(header))
		}
		for i, cell := range record {
			if !numeric[i] {
				continue
			}
			v, ok := parseCell(cell)
			if !ok {
				if header[i] == variable {
					return nil, fmt.Errorf("%w: row %d: %q is not a number in column %s",
						domain.ErrInvalidField, row, cell, variable)
				}
				numeric[i] = false
				columns[i] = nil
				continue
			}
			columns[i] = append(columns[i], v)
		}
	}

	n := 0
	coords := make(map[string]domain.Coord)
	var values []float64
	for i, name := range header {
		if !numeric[i] {
			continue
		}
		col := columns[i]
		if col == nil {
			col = []float64{}
		}
		n = len(col)
		coords[name] = domain.Axis(PointDim, col)
		if name == variable {
			values = slices.Clone(col)
		}
	}
	if values == nil {
		values = []float64{}
	}

	return domain.NewField(variable, values, []string{PointDim}, []int{n}, coords)
}

// Write stores a 1-D field as columns: its 1-D coordinates in name order,
// then the values. NaN is written as an empty cell.
func (s *Store) Write(path string, f *domain.Field) error {
	if len(f.Dims) != 1 {
		return fmt.Errorf("%w: CSV output needs a 1-D field, %s has dims %v",
			domain.ErrUnsupportedLayout, f.Name, f.Dims)
	}
	full, err := store.Resolve(s.dataDir, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := maps.Keys(f.Coords)
	slices.Sort(names)
	cols := make([]string, 0, len(names)+1)
	for _, name := range names {
		c := f.Coords[name]
		if name == f.Name || len(c.Dims) != 1 || c.Dims[0] != f.Dims[0] {
			continue
		}
		cols = append(cols, name)
	}

	//nolint:gosec // G304: path is resolved inside dataDir.
	file, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	if err := w.Write(append(slices.Clone(cols), f.Name)); err != nil {
		return err
	}
	record := make([]string, len(cols)+1)
	for i := 0; i < f.Shape[0]; i++ {
		for j, name := range cols {
			record[j] = formatCell(f.Coords[name].Values[i])
		}
		record[len(cols)] = formatCell(f.Values[i])
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// Version implements store.FieldLoader.
func (s *Store) Version(path string) (string, error) {
	full, err := store.Resolve(s.dataDir, path)
	if err != nil {
		return "", err
	}
	return store.FileVersion(full)
}

func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
