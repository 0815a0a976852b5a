package ncfile

import (
	"fmt"
	"math"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"
)

// varLayout returns the dimension names and extents of a variable.
func varLayout(v netcdf.Var) ([]string, []int, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	names := make([]string, len(dims))
	shape := make([]int, len(dims))
	for i, d := range dims {
		name, err := d.Name()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get dim%d name: %w", i, err)
		}
		n, err := d.Len()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get dim%d length: %w", i, err)
		}
		names[i] = name
		shape[i] = int(n)
	}
	return names, shape, nil
}

// readValues reads n values of any numeric variable as float64, maps fill
// values to NaN and applies scale_factor/add_offset packing.
func readValues(v netcdf.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	var flat []float64
	switch t {
	case netcdf.DOUBLE:
		flat = make([]float64, n)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, fmt.Errorf("failed to read float64: %w", err)
		}
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, fmt.Errorf("failed to read float32: %w", err)
		}
		flat = make([]float64, n)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, fmt.Errorf("failed to read int32: %w", err)
		}
		flat = make([]float64, n)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, fmt.Errorf("failed to read int16: %w", err)
		}
		flat = make([]float64, n)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.BYTE, netcdf.UBYTE, netcdf.CHAR, netcdf.USHORT, netcdf.UINT, netcdf.INT64, netcdf.UINT64, netcdf.STRING:
		return nil, fmt.Errorf("unsupported data type: %v (expected DOUBLE, FLOAT, INT, or SHORT)", t)
	default:
		return nil, fmt.Errorf("unsupported data type: %v", t)
	}

	// Fill values are compared against the packed representation.
	for _, name := range []string{"_FillValue", "missing_value"} {
		fv, ok := attrFloat(v, name)
		if !ok || math.IsNaN(fv) {
			continue
		}
		for i := range flat {
			if flat[i] == fv {
				flat[i] = math.NaN()
			}
		}
	}

	scale, hasScale := attrFloat(v, "scale_factor")
	offset, hasOffset := attrFloat(v, "add_offset")
	if hasScale || hasOffset {
		if !hasScale || scale == 0 {
			scale = 1
		}
		for i := range flat {
			flat[i] = flat[i]*scale + offset
		}
	}

	return flat, nil
}

// attrFloat reads a numeric scalar attribute.
func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}

	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	bufs := make([]int16, 1)
	if err := a.ReadInt16s(bufs); err == nil {
		return float64(bufs[0]), true
	}
	return 0, false
}

// attrString reads a text attribute.
func attrString(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return strings.TrimRight(string(buf), "\x00"), true
}
