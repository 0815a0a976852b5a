package regrid

import (
	"fmt"

	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/domain"
)

// Method names accepted by ParseMethod.
const (
	MethodNearest          = "nearest"
	MethodDistanceWeighted = "distance_weighted"
	MethodBilinear         = "bilinear"
	MethodBicubic          = "bicubic"
	MethodConservative     = "conservative"
	MethodLargestArea      = "largest_area"
)

// Method is a regridding strategy. The set of strategies is closed.
type Method interface {
	Name() string
	method()
}

// Nearest copies the value of the single nearest source point.
type Nearest struct {
	spatial.QueryOptions
}

// DistanceWeighted blends the K nearest source values with weights 1/d².
type DistanceWeighted struct {
	spatial.QueryOptions
}

// Bilinear is reserved.
type Bilinear struct{}

// Bicubic is reserved.
type Bicubic struct {
	K int
}

// Conservative is reserved.
type Conservative struct {
	Order int
}

// LargestArea is reserved.
type LargestArea struct{}

func (Nearest) Name() string          { return MethodNearest }
func (DistanceWeighted) Name() string { return MethodDistanceWeighted }
func (Bilinear) Name() string         { return MethodBilinear }
func (Bicubic) Name() string          { return MethodBicubic }
func (Conservative) Name() string     { return MethodConservative }
func (LargestArea) Name() string      { return MethodLargestArea }

func (Nearest) method()          {}
func (DistanceWeighted) method() {}
func (Bilinear) method()         {}
func (Bicubic) method()          {}
func (Conservative) method()     {}
func (LargestArea) method()      {}

const (
	defaultBicubicK          = 10
	defaultConservativeOrder = 1
)

// ParseMethod resolves a strategy by name. opts feeds the neighbour-based
// strategies and is ignored by the others, except that a K above 1 sets the
// bicubic neighbour count.
func ParseMethod(name string, opts spatial.QueryOptions) (Method, error) {
	switch name {
	case MethodNearest:
		return Nearest{opts}, nil
	case MethodDistanceWeighted:
		return DistanceWeighted{opts}, nil
	case MethodBilinear:
		return Bilinear{}, nil
	case MethodBicubic:
		k := defaultBicubicK
		if opts.K > 1 {
			k = opts.K
		}
		return Bicubic{K: k}, nil
	case MethodConservative:
		return Conservative{Order: defaultConservativeOrder}, nil
	case MethodLargestArea:
		return LargestArea{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMethod, name)
}

// MethodInfo describes a strategy for listings.
type MethodInfo struct {
	Name        string `json:"name"`
	Implemented bool   `json:"implemented"`
}

// Methods lists every strategy in a stable order.
func Methods() []MethodInfo {
	return []MethodInfo{
		{Name: MethodNearest, Implemented: true},
		{Name: MethodDistanceWeighted, Implemented: true},
		{Name: MethodBilinear},
		{Name: MethodBicubic},
		{Name: MethodConservative},
		{Name: MethodLargestArea},
	}
}
