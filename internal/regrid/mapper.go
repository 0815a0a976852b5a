// Package regrid maps labeled lon/lat fields onto other lon/lat grids using
// nearest-neighbour search on the sphere.
package regrid

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/adapter/sphere"
	"go.ngs.io/regrid/internal/domain"
	"go.ngs.io/regrid/internal/logger"
)

// Default coordinate names used until SetCoords is called.
const (
	DefaultXCoord = "lon"
	DefaultYCoord = "lat"
)

// Mapper wraps a source field and memoises its spatial index.
// The field is borrowed and must not be modified while the Mapper is in use.
type Mapper struct {
	field  *domain.Field
	radius float64
	log    *slog.Logger

	mu    sync.Mutex
	grid  Grid
	bound bool
	index *spatial.Index
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithRadius sets the sphere radius used for projection.
func WithRadius(r float64) Option {
	return func(m *Mapper) { m.radius = r }
}

// WithIndex supplies a prebuilt index over the source points, e.g. from a cache.
func WithIndex(ix *spatial.Index) Option {
	return func(m *Mapper) { m.index = ix }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) { m.log = l }
}

// New wraps field. Coordinates default to lon/lat with no time axis.
func New(field *domain.Field, opts ...Option) (*Mapper, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: nil field", domain.ErrInvalidField)
	}
	m := &Mapper{
		field:  field,
		radius: sphere.DefaultRadius,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.L()
	}
	if err := sphere.ValidateRadius(m.radius); err != nil {
		return nil, err
	}
	return m, nil
}

// SetCoords binds the x, y and optional t coordinate names. t must name the
// first dimension of the field. Changing x or y drops the memoised index.
func (m *Mapper) SetCoords(x, y, t string) error {
	g, err := describeSource(m.field, x, y, t)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bound && (m.grid.XCoord != x || m.grid.YCoord != y) {
		m.index = nil
	}
	m.grid = g
	m.bound = true
	return nil
}

// Grid returns the bound grid descriptor, applying the default coordinates
// if SetCoords was never called.
func (m *Mapper) Grid() (Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.bindDefaultsLocked(); err != nil {
		return Grid{}, err
	}
	return m.grid, nil
}

// Index returns the spatial index over the source points, building it on
// first use. Concurrent callers share a single build.
func (m *Mapper) Index() (*spatial.Index, error) {
	_, ix, err := m.prepare()
	return ix, err
}

func (m *Mapper) bindDefaultsLocked() error {
	if m.bound {
		return nil
	}
	g, err := describeSource(m.field, DefaultXCoord, DefaultYCoord, "")
	if err != nil {
		return err
	}
	m.grid = g
	m.bound = true
	return nil
}

func (m *Mapper) prepare() (Grid, *spatial.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.bindDefaultsLocked(); err != nil {
		return Grid{}, nil, err
	}
	if m.index != nil {
		if m.index.Len() != m.grid.Size() {
			return Grid{}, nil, fmt.Errorf("%w: index holds %d points, grid has %d",
				domain.ErrInvalidGridShape, m.index.Len(), m.grid.Size())
		}
		return m.grid, m.index, nil
	}

	start := time.Now()
	pts, err := points(m.field, m.grid, m.radius)
	if err != nil {
		return Grid{}, nil, err
	}
	ix, err := spatial.Build(pts)
	if err != nil {
		return Grid{}, nil, err
	}
	m.index = ix
	m.log.Debug("index_build_done",
		"field", m.field.Name,
		"points", ix.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return m.grid, ix, nil
}

// Remap regrids the source onto the spatial grid of target located by its
// xcoord and ycoord coordinates. The result keeps the source time axis.
func (m *Mapper) Remap(target *domain.Field, xcoord, ycoord string, method Method) (*domain.Field, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", domain.ErrInvalidField)
	}

	var opts spatial.QueryOptions
	switch mt := method.(type) {
	case Nearest:
		if err := mt.Validate(); err != nil {
			return nil, err
		}
		opts = mt.WithDefaults()
		if opts.K > 1 {
			return nil, fmt.Errorf("%w: nearest remapping uses exactly 1 neighbour, got k=%d",
				domain.ErrInvalidParameter, opts.K)
		}
	case DistanceWeighted:
		if err := mt.Validate(); err != nil {
			return nil, err
		}
		opts = mt.WithDefaults()
		if opts.K < 2 {
			return nil, fmt.Errorf("%w: distance weighted remapping needs at least 2 neighbours, got k=%d",
				domain.ErrInvalidParameter, opts.K)
		}
	case nil:
		return nil, fmt.Errorf("%w: no method", domain.ErrUnsupportedMethod)
	default:
		return nil, fmt.Errorf("%w: %s remapping", domain.ErrNotImplemented, method.Name())
	}

	src, ix, err := m.prepare()
	if err != nil {
		return nil, err
	}

	tg, err := Describe(target, xcoord, ycoord, "")
	if err != nil {
		return nil, err
	}
	tpts, err := points(target, tg, m.radius)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := ix.Query(tpts, opts)
	if err != nil {
		return nil, err
	}

	var values []float64
	if opts.K == 1 {
		values = gatherNearest(m.field.Values, src, res, tg.Size())
	} else {
		values = blendWeighted(m.field.Values, src, res, tg.Size())
	}

	out, err := assemble(m.field, src, target, tg, values)
	if err != nil {
		return nil, err
	}
	m.log.Debug("remap_done",
		"field", m.field.Name,
		"method", method.Name(),
		"k", opts.K,
		"targets", tg.Size(),
		"shape", out.Shape,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// RemapTo is reserved for remapping onto a bare grid description.
func (m *Mapper) RemapTo(target Grid, method Method) (*domain.Field, error) {
	return nil, fmt.Errorf("%w: remap to a grid description", domain.ErrNotImplemented)
}
