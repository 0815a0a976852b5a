package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.ngs.io/regrid/internal/adapter/cache"
	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/adapter/sphere"
	"go.ngs.io/regrid/internal/adapter/store"
	"go.ngs.io/regrid/internal/domain"
	"go.ngs.io/regrid/internal/logger"
	"go.ngs.io/regrid/internal/metrics"
	"go.ngs.io/regrid/internal/regrid"
)

// FieldRef names a variable in a data file and the coordinates locating it.
type FieldRef struct {
	Path     string
	Variable string
	X        string // Defaults to lon.
	Y        string // Defaults to lat.
	T        string // Leading time dimension; sources only.
}

// RemapRequest encapsulates a remap of one source variable onto the grid of
// a target variable.
type RemapRequest struct {
	Source FieldRef
	Target FieldRef

	Method string // Defaults to nearest.
	Query  spatial.QueryOptions

	// Output, when set, is the path the remapped field is written to.
	Output string
}

// RemapResponse contains the remapped field.
type RemapResponse struct {
	Field       *domain.Field
	Method      string
	OutputPath  string
	IndexCached bool
	Elapsed     time.Duration
}

// RemapUseCase orchestrates load, index lookup, remap and optional write.
type RemapUseCase struct {
	loader  store.FieldLoader
	writer  store.FieldWriter
	indexes *cache.IndexCache
	radius  float64
	log     *slog.Logger
}

// NewRemapUseCase creates a new remap use case. writer may be nil when
// output files are not supported; indexes may be nil to disable caching.
func NewRemapUseCase(loader store.FieldLoader, writer store.FieldWriter, indexes *cache.IndexCache, radius float64) *RemapUseCase {
	if radius == 0 {
		radius = sphere.DefaultRadius
	}
	return &RemapUseCase{
		loader:  loader,
		writer:  writer,
		indexes: indexes,
		radius:  radius,
		log:     logger.L(),
	}
}

// withDefaults fills omitted coordinate names and method.
func (r RemapRequest) withDefaults() RemapRequest {
	if r.Source.X == "" {
		r.Source.X = regrid.DefaultXCoord
	}
	if r.Source.Y == "" {
		r.Source.Y = regrid.DefaultYCoord
	}
	if r.Target.X == "" {
		r.Target.X = r.Source.X
	}
	if r.Target.Y == "" {
		r.Target.Y = r.Source.Y
	}
	if r.Method == "" {
		r.Method = regrid.MethodNearest
	}
	return r
}

// Validate checks if the request is valid.
func (r RemapRequest) Validate() error {
	switch {
	case r.Source.Path == "" || r.Source.Variable == "":
		return fmt.Errorf("%w: source path and variable are required", domain.ErrInvalidParameter)
	case r.Target.Path == "" || r.Target.Variable == "":
		return fmt.Errorf("%w: target path and variable are required", domain.ErrInvalidParameter)
	case r.Target.T != "":
		return fmt.Errorf("%w: the target grid has no time coordinate", domain.ErrInvalidParameter)
	}
	return r.Query.Validate()
}

// Execute performs the remap.
func (uc *RemapUseCase) Execute(req RemapRequest) (*RemapResponse, error) {
	start := time.Now()
	req = req.withDefaults()

	resp, err := uc.execute(req)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RemapsTotal.WithLabelValues(req.Method, outcome).Inc()
	if err != nil {
		return nil, err
	}

	resp.Elapsed = time.Since(start)
	metrics.RemapDurationMs.WithLabelValues(req.Method).Observe(float64(resp.Elapsed.Milliseconds()))
	uc.log.Info("remap_done",
		"source", req.Source.Path,
		"variable", req.Source.Variable,
		"target", req.Target.Path,
		"method", req.Method,
		"shape", resp.Field.Shape,
		"index_cached", resp.IndexCached,
		"duration_ms", resp.Elapsed.Milliseconds(),
	)
	return resp, nil
}

func (uc *RemapUseCase) execute(req RemapRequest) (*RemapResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	method, err := regrid.ParseMethod(req.Method, req.Query)
	if err != nil {
		return nil, err
	}

	src, err := uc.loader.Load(req.Source.Path, req.Source.Variable)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %s:%s: %w", req.Source.Path, req.Source.Variable, err)
	}
	target, err := uc.loader.Load(req.Target.Path, req.Target.Variable)
	if err != nil {
		return nil, fmt.Errorf("failed to load target %s:%s: %w", req.Target.Path, req.Target.Variable, err)
	}
	version, err := uc.loader.Version(req.Source.Path)
	if err != nil {
		return nil, err
	}

	key := cache.IndexKey(req.Source.Path, req.Source.Variable, req.Source.X, req.Source.Y, uc.radius, version)
	opts := []regrid.Option{regrid.WithRadius(uc.radius), regrid.WithLogger(uc.log)}
	ix, cached := uc.indexes.Get(key)
	if cached {
		metrics.IndexCacheHitsTotal.Inc()
		opts = append(opts, regrid.WithIndex(ix))
	}

	m, err := regrid.New(src, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.SetCoords(req.Source.X, req.Source.Y, req.Source.T); err != nil {
		return nil, err
	}
	out, err := m.Remap(target, req.Target.X, req.Target.Y, method)
	if err != nil {
		return nil, err
	}
	if !cached {
		if ix, err := m.Index(); err == nil {
			metrics.IndexBuildsTotal.Inc()
			uc.indexes.Add(key, ix)
		}
	}

	resp := &RemapResponse{
		Field:       out,
		Method:      method.Name(),
		IndexCached: cached,
	}
	if req.Output != "" {
		if uc.writer == nil {
			return nil, fmt.Errorf("%w: writing output files", domain.ErrNotImplemented)
		}
		if err := uc.writer.Write(req.Output, out); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", req.Output, err)
		}
		resp.OutputPath = req.Output
	}
	return resp, nil
}

// Methods lists the available strategies.
func (uc *RemapUseCase) Methods() []regrid.MethodInfo {
	return regrid.Methods()
}

// CacheKey derives a result cache key for req. It changes when either input
// file changes.
func (uc *RemapUseCase) CacheKey(req RemapRequest) (string, error) {
	req = req.withDefaults()
	srcVersion, err := uc.loader.Version(req.Source.Path)
	if err != nil {
		return "", err
	}
	targetVersion, err := uc.loader.Version(req.Target.Path)
	if err != nil {
		return "", err
	}

	q := req.Query.WithDefaults()
	parts := []string{
		req.Source.Path, req.Source.Variable, req.Source.X, req.Source.Y, req.Source.T, srcVersion,
		req.Target.Path, req.Target.Variable, req.Target.X, req.Target.Y, targetVersion,
		req.Method,
		strconv.Itoa(q.K),
		strconv.FormatFloat(q.Eps, 'g', -1, 64),
		strconv.FormatFloat(q.P, 'g', -1, 64),
		strconv.FormatFloat(q.DistanceUpperBound, 'g', -1, 64),
		strconv.FormatFloat(uc.radius, 'g', -1, 64),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:]), nil
}
