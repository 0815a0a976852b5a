package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/regrid/internal/adapter/cache"
	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/domain"
	"go.ngs.io/regrid/internal/metrics"
	"go.ngs.io/regrid/internal/usecase"
)

// Handler handles HTTP requests for remapping.
type Handler struct {
	remapUC *usecase.RemapUseCase
	results *cache.ResultCache
}

// NewHandler creates a new HTTP handler. results may be nil.
func NewHandler(remapUC *usecase.RemapUseCase, results *cache.ResultCache) *Handler {
	return &Handler{
		remapUC: remapUC,
		results: results,
	}
}

// FieldRefBody names a variable in the data directory.
type FieldRefBody struct {
	Path     string `json:"path"`
	Variable string `json:"variable"`
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	T        string `json:"t,omitempty"`
}

// RemapBody is the JSON body of POST /v1/remap.
type RemapBody struct {
	Source             FieldRefBody `json:"source"`
	Target             FieldRefBody `json:"target"`
	Method             string       `json:"method"`
	K                  int          `json:"k"`
	Eps                float64      `json:"eps"`
	P                  float64      `json:"p"`
	DistanceUpperBound *float64     `json:"distance_upper_bound"`
	Output             string       `json:"output,omitempty"`
}

func (b RemapBody) request() usecase.RemapRequest {
	q := spatial.QueryOptions{K: b.K, Eps: b.Eps, P: b.P}
	if b.DistanceUpperBound != nil {
		q.DistanceUpperBound = *b.DistanceUpperBound
	}
	return usecase.RemapRequest{
		Source: usecase.FieldRef(b.Source),
		Target: usecase.FieldRef(b.Target),
		Method: b.Method,
		Query:  q,
		Output: b.Output,
	}
}

// Floats encodes NaN as null.
type Floats []float64

// MarshalJSON implements json.Marshaler.
func (f Floats) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

// CoordResponse is a coordinate in a field response.
type CoordResponse struct {
	Dims   []string `json:"dims"`
	Values Floats   `json:"values"`
}

// FieldResponse is the JSON form of a remapped field.
type FieldResponse struct {
	Name   string                   `json:"name"`
	Dims   []string                 `json:"dims"`
	Shape  []int                    `json:"shape"`
	Coords map[string]CoordResponse `json:"coords"`
	Values Floats                   `json:"values"`
	Attrs  map[string]string        `json:"attrs,omitempty"`
	Meta   map[string]any           `json:"meta"`
}

func newFieldResponse(resp *usecase.RemapResponse) FieldResponse {
	f := resp.Field
	coords := make(map[string]CoordResponse, len(f.Coords))
	for name, c := range f.Coords {
		coords[name] = CoordResponse{Dims: c.Dims, Values: c.Values}
	}
	meta := map[string]any{
		"method":       resp.Method,
		"index_cached": resp.IndexCached,
		"elapsed_ms":   resp.Elapsed.Milliseconds(),
	}
	if resp.OutputPath != "" {
		meta["output"] = resp.OutputPath
	}
	return FieldResponse{
		Name:   f.Name,
		Dims:   f.Dims,
		Shape:  f.Shape,
		Coords: coords,
		Values: f.Values,
		Attrs:  f.Attrs,
		Meta:   meta,
	}
}

// PostRemap handles POST /v1/remap.
func (h *Handler) PostRemap(c *gin.Context) {
	var body RemapBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	req := body.request()

	// Requests that write files are never served from cache.
	var key string
	if h.results != nil && req.Output == "" {
		if k, err := h.remapUC.CacheKey(req); err == nil {
			key = k
			if payload, ok := h.results.Get(c.Request.Context(), key); ok {
				metrics.ResultCacheHitsTotal.Inc()
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
				return
			}
			metrics.ResultCacheMissesTotal.Inc()
		}
	}

	resp, err := h.remapUC.Execute(req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(newFieldResponse(resp))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to encode response: %v", err)})
		return
	}
	if key != "" {
		h.results.Set(c.Request.Context(), key, payload)
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// ListMethods handles GET /v1/methods.
func (h *Handler) ListMethods(c *gin.Context) {
	methods := h.remapUC.Methods()
	c.JSON(http.StatusOK, gin.H{
		"methods": methods,
		"count":   len(methods),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFieldNotFound), errors.Is(err, domain.ErrCoordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrUnsupportedMethod),
		errors.Is(err, domain.ErrUnsupportedLayout),
		errors.Is(err, domain.ErrInvalidGridShape),
		errors.Is(err, domain.ErrInvalidField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
