package spatial

import (
	"fmt"
	"math"

	"go.ngs.io/regrid/internal/domain"
)

// QueryOptions controls a k-nearest query.
// Zero values of K, P and DistanceUpperBound select the defaults.
type QueryOptions struct {
	K                  int     // Neighbours per query point.
	Eps                float64 // Approximation factor; 0 means exact.
	P                  float64 // Minkowski norm: 1, 2, ..., +Inf.
	DistanceUpperBound float64 // Neighbours must be strictly closer than this.
}

// DefaultQueryOptions returns {K: 1, Eps: 0, P: 2, DistanceUpperBound: +Inf}.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		K:                  1,
		Eps:                0,
		P:                  2,
		DistanceUpperBound: math.Inf(1),
	}
}

// WithDefaults fills unset fields.
func (o QueryOptions) WithDefaults() QueryOptions {
	if o.K == 0 {
		o.K = 1
	}
	if o.P == 0 {
		o.P = 2
	}
	if o.DistanceUpperBound == 0 {
		o.DistanceUpperBound = math.Inf(1)
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o QueryOptions) Validate() error {
	o = o.WithDefaults()
	switch {
	case o.K < 1:
		return fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidParameter, o.K)
	case math.IsNaN(o.Eps) || o.Eps < 0:
		return fmt.Errorf("%w: eps must be non-negative, got %v", domain.ErrInvalidParameter, o.Eps)
	case math.IsNaN(o.P) || o.P < 1:
		return fmt.Errorf("%w: p must be >= 1, got %v", domain.ErrInvalidParameter, o.P)
	case math.IsNaN(o.DistanceUpperBound) || o.DistanceUpperBound < 0:
		return fmt.Errorf("%w: distance_upper_bound must be positive, got %v", domain.ErrInvalidParameter, o.DistanceUpperBound)
	}
	return nil
}
