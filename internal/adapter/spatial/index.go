// Package spatial provides a static k-nearest-neighbour index over Cartesian
// points, built on a gonum kd-tree.
package spatial

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/kdtree"

	"go.ngs.io/regrid/internal/adapter/sphere"
	"go.ngs.io/regrid/internal/domain"
)

// entry is an indexed point carrying its flat source position.
type entry struct {
	sphere.Point
	index int
}

func coord(p sphere.Point, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	default:
		panic("illegal dimension")
	}
}

// Compare implements kdtree.Comparable.
func (e entry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return coord(e.Point, d) - coord(c.(entry).Point, d)
}

// Dims implements kdtree.Comparable.
func (e entry) Dims() int { return 3 }

// Distance implements kdtree.Comparable with the squared Euclidean distance.
func (e entry) Distance(c kdtree.Comparable) float64 {
	q := c.(entry)
	dx := e.X - q.X
	dy := e.Y - q.Y
	dz := e.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// entries satisfies kdtree.Interface.
type entries []entry

func (p entries) Index(i int) kdtree.Comparable         { return p[i] }
func (p entries) Len() int                              { return len(p) }
func (p entries) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements kdtree.Interface.
func (p entries) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{entries: p, Dim: d}, kdtree.MedianOfMedians(plane{entries: p, Dim: d}))
}

// plane sorts entries along one axis for kdtree.Partition.
type plane struct {
	entries
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return coord(p.entries[i].Point, p.Dim) < coord(p.entries[j].Point, p.Dim)
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{entries: p.entries[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
}

// Index is an immutable nearest-neighbour index. It is safe for concurrent
// queries.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// Build indexes a copy of points. Point i keeps flat index i.
func Build(points []sphere.Point) (*Index, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: cannot index an empty point set", domain.ErrInvalidGridShape)
	}

	data := make(entries, len(points))
	for i, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("%w: non-finite coordinate at flat index %d", domain.ErrInvalidGridShape, i)
		}
		data[i] = entry{Point: p, index: i}
	}

	return &Index{
		tree: kdtree.New(data, false),
		n:    len(points),
	}, nil
}

// Len returns the number of indexed points. It is also the index reported
// for neighbours that were not found.
func (ix *Index) Len() int {
	return ix.n
}

// Result holds K neighbours per query point, nearest first.
type Result struct {
	K         int
	Neighbors []Neighbor
}

// Len returns the number of query points.
func (r Result) Len() int {
	if r.K == 0 {
		return 0
	}
	return len(r.Neighbors) / r.K
}

// Row returns the neighbours of query point i.
func (r Result) Row(i int) []Neighbor {
	return r.Neighbors[i*r.K : (i+1)*r.K]
}

// Query finds the K nearest indexed points for every target. Rows are sorted
// by distance with ties broken by ascending source index. Slots that cannot be
// filled within DistanceUpperBound hold {+Inf, ix.Len()}.
func (ix *Index) Query(targets []sphere.Point, opts QueryOptions) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.WithDefaults()

	res := Result{
		K:         opts.K,
		Neighbors: make([]Neighbor, len(targets)*opts.K),
	}
	s := &search{
		dist:  metric(opts.P),
		slack: 1 + opts.Eps,
		bound: opts.DistanceUpperBound,
		kept:  newKeeper(opts.K),
	}

	for i, q := range targets {
		s.kept.reset()
		s.visit(ix.tree.Root, q)

		row := res.Row(i)
		n := copy(row, s.kept.h)
		slices.SortFunc(row[:n], compareNeighbors)
		for j := n; j < len(row); j++ {
			row[j] = Neighbor{Distance: math.Inf(1), Index: ix.n}
		}
	}

	return res, nil
}

// search is the per-query state of a branch-and-bound walk over the tree.
type search struct {
	dist  func(a, b sphere.Point) float64
	slack float64
	bound float64
	kept  *keeper
}

func (s *search) visit(n *kdtree.Node, q sphere.Point) {
	if n == nil {
		return
	}
	e := n.Point.(entry)
	if d := s.dist(q, e.Point); d < s.bound {
		s.kept.offer(Neighbor{Distance: d, Index: e.index})
	}

	gap := coord(q, n.Plane) - coord(e.Point, n.Plane)
	near, far := n.Left, n.Right
	if gap > 0 {
		near, far = far, near
	}
	s.visit(near, q)
	if s.reachable(math.Abs(gap)) {
		s.visit(far, q)
	}
}

// reachable reports whether points at least gap away along one axis can
// still improve the result. Any Minkowski distance is bounded below by the
// gap along a single axis.
func (s *search) reachable(gap float64) bool {
	if gap >= s.bound {
		return false
	}
	if !s.kept.full() {
		return true
	}
	return gap*s.slack <= s.kept.worst().Distance
}

func compareNeighbors(a, b Neighbor) int {
	switch {
	case worse(b, a):
		return -1
	case worse(a, b):
		return 1
	}
	return 0
}

// metric returns the Minkowski distance of order p.
func metric(p float64) func(a, b sphere.Point) float64 {
	switch {
	case p == 2:
		return func(a, b sphere.Point) float64 {
			dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
			return math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
	case p == 1:
		return func(a, b sphere.Point) float64 {
			return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) + math.Abs(a.Z-b.Z)
		}
	case math.IsInf(p, 1):
		return func(a, b sphere.Point) float64 {
			return math.Max(math.Abs(a.X-b.X), math.Max(math.Abs(a.Y-b.Y), math.Abs(a.Z-b.Z)))
		}
	default:
		return func(a, b sphere.Point) float64 {
			sum := math.Pow(math.Abs(a.X-b.X), p) + math.Pow(math.Abs(a.Y-b.Y), p) + math.Pow(math.Abs(a.Z-b.Z), p)
			return math.Pow(sum, 1/p)
		}
	}
}

func finite(p sphere.Point) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
