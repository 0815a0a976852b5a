package spatial

import (
	"container/heap"
)

// Neighbor is one source point found for a query point.
type Neighbor struct {
	Distance float64
	Index    int // Flat source index; Index.Len() when no neighbour was found.
}

// worse orders neighbours by distance, then by index, so ties resolve to the
// lower source index.
func worse(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Index > b.Index
}

// candidateHeap is a max-heap with the worst kept neighbour at the top.
type candidateHeap []Neighbor

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) {
	*h = append(*h, x.(Neighbor))
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// keeper retains the k best neighbours seen so far.
type keeper struct {
	h candidateHeap
	k int
}

func newKeeper(k int) *keeper {
	return &keeper{h: make(candidateHeap, 0, k), k: k}
}

func (kp *keeper) reset() {
	kp.h = kp.h[:0]
}

func (kp *keeper) full() bool {
	return len(kp.h) >= kp.k
}

// worst returns the kept neighbour with the largest distance.
// Must only be called on a non-empty keeper.
func (kp *keeper) worst() Neighbor {
	return kp.h[0]
}

// offer keeps c if there is room or if it beats the current worst.
func (kp *keeper) offer(c Neighbor) {
	if !kp.full() {
		heap.Push(&kp.h, c)
		return
	}
	if worse(kp.worst(), c) {
		kp.h[0] = c
		heap.Fix(&kp.h, 0)
	}
}
