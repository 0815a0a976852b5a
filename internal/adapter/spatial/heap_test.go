package spatial

import "testing"

func TestKeeper_RetainsBest(t *testing.T) {
	kp := newKeeper(3)
	for i, d := range []float64{5, 1, 4, 2, 3, 0.5} {
		kp.offer(Neighbor{Distance: d, Index: i})
	}
	if !kp.full() {
		t.Fatal("keeper should be full")
	}
	if w := kp.worst(); w.Distance != 2 {
		t.Errorf("worst = %+v, want distance 2", w)
	}

	kp.reset()
	if kp.full() {
		t.Error("keeper should be empty after reset")
	}
}

func TestKeeper_TieKeepsLowerIndex(t *testing.T) {
	kp := newKeeper(1)
	kp.offer(Neighbor{Distance: 1, Index: 7})
	kp.offer(Neighbor{Distance: 1, Index: 2})
	kp.offer(Neighbor{Distance: 1, Index: 9})
	if w := kp.worst(); w.Index != 2 {
		t.Errorf("kept index %d, want 2", w.Index)
	}
}
