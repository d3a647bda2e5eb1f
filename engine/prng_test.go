package engine

import "testing"

func TestPRNGDeterminism(t *testing.T) {
	a := NewPRNG(42)
	b := NewPRNG(42)
	for i := 0; i < 50; i++ {
		av, bv := a.Next(), b.Next()
		if av != bv {
			t.Fatalf("draw %d diverged: %v vs %v", i, av, bv)
		}
	}
}

func TestPRNGRangeBounds(t *testing.T) {
	r := NewPRNG(7)
	for i := 0; i < 200; i++ {
		v := r.Range(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("Range(3,5) produced out-of-range value %d", v)
		}
	}
}

func TestPRNGRangeDegenerate(t *testing.T) {
	r := NewPRNG(1)
	if v := r.Range(4, 4); v != 4 {
		t.Fatalf("Range(4,4) = %d, want 4", v)
	}
}
