package qset

import "testing"

func TestGroupingByMagnitude(t *testing.T) {
	qs := [][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{2, 0, 0},
	}
	s := NewSet(qs, 1e-9)
	if s.N() != 4 {
		t.Fatalf("N() = %d, want 4", s.N())
	}
	if s.NClasses() != 2 {
		t.Fatalf("NClasses() = %d, want 2 (three |q|=1 vectors, one |q|=2)", s.NClasses())
	}
	c0 := s.Class(0)
	if s.Class(1) != c0 || s.Class(2) != c0 {
		t.Fatalf("the three unit vectors should share a class")
	}
	if s.Class(3) == c0 {
		t.Fatalf("the |q|=2 vector should be in a different class")
	}
	if len(s.Members(c0)) != 3 {
		t.Fatalf("Members(c0) = %v, want 3 entries", s.Members(c0))
	}
}

func TestHistogramPopulatesWithoutPanic(t *testing.T) {
	qs := [][3]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}
	s := NewSet(qs, 1e-9)
	h := s.Histogram()
	if h.Sum() != 3 {
		t.Fatalf("histogram sum = %v, want 3", h.Sum())
	}
}
