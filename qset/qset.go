// Package qset groups the scattering vectors of a run into orientation
// classes: all vectors sharing the same |q| belong to one class, which
// matters only for the discrete-vector averaging kernels (the multipole
// kernels need no grouping, since the expansion already integrates over
// orientation).
package qset

import (
	"sort"

	"github.com/rmera/goscatter/histo"
	"gonum.org/v1/gonum/floats"
)

// Vector is one scattering vector together with its magnitude, cached
// so repeated |q| comparisons don't recompute a square root.
type Vector struct {
	Q   [3]float64
	Len float64
}

func magnitude(q [3]float64) float64 {
	return floats.Norm(q[:], 2)
}

// NewVector builds a Vector, computing its magnitude.
func NewVector(q [3]float64) Vector {
	return Vector{Q: q, Len: magnitude(q)}
}

// Set groups a collection of q-vectors into orientation classes. Taken
// in ascending |q| order, each vector joins the first class whose
// representative |q| (the smallest magnitude in that class) is within
// tol (absolute) of its own, or starts a new class.
type Set struct {
	vectors []Vector
	classOf []int     // per-vector class index, parallel to vectors
	classQ  []float64 // representative |q| per class, ascending
	tol     float64
}

// NewSet builds a Set from qs, grouping by magnitude within tol.
func NewSet(qs [][3]float64, tol float64) *Set {
	s := &Set{tol: tol}
	s.vectors = make([]Vector, len(qs))
	for i, q := range qs {
		s.vectors[i] = NewVector(q)
	}
	// Stable order by magnitude makes class assignment deterministic
	// and gives ascending-by-rank q-dispatch order, per §5's "ascending
	// by the planner" requirement one level up in the orchestrator.
	order := make([]int, len(s.vectors))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return s.vectors[order[a]].Len < s.vectors[order[b]].Len })

	s.classOf = make([]int, len(s.vectors))
	for _, i := range order {
		v := s.vectors[i]
		cls := -1
		for c, rep := range s.classQ {
			if absf(rep-v.Len) <= s.tol {
				cls = c
				break
			}
		}
		if cls < 0 {
			cls = len(s.classQ)
			s.classQ = append(s.classQ, v.Len)
		}
		s.classOf[i] = cls
	}
	return s
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// N returns the number of q-vectors in the set.
func (s *Set) N() int { return len(s.vectors) }

// NClasses returns the number of distinct orientation classes.
func (s *Set) NClasses() int { return len(s.classQ) }

// Vector returns the ith q-vector.
func (s *Set) Vector(i int) Vector { return s.vectors[i] }

// Class returns the orientation class index of the ith q-vector.
func (s *Set) Class(i int) int { return s.classOf[i] }

// Magnitude returns the representative |q| of the given class.
func (s *Set) Magnitude(class int) float64 { return s.classQ[class] }

// Members returns the indices of every vector in the given class.
func (s *Set) Members(class int) []int {
	var out []int
	for i, c := range s.classOf {
		if c == class {
			out = append(out, i)
		}
	}
	return out
}

// Histogram produces a diagnostic population-per-class histogram: one
// bucket per class, bucketed over |q|, useful for logging how evenly
// the q-set spreads across orientation classes.
func (s *Set) Histogram() *histo.Data {
	if len(s.classQ) == 0 {
		return histo.NewData([]float64{0, 1}, nil)
	}
	dividers := make([]float64, 0, len(s.classQ)+1)
	lo := s.classQ[0] - s.tol
	dividers = append(dividers, lo)
	for _, q := range s.classQ {
		dividers = append(dividers, q+s.tol)
	}
	h := histo.NewData(dividers, nil)
	for _, v := range s.vectors {
		h.AddData(v.Len)
	}
	return h
}
