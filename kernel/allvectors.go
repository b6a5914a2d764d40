package kernel

import (
	"math"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/cache"
)

// AllAtomKernel implements the all-atom discrete-vector kernel (§4.4a):
// A_frame = sum_j f_j * exp(i q.r_j). Orientational averaging over a
// class of q-vectors sharing |q| happens one level up, in the
// orchestrator (classes built by qset), by repeating this kernel for
// each vector of the class and averaging |A|^2 across the class.
type AllAtomKernel struct{}

func (AllAtomKernel) Family() Family { return AllVectors }
func (AllAtomKernel) Columns() int   { return 1 }

func (AllAtomKernel) Compute(cs *cache.CoordinateSet, q [3]float64, factors []float64) ([]complex128, error) {
	if cs.Cart == nil {
		return nil, goscatter.NewError(goscatter.ConfigInvalid, "all-atom kernel requires Cartesian coordinates")
	}
	n := cs.Cart.NVecs()
	var acc complex128
	for j := 0; j < n; j++ {
		r := cs.Cart.Vec(j)
		phase := dotQ(q, r)
		acc += complex(factors[j], 0) * complex(math.Cos(phase), math.Sin(phase))
	}
	return []complex128{acc}, nil
}
