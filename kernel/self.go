package kernel

import (
	"math"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/cache"
)

// SelfKernel implements the self discrete-vector kernel (§4.4b): per
// atom j, a_j[t] = exp(i q.r_j(t)) * f_j^2, no cross-terms. The kernel
// emits one column per selected atom (atom-major output) so the reducer
// can autocorrelate each atom's series independently via FFT, which is
// O(NASEL*NF) rather than the O(NF^2*NASEL) a naive per-lag sum over
// atom pairs would cost.
type SelfKernel struct{}

func (SelfKernel) Family() Family { return SelfVectors }

func (SelfKernel) Compute(cs *cache.CoordinateSet, q [3]float64, factors []float64) ([]complex128, error) {
	if cs.Cart == nil {
		return nil, goscatter.NewError(goscatter.ConfigInvalid, "self kernel requires Cartesian coordinates")
	}
	n := cs.Cart.NVecs()
	row := make([]complex128, n)
	for j := 0; j < n; j++ {
		r := cs.Cart.Vec(j)
		phase := dotQ(q, r)
		row[j] = complex(factors[j]*factors[j], 0) * complex(math.Cos(phase), math.Sin(phase))
	}
	return row, nil
}

// Columns for SelfKernel depends on the selection size, unlike the
// other three kernels, so it is set at construction instead of being a
// compile-time constant.
func (SelfKernel) Columns() int { return -1 }

// NASELKernel wraps SelfKernel with a fixed column count, since the
// Kernel interface's Columns() must be callable before any frame is
// staged (the orchestrator needs it to size the amplitude matrix).
type NASELKernel struct {
	SelfKernel
	N int
}

func (k NASELKernel) Columns() int { return k.N }
