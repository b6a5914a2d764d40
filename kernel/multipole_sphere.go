package kernel

import (
	"math"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/cache"
)

// SphereKernel implements the multipole-spherical kernel (§4.4c) to
// resolution L: a_{l,m} = sum_j f_j * 4*pi * i^l * j_l(|q|r_j) *
// conj(Y_{l,m}(theta_j,phi_j)), each coefficient then normalized by
// sqrt(4*pi) so the generic static fold (sum |A[i,c]|^2 across columns)
// reproduces I = sum_{l,m} |a_{l,m}|^2 / (4*pi) without the reducer
// needing to know this kernel's own scaling convention.
type SphereKernel struct {
	L int
}

func (SphereKernel) Family() Family { return MultipoleSphere }
func (k SphereKernel) Columns() int { return MultipoleSphereColumns(k.L) }

// Index returns the column index of coefficient a_{l,m}, 0<=l<=L,
// -l<=m<=l, in ascending-l, ascending-m order.
func Index(l, m int) int {
	return l*l + (m + l)
}

func (k SphereKernel) Compute(cs *cache.CoordinateSet, q [3]float64, factors []float64) ([]complex128, error) {
	if cs.Sphere == nil {
		return nil, goscatter.NewError(goscatter.ConfigInvalid, "spherical multipole kernel requires spherical coordinates")
	}
	qlenv := qlen(q)
	row := make([]complex128, k.Columns())
	invSqrt4Pi := 1 / math.Sqrt(4*math.Pi)
	for l := 0; l <= k.L; l++ {
		il := cmplxPowI(l)
		for m := -l; m <= l; m++ {
			var acc complex128
			for j, s := range cs.Sphere {
				jl := sphericalBesselJ(l, qlenv*s.R)
				ystar := cmplxConj(sphericalHarmonicY(l, m, s.Theta, s.Phi))
				acc += complex(factors[j]*4*math.Pi*jl, 0) * il * ystar
			}
			row[Index(l, m)] = acc * complex(invSqrt4Pi, 0)
		}
	}
	return row, nil
}

// cmplxPowI returns i^l for integer l (any sign).
func cmplxPowI(l int) complex128 {
	r := ((l % 4) + 4) % 4
	switch r {
	case 0:
		return 1
	case 1:
		return 1i
	case 2:
		return -1
	default:
		return -1i
	}
}
