package kernel

import (
	"math"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/cache"
	v3 "github.com/rmera/goscatter/v3"
)

// CylinderKernel implements the multipole-cylindrical kernel (§4.4d) to
// resolution L, expanding q into components parallel/perpendicular to
// axis o.
type CylinderKernel struct {
	L    int
	Axis v3.Axis
}

func (CylinderKernel) Family() Family { return MultipoleCylinder }
func (k CylinderKernel) Columns() int { return MultipoleCylinderColumns(k.L) }

// CylinderIndex returns the column index of coefficient kind ('A','B',
// 'C','D') at degree l (l==0 only valid for 'A', the A_0 term).
func CylinderIndex(kind byte, l int) int {
	if l == 0 {
		return 0
	}
	base := 1 + 4*(l-1)
	switch kind {
	case 'A':
		return base
	case 'B':
		return base + 1
	case 'C':
		return base + 2
	default:
		return base + 3
	}
}

func (k CylinderKernel) Compute(cs *cache.CoordinateSet, q [3]float64, factors []float64) ([]complex128, error) {
	if cs.Cylinder == nil {
		return nil, goscatter.NewError(goscatter.ConfigInvalid, "cylindrical multipole kernel requires cylindrical coordinates")
	}
	axis := normalizeAxis(k.Axis)
	qpar := q[0]*axis.X + q[1]*axis.Y + q[2]*axis.Z
	qperpVec := [3]float64{q[0] - qpar*axis.X, q[1] - qpar*axis.Y, q[2] - qpar*axis.Z}
	qperp := math.Sqrt(qperpVec[0]*qperpVec[0] + qperpVec[1]*qperpVec[1] + qperpVec[2]*qperpVec[2])

	row := make([]complex128, k.Columns())
	sqrtHalf := math.Sqrt(0.5)

	for j, cyl := range cs.Cylinder {
		f := factors[j]
		phase := cyl.Z * qpar // signed z*q_parallel: sign(z*q_parallel)*|z*q_parallel|
		eiphase := complex(math.Cos(phase), math.Sin(phase))
		rq := cyl.R * qperp

		row[CylinderIndex('A', 0)] += complex(f, 0) * eiphase * complex(cylindricalBesselJ(0, rq), 0)

		for l := 1; l <= k.L; l++ {
			signL := 1.0
			if l%2 == 1 {
				signL = -1
			}
			jEven := cylindricalBesselJ(2*l, rq)
			jOdd := cylindricalBesselJ(2*l-1, rq)

			cosEven := math.Cos(2 * float64(l) * cyl.Phi)
			sinEven := math.Sin(2 * float64(l) * cyl.Phi)
			cosOdd := math.Cos(float64(2*l-1) * cyl.Phi)
			sinOdd := math.Sin(float64(2*l-1) * cyl.Phi)

			aTerm := complex(2*signL*jEven*f, 0) * eiphase * complex(cosEven, 0)
			bTerm := complex(2*signL*jEven*f, 0) * eiphase * complex(sinEven, 0)

			signLm1 := 1.0
			if (l-1)%2 == 1 {
				signLm1 = -1
			}
			cTerm := complex(0, 2*signLm1*jOdd*f) * eiphase * complex(cosOdd, 0)
			dTerm := complex(0, 2*signLm1*jOdd*f) * eiphase * complex(sinOdd, 0)

			row[CylinderIndex('A', l)] += complex(sqrtHalf, 0) * aTerm
			row[CylinderIndex('B', l)] += complex(sqrtHalf, 0) * bTerm
			row[CylinderIndex('C', l)] += complex(sqrtHalf, 0) * cTerm
			row[CylinderIndex('D', l)] += complex(sqrtHalf, 0) * dTerm
		}
	}
	return row, nil
}

func normalizeAxis(a v3.Axis) v3.Axis {
	n := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	if n == 0 {
		return v3.DefaultAxis
	}
	return v3.Axis{X: a.X / n, Y: a.Y / n, Z: a.Z / n}
}
