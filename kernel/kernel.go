// Package kernel implements the four per-frame amplitude kernels of
// spec §4.4: discrete-vector all-atom, discrete-vector self,
// multipole-spherical and multipole-cylindrical. Each kernel takes one
// frame's coordinates and one q-vector and writes a single row of the
// per-q amplitude matrix A.
package kernel

import (
	"math"

	"github.com/rmera/goscatter/cache"
)

// Family tags which kernel variant an orchestrator/reducer pair is
// wired for, replacing the source's deep device-inheritance hierarchy
// with a single capability set plus a tagged variant (Design Note
// "Inheritance hierarchy").
type Family int

const (
	AllVectors Family = iota
	SelfVectors
	MultipoleSphere
	MultipoleCylinder
)

// Kernel computes one row of the amplitude matrix A for a given frame.
type Kernel interface {
	// Family reports which variant this Kernel implements.
	Family() Family
	// Columns returns C, the number of columns a row has.
	Columns() int
	// Compute writes the row for the given frame's coordinate set and
	// q-vector, returning the C complex amplitudes.
	Compute(cs *cache.CoordinateSet, q [3]float64, factors []float64) ([]complex128, error)
}

// MultipoleSphereColumns returns C = sum_{l=0..L}(2l+1) for the
// spherical multipole kernel.
func MultipoleSphereColumns(L int) int {
	return (L + 1) * (L + 1)
}

// MultipoleCylinderColumns returns C = 1 + 4L for the cylindrical
// multipole kernel.
func MultipoleCylinderColumns(L int) int {
	return 1 + 4*L
}

// ApplyAlignment implements the post-alignment phase correction of
// §4.4: A[i,c] <- A[i,c] * exp(i * q . R_i), applied after a kernel
// computes a row, for every column, when centering is enabled.
func ApplyAlignment(row []complex128, q [3]float64, R [3]float64) {
	phase := q[0]*R[0] + q[1]*R[1] + q[2]*R[2]
	factor := complex(math.Cos(phase), math.Sin(phase))
	for c := range row {
		row[c] *= factor
	}
}

func dotQ(q [3]float64, v [3]float64) float64 {
	return q[0]*v[0] + q[1]*v[1] + q[2]*v[2]
}

func qlen(q [3]float64) float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2])
}
