package v3

import (
	"math"
	"testing"
)

func TestNewMatrixBadLength(t *testing.T) {
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		t.Fatalf("expected error for non-multiple-of-3 length")
	}
}

func TestVecViewSharesStorage(t *testing.T) {
	m, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	v := m.VecView(1)
	v.Set(0, 0, 99)
	if got := m.At(1, 0); got != 99 {
		t.Fatalf("VecView should alias storage: got %v", got)
	}
}

func TestCentroidAndCentered(t *testing.T) {
	m, _ := NewMatrix([]float64{0, 0, 0, 2, 0, 0})
	c := Centroid(m, nil)
	if math.Abs(c[0]-1) > 1e-12 {
		t.Fatalf("centroid x = %v, want 1", c[0])
	}
	centered := Centered(m, c)
	v0 := centered.Vec(0)
	if math.Abs(v0[0]+1) > 1e-12 {
		t.Fatalf("centered row 0 x = %v, want -1", v0[0])
	}
}

func TestToSphericalOnAxis(t *testing.T) {
	m, _ := NewMatrix([]float64{0, 0, 2})
	s := ToSpherical(m, DefaultAxis)
	if math.Abs(s[0].R-2) > 1e-12 {
		t.Fatalf("r = %v, want 2", s[0].R)
	}
	if math.Abs(s[0].Theta) > 1e-9 {
		t.Fatalf("theta = %v, want 0 for a point on the axis", s[0].Theta)
	}
}

func TestToCylindricalOffAxis(t *testing.T) {
	m, _ := NewMatrix([]float64{1, 0, 3})
	c := ToCylindrical(m, DefaultAxis)
	if math.Abs(c[0].R-1) > 1e-9 {
		t.Fatalf("r = %v, want 1", c[0].R)
	}
	if math.Abs(c[0].Z-3) > 1e-9 {
		t.Fatalf("z = %v, want 3", c[0].Z)
	}
}

func TestEigenWrapIdentity(t *testing.T) {
	m, _ := NewMatrix([]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	evecs, evals, err := EigenWrap(m, 1e-9)
	if err != nil {
		t.Fatalf("EigenWrap: %v", err)
	}
	for _, v := range evals {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("eigenvalue %v, want 1", v)
		}
	}
	if evecs.NVecs() != 3 {
		t.Fatalf("expected 3 eigenvectors, got %d", evecs.NVecs())
	}
}
