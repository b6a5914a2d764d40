package v3

import "math"

// Spherical holds one atom's coordinate in (r, phi, theta) form relative
// to a chosen multipole axis o: theta is the polar angle measured from
// o, phi the azimuthal angle in the plane perpendicular to o.
type Spherical struct {
	R, Phi, Theta float64
}

// Cylindrical holds one atom's coordinate in (r, phi, z) form relative
// to axis o: z is the signed projection onto o, r the distance from the
// axis, phi the azimuthal angle around it.
type Cylindrical struct {
	R, Phi, Z float64
}

// Axis is a unit vector defining the multipole axis (and hence the
// z-direction of the spherical/cylindrical representations).
type Axis struct {
	X, Y, Z float64
}

// DefaultAxis is the canonical z-axis.
var DefaultAxis = Axis{0, 0, 1}

// orthonormalBasis builds two vectors perpendicular to o and to each
// other, so that (e1, e2, o) is a right-handed orthonormal frame.
func orthonormalBasis(o Axis) (e1, e2 Axis) {
	// Pick the world axis least aligned with o to cross against, to
	// avoid a near-zero cross product.
	ref := Axis{1, 0, 0}
	if math.Abs(o.X) > 0.9 {
		ref = Axis{0, 1, 0}
	}
	e1 = normalize(cross(ref, o))
	e2 = normalize(cross(o, e1))
	return e1, e2
}

func cross(a, b Axis) Axis {
	return Axis{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func normalize(a Axis) Axis {
	n := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	if n == 0 {
		return a
	}
	return Axis{a.X / n, a.Y / n, a.Z / n}
}

func dot(a, b Axis) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// ToSpherical converts a Cartesian Matrix to per-atom (r,phi,theta)
// relative to axis o.
func ToSpherical(cart *Matrix, o Axis) []Spherical {
	o = normalize(o)
	e1, e2 := orthonormalBasis(o)
	n := cart.NVecs()
	out := make([]Spherical, n)
	for i := 0; i < n; i++ {
		v := cart.Vec(i)
		p := Axis{v[0], v[1], v[2]}
		r := math.Sqrt(dot(p, p))
		zc := dot(p, o)
		x1 := dot(p, e1)
		x2 := dot(p, e2)
		theta := 0.0
		if r > 0 {
			theta = math.Acos(clamp(zc/r, -1, 1))
		}
		out[i] = Spherical{R: r, Phi: math.Atan2(x2, x1), Theta: theta}
	}
	return out
}

// ToCylindrical converts a Cartesian Matrix to per-atom (r,phi,z)
// relative to axis o.
func ToCylindrical(cart *Matrix, o Axis) []Cylindrical {
	o = normalize(o)
	e1, e2 := orthonormalBasis(o)
	n := cart.NVecs()
	out := make([]Cylindrical, n)
	for i := 0; i < n; i++ {
		v := cart.Vec(i)
		p := Axis{v[0], v[1], v[2]}
		z := dot(p, o)
		x1 := dot(p, e1)
		x2 := dot(p, e2)
		out[i] = Cylindrical{R: math.Sqrt(x1*x1 + x2*x2), Phi: math.Atan2(x2, x1), Z: z}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
