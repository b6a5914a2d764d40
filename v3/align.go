package v3

// Centroid returns the unweighted mean position of the rows selected by
// idx (all rows if idx is nil).
func Centroid(cart *Matrix, idx []int) [3]float64 {
	var sum [3]float64
	rows := idx
	if rows == nil {
		n := cart.NVecs()
		rows = make([]int, n)
		for i := range rows {
			rows[i] = i
		}
	}
	for _, i := range rows {
		v := cart.Vec(i)
		sum[0] += v[0]
		sum[1] += v[1]
		sum[2] += v[2]
	}
	n := float64(len(rows))
	if n == 0 {
		return sum
	}
	return [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
}

// Centered returns a copy of cart with R subtracted from every row. The
// caller keeps R as the "post-alignment vector" used later for phase
// correction (spec §4.4).
func Centered(cart *Matrix, R [3]float64) *Matrix {
	n := cart.NVecs()
	out := Zeros(n)
	for i := 0; i < n; i++ {
		v := cart.Vec(i)
		out.SetVec(i, [3]float64{v[0] - R[0], v[1] - R[1], v[2] - R[2]})
	}
	return out
}
