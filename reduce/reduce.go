// Package reduce implements the frame reducer of spec §4.5: static
// reduction (conjugate-multiply-then-sum across frames) and dynamic
// reduction (time-autocorrelation of the per-frame amplitude series),
// the latter via either a direct O(NF^2) sum or an FFT-based
// O(NF log NF) pass. Formulas are grounded directly on the original
// C++'s conjmultiply_frames/gather_frames/correlate_frames, since
// spec.md's prose compresses a few normalization details.
package reduce

import (
	"github.com/rmera/goscatter/chemstat"
	"github.com/rmera/goscatter/decompose"
	"github.com/rmera/goscatter/transport"
)

// Method selects the dynamic-reduction algorithm.
type Method int

const (
	Direct Method = iota
	FFTW
)

// foldColumns implements §4.5 static step 1 and the resolved Open
// Question: for each local row i, sum |A[i,c]|^2 across *all* columns
// c, never folding into column 0 early.
func foldColumns(local [][]complex128) []complex128 {
	out := make([]complex128, len(local))
	for i, row := range local {
		var acc complex128
		for _, v := range row {
			acc += v * cmplxConj(v)
		}
		out[i] = acc
	}
	return out
}

func cmplxConj(z complex128) complex128 { return complex(real(z), -imag(z)) }

// StaticResult is the outcome of a static reduction, meaningful only on
// the partition's root rank (every other rank's fields are zero).
type StaticResult struct {
	Global []complex128 // length NF, the reconstructed global frame vector
	Fq     complex128   // <.>
	Fq2    float64      // <|.|^2>
}

// Static implements §4.5's static path: fold each local row's columns,
// all-reduce-max the local frame counts, pad and gather to root, then
// reconstruct the global NF vector by inverting EvenDecompose.
func Static(part *transport.Partition, rank, root int, local [][]complex128, nf int) StaticResult {
	folded := foldColumns(local)
	maxCS := part.AllReduceMax(rank, float64(len(folded)))
	padded := part.GatherTo(rank, root, folded, int(maxCS))
	if rank != root {
		return StaticResult{}
	}
	global := transport.GlobalVectorFromPartition(padded, nf, part.Size())
	var sum complex128
	var sumSq float64
	for _, v := range global {
		sum += v
		sumSq += real(v)*real(v) + imag(v)*imag(v)
	}
	n := float64(len(global))
	return StaticResult{
		Global: global,
		Fq:     sum / complex(n, 0),
		Fq2:    sumSq / n,
	}
}

// Dynamic implements §4.5's dynamic path for every column of local,
// assembling each column's global series via all-gather, then combining
// each column's contribution into a single length-NF result via
// reduce-sum to root. For Direct, every rank computes its own
// RModuloDecompose-assigned subset of lags for every column (matching
// §4.5 steps 3-4 exactly). For FFTW the natural parallel axis is the
// column itself (an FFT is not split by lag), so columns are
// distributed across ranks by index modulo partition size and each
// rank's reduce-sum contribution is zero for columns it does not own.
// Meaningful only on root.
func Dynamic(part *transport.Partition, rank, root int, local [][]complex128, nf int, method Method, zeroMean bool) []complex128 {
	ncols := 0
	if len(local) > 0 {
		ncols = len(local[0])
	}
	acc := make([]complex128, nf)
	for c := 0; c < ncols; c++ {
		col := make([]complex128, len(local))
		for i, row := range local {
			col[i] = row[c]
		}
		globalSeries := part.AllGather(rank, col, len(col))
		globalSeries = transport.GlobalVectorFromPartition(globalSeries, nf, part.Size())

		var contribution []complex128
		switch method {
		case FFTW:
			contribution = make([]complex128, nf)
			if c%part.Size() == rank {
				contribution = chemstat.FFTCorrelate(globalSeries, zeroMean)
			}
		default:
			contribution = directCorrelate(globalSeries, zeroMean, part, rank)
		}
		reduced := part.ReduceSumTo(rank, root, contribution)
		if rank == root {
			for i, v := range reduced {
				acc[i] += v
			}
		}
	}
	if rank != root {
		return nil
	}
	return acc
}

// directCorrelate implements §4.5's direct method: each rank takes the
// tau-set from RModuloDecompose and fills only those lags, leaving the
// rest zero (the subsequent reduce-sum assembles the full vector).
func directCorrelate(global []complex128, zeroMean bool, part *transport.Partition, rank int) []complex128 {
	nf := len(global)
	mu := complex(0, 0)
	if zeroMean {
		mu = meanOf(global)
	}
	out := make([]complex128, nf)
	taus := decompose.RModuloDecompose(nf, part.Size(), rank)
	for _, tau := range taus {
		denom := nf - tau
		if denom == 0 {
			out[tau] = 0
			continue
		}
		var acc complex128
		for k := 0; k < denom; k++ {
			acc += cmplxConj(global[k]-mu) * (global[k+tau] - mu)
		}
		out[tau] = acc / complex(float64(denom), 0)
	}
	return out
}

func meanOf(s []complex128) complex128 {
	if len(s) == 0 {
		return 0
	}
	var sum complex128
	for _, v := range s {
		sum += v
	}
	return sum / complex(float64(len(s)), 0)
}
