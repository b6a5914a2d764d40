// Package transport implements the five collective primitives every
// partition pipeline needs (§4.8), over an in-process "partition"
// modeled as a fixed group of goroutines sharing per-rank scratch
// slots behind a mutex and condition variable — one of the valid
// backings the spec allows ("MPI as transport": a native MPI binding,
// RDMA, or shared-memory collectives are all acceptable for a
// single-node run).
package transport

import (
	"math"
	"sync"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/decompose"
)

// Partition is a communicator shared by `size` participant ranks. Every
// collective call is collective: all `size` ranks must call it for any
// one of them to return.
type Partition struct {
	size int

	mu      sync.Mutex
	gen     int
	arrived int
	cond    *sync.Cond

	// per-generation scratch, read by every rank once `arrived` reaches size
	maxIn  []float64
	maxOut float64

	gatherIn  [][]float64
	gatherOut []float64

	allgatherIn  [][]float64
	allgatherOut []float64

	reduceIn  [][]float64
	reduceOut []float64

	bcastPayload interface{}
}

// NewPartition builds a Partition of the given rank count.
func NewPartition(size int) *Partition {
	p := &Partition{size: size}
	p.cond = sync.NewCond(&p.mu)
	p.maxIn = make([]float64, size)
	p.gatherIn = make([][]float64, size)
	p.allgatherIn = make([][]float64, size)
	p.reduceIn = make([][]float64, size)
	return p
}

// Size returns the number of ranks in the partition.
func (p *Partition) Size() int { return p.size }

// rendezvous blocks every caller until all `size` ranks of generation
// gen have called it, then lets the last arrival run `compute` once
// before releasing everyone.
func (p *Partition) rendezvous(compute func()) {
	p.mu.Lock()
	gen := p.gen
	p.arrived++
	if p.arrived == p.size {
		compute()
		p.arrived = 0
		p.gen++
		p.cond.Broadcast()
	} else {
		for gen == p.gen {
			p.cond.Wait()
		}
	}
	p.mu.Unlock()
}

// AllReduceMax performs an all-reduce with the max operator: every rank
// contributes x and every rank receives the maximum across the
// partition.
func (p *Partition) AllReduceMax(rank int, x float64) float64 {
	p.mu.Lock()
	p.maxIn[rank] = x
	p.mu.Unlock()
	p.rendezvous(func() {
		m := p.maxIn[0]
		for _, v := range p.maxIn[1:] {
			if v > m {
				m = v
			}
		}
		p.maxOut = m
	})
	p.mu.Lock()
	out := p.maxOut
	p.mu.Unlock()
	return out
}

// GatherTo concatenates every rank's local[0:count] into root's result,
// padding each rank's contribution to count as specified by §4.8 ("all
// ranks send the same count = max(NFlocal); unused tail is zero").
// Non-root ranks get a nil result.
func (p *Partition) GatherTo(rank, root int, local []complex128, count int) []complex128 {
	padded := padReal(local, count)
	p.mu.Lock()
	p.gatherIn[rank] = padded
	p.mu.Unlock()
	p.rendezvous(func() {
		out := make([]float64, 0, count*p.size)
		for _, v := range p.gatherIn {
			out = append(out, v...)
		}
		p.gatherOut = out
	})
	if rank != root {
		return nil
	}
	p.mu.Lock()
	out := realsToComplex(p.gatherOut)
	p.mu.Unlock()
	return out
}

// AllGather is GatherTo but every rank receives the full concatenation.
func (p *Partition) AllGather(rank int, local []complex128, count int) []complex128 {
	padded := padReal(local, count)
	p.mu.Lock()
	p.allgatherIn[rank] = padded
	p.mu.Unlock()
	p.rendezvous(func() {
		out := make([]float64, 0, count*p.size)
		for _, v := range p.allgatherIn {
			out = append(out, v...)
		}
		p.allgatherOut = out
	})
	p.mu.Lock()
	out := realsToComplex(p.allgatherOut)
	p.mu.Unlock()
	return out
}

// ReduceSumTo sums local[] element-wise across the partition into
// root's result; non-root ranks get nil.
func (p *Partition) ReduceSumTo(rank, root int, local []complex128) []complex128 {
	padded := complexToRealPairs(local)
	p.mu.Lock()
	p.reduceIn[rank] = padded
	p.mu.Unlock()
	p.rendezvous(func() {
		n := 0
		for _, v := range p.reduceIn {
			if len(v) > n {
				n = len(v)
			}
		}
		sum := make([]float64, n)
		for _, v := range p.reduceIn {
			for i, x := range v {
				sum[i] += x
			}
		}
		p.reduceOut = sum
	})
	if rank != root {
		return nil
	}
	p.mu.Lock()
	out := realPairsToComplex(p.reduceOut)
	p.mu.Unlock()
	return out
}

// Broadcast sends payload from root to every rank; root's own call
// supplies the payload, others pass nil and receive the broadcast value.
func (p *Partition) Broadcast(rank, root int, payload interface{}) interface{} {
	p.mu.Lock()
	if rank == root {
		p.bcastPayload = payload
	}
	p.mu.Unlock()
	p.rendezvous(func() {})
	p.mu.Lock()
	out := p.bcastPayload
	p.mu.Unlock()
	return out
}

// GlobalVectorFromPartition reconstructs the global length-NF complex
// vector from a padded gather, inverting the EvenDecompose interleave
// per §4.5 step 4 / §4.8's padding convention.
func GlobalVectorFromPartition(padded []complex128, nf, bins int) []complex128 {
	maxLocal := 0
	for r := 0; r < bins; r++ {
		if s := decompose.EvenDecomposeSize(nf, bins, r); s > maxLocal {
			maxLocal = s
		}
	}
	out := make([]complex128, nf)
	for r := 0; r < bins; r++ {
		idx := decompose.EvenDecompose(nf, bins, r)
		for k, gi := range idx {
			out[gi] = padded[r*maxLocal+k]
		}
	}
	return out
}

func padReal(local []complex128, count int) []float64 {
	out := make([]float64, count*2)
	for i, v := range local {
		if i >= count {
			break
		}
		out[2*i] = real(v)
		out[2*i+1] = imag(v)
	}
	return out
}

func realsToComplex(flat []float64) []complex128 {
	out := make([]complex128, len(flat)/2)
	for i := range out {
		out[i] = complex(flat[2*i], flat[2*i+1])
	}
	return out
}

func complexToRealPairs(local []complex128) []float64 {
	out := make([]float64, len(local)*2)
	for i, v := range local {
		out[2*i] = real(v)
		out[2*i+1] = imag(v)
	}
	return out
}

func realPairsToComplex(flat []float64) []complex128 {
	out := make([]complex128, len(flat)/2)
	for i := range out {
		out[i] = complex(flat[2*i], flat[2*i+1])
	}
	return out
}

// Finite reports whether every element of a complex slice is finite,
// the NumericOverflow guard applied right after a kernel runs.
func Finite(v []complex128) bool {
	for _, x := range v {
		if math.IsNaN(real(x)) || math.IsInf(real(x), 0) || math.IsNaN(imag(x)) || math.IsInf(imag(x), 0) {
			return false
		}
	}
	return true
}

// TransportError builds the taxonomy error a failed collective should
// surface.
func TransportError(msg string) error {
	return goscatter.NewError(goscatter.TransportFailure, msg)
}
