// Package orchestrator drives a single partition's stage -> compute ->
// reduce -> write pipeline for a sequence of q-vectors, the Go
// counterpart of AbstractScatterDevice's runner/stage_data/compute
// split (abstract_scatter_device.hpp): a device interface capturing
// the shared {stage, compute, reduce, write} control flow, with the
// kernel family (AllVectors/SelfVectors/MultipoleSphere/
// MultipoleCylinder) as the one axis of variation, per spec.md §9's
// "Inheritance hierarchy" design note.
package orchestrator

import (
	"fmt"
	"math"
	"sync"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/cache"
	"github.com/rmera/goscatter/config"
	"github.com/rmera/goscatter/decompose"
	"github.com/rmera/goscatter/kernel"
	"github.com/rmera/goscatter/qset"
	"github.com/rmera/goscatter/queue"
	"github.com/rmera/goscatter/reduce"
	"github.com/rmera/goscatter/resultspool"
	"github.com/rmera/goscatter/scatterfactors"
	"github.com/rmera/goscatter/transport"
	"github.com/rmera/goscatter/writer"
)

// queueDepthPerWorker is W in spec.md §4.6/§4.7: the producer blocks
// once W*workers jobs are queued.
const queueDepthPerWorker = 2

// Device wires every component the scattering calculation needs for
// one partition's worth of q-vectors: a coordinate-set cache, a
// scattering-factor table, an amplitude kernel, a collective-transport
// partition, a result spool, and a monitor. One Device serves the
// frame range this partition's rank set owns.
type Device struct {
	Cfg     config.Config
	Cache   *cache.Cache
	Factors *scatterfactors.Table
	Kernel  kernel.Kernel
	Part    *transport.Partition
	Rank    int
	Root    int

	NF           int   // global frame count
	LocalFrames  []int // the frame indices this rank owns, per EvenDecompose

	Spool   *resultspool.Spool
	Monitor writer.MonitorClient

	mu      sync.Mutex
	aborted bool
	first   error
}

// New builds a Device for one partition rank, deriving this rank's
// local frame range from NF via decompose.EvenDecompose.
func New(cfg config.Config, c *cache.Cache, factors *scatterfactors.Table, k kernel.Kernel, part *transport.Partition, rank, root, nf int, spool *resultspool.Spool, monitor writer.MonitorClient) *Device {
	if monitor == nil {
		monitor = writer.NoopMonitor{}
	}
	return &Device{
		Cfg:         cfg,
		Cache:       c,
		Factors:     factors,
		Kernel:      k,
		Part:        part,
		Rank:        rank,
		Root:        root,
		NF:          nf,
		LocalFrames: decompose.EvenDecompose(nf, part.Size(), rank),
		Spool:       spool,
		Monitor:     monitor,
	}
}

// columns returns the amplitude matrix's column count for this
// device's kernel, resolving SelfKernel's -1 sentinel against the
// scattering-factor table's selection size.
func (d *Device) columns() int {
	if c := d.Kernel.Columns(); c >= 0 {
		return c
	}
	return d.Factors.N()
}

// checkBudget implements §5's RAM policy: before every q, the
// amplitude matrix estimate (local frames x columns x 16 bytes) must
// not exceed Limits.ScatteringMatrixBytes. Per-worker scratch and the
// coordinate-set cache are not counted toward that cap. A cache budget
// too small to hold every local frame triggers a warning, not a
// failure, via the monitor.
func (d *Device) checkBudget() error {
	matrixBytes := int64(len(d.LocalFrames)) * int64(d.columns()) * 16 // complex128
	if matrixBytes > d.Cfg.Limits.ScatteringMatrixBytes {
		return goscatter.NewError(goscatter.ResourceExhausted, fmt.Sprintf(
			"amplitude matrix needs %d bytes, cap is %d", matrixBytes, d.Cfg.Limits.ScatteringMatrixBytes))
	}
	if d.Cache.SmallerThan(len(d.LocalFrames), int64(d.Factors.N())*3*8) {
		d.Monitor.Warn(fmt.Sprintf(
			"coordinate-set cache holds fewer than this rank's %d local frames; evicted frames will be re-materialized on demand",
			len(d.LocalFrames)))
	}
	return nil
}

// abort records the first error seen by any worker and marks the
// partition aborted; subsequent workers stop submitting new work.
func (d *Device) abort(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.aborted {
		d.aborted = true
		d.first = err
	}
}

func (d *Device) isAborted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aborted
}

// rawSeries executes the stage/compute/reduce steps for one q-vector,
// stopping short of building a scalar record. The returned series is
// meaningful only on the root rank: for the static path it is the
// reconstructed per-frame global intensity vector (length NF, real
// values equal to |A|^2 per frame); for the dynamic path it is the
// time-correlation series fqt. Both are collective operations, so
// every rank in the partition must call this for every q-vector,
// whether or not that rank goes on to use the result.
func (d *Device) rawSeries(q [3]float64) ([]complex128, error) {
	if d.isAborted() {
		return nil, d.first
	}

	qlen := qlength(q)
	d.Factors.Update(qlen)
	if !d.Factors.Finite() {
		err := goscatter.NewError(goscatter.NumericOverflow, "scattering factor table produced a non-finite value")
		d.abort(err)
		return nil, err
	}

	if err := d.checkBudget(); err != nil {
		d.abort(err)
		return nil, err
	}

	local := make([][]complex128, len(d.LocalFrames))
	factors := d.Factors.GetAll()

	var workerErr error
	var werrMu sync.Mutex
	pool := queue.NewPool(d.Cfg.Workers, queueDepthPerWorker*maxInt(d.Cfg.Workers, 1), func(job queue.Job) {
		i := job.FrameOrAtom
		cs, err := d.Cache.Load(d.LocalFrames[i])
		if err != nil {
			werrMu.Lock()
			if workerErr == nil {
				workerErr = goscatter.Decorated(err, "Device.rawSeries")
			}
			werrMu.Unlock()
			return
		}
		row, err := d.Kernel.Compute(cs, q, factors)
		if err != nil {
			werrMu.Lock()
			if workerErr == nil {
				workerErr = goscatter.Decorated(err, "Device.rawSeries")
			}
			werrMu.Unlock()
			return
		}
		if cs.HasAlign {
			kernel.ApplyAlignment(row, q, cs.AlignVector)
		}
		if !transport.Finite(row) {
			werrMu.Lock()
			if workerErr == nil {
				workerErr = goscatter.NewError(goscatter.NumericOverflow, "non-finite amplitude")
			}
			werrMu.Unlock()
			return
		}
		local[i] = row
	})

	for i := range d.LocalFrames {
		pool.Push(queue.Job{FrameOrAtom: i})
	}
	pool.StopAndWait()

	if workerErr != nil {
		d.abort(workerErr)
		return nil, workerErr
	}

	if d.Cfg.Correlation.Type == config.CorrelationNone {
		res := reduce.Static(d.Part, d.Rank, d.Root, local, d.NF)
		if d.Rank != d.Root {
			return nil, nil
		}
		return res.Global, nil
	}
	fqt := reduce.Dynamic(d.Part, d.Rank, d.Root, local, d.NF, d.Cfg.Correlation.Method, d.Cfg.Correlation.ZeroMean)
	if d.Rank != d.Root {
		return nil, nil
	}
	return fqt, nil
}

// recordFromSeries turns a root-rank series (static intensity vector or
// dynamic fqt) into a finished Record. dynamic selects which of the two
// interpretations applies; the scalar moments are computed the same way
// in both cases (fq=<.>, fq2=<|.|^2>), matching reduce.Static's own
// formula so a class-averaged series reduces identically to a
// single-vector one.
func recordFromSeries(q [3]float64, dynamic bool, series []complex128) writer.Record {
	rec := writer.Record{Q: q}
	if len(series) == 0 {
		return rec
	}
	rec.Fq0 = series[0]
	if dynamic {
		rec.Fqt = series
	}
	rec.Fq, rec.Fq2 = momentsOf(series)
	return rec
}

// RunQ executes the full stage/compute/reduce/write pipeline for one
// q-vector, returning the finished record (meaningful only on root)
// and any first error encountered. Used directly for the multipole
// orientation family, where the harmonic expansion already integrates
// over orientation and no |q|-class grouping applies.
func (d *Device) RunQ(q [3]float64) (writer.Record, error) {
	series, err := d.rawSeries(q)
	if err != nil {
		return writer.Record{}, err
	}
	rec := recordFromSeries(q, d.Cfg.Correlation.Type != config.CorrelationNone, series)
	if d.Rank == d.Root && d.Spool != nil {
		if err := d.Spool.Push(rec); err != nil {
			d.abort(err)
			return rec, err
		}
	}
	return rec, nil
}

// classRecord computes one orientation class's averaged record: it runs
// rawSeries for every member vector (each a full collective pass, since
// direction still affects the per-frame amplitude even though |q| does
// not), averages the resulting series element-wise on root, and folds
// the average into a single Record. This is §4.4a's vectors-family
// average: "repeating for the set of q-vectors of identical |q| and
// averaging |A|^2 over that set". The record's Q field carries the
// first member vector, since only its magnitude remains meaningful
// after averaging over direction.
func (d *Device) classRecord(vectors [][3]float64) (writer.Record, error) {
	var sum []complex128
	for _, q := range vectors {
		series, err := d.rawSeries(q)
		if err != nil {
			return writer.Record{}, err
		}
		if d.Rank != d.Root {
			continue
		}
		if sum == nil {
			sum = make([]complex128, len(series))
		}
		for i, v := range series {
			sum[i] += v
		}
	}
	if d.Rank != d.Root {
		return writer.Record{}, nil
	}
	n := complex(float64(len(vectors)), 0)
	for i := range sum {
		sum[i] /= n
	}
	return recordFromSeries(vectors[0], d.Cfg.Correlation.Type != config.CorrelationNone, sum), nil
}

// Run executes the configured orientation average over every q-vector,
// publishing progress as records complete, and stops at the first error
// (aborting the partition, per §7's propagation rule: a partition's
// failure aborts only its own writers, signaled here via
// Monitor.Hangup). For OrientationVectors it groups qs into
// |q|-classes via qset and emits one averaged record per class; for
// OrientationMultipole (whose expansion already integrates over
// orientation) it emits one record per q-vector, unchanged.
func (d *Device) Run(qs [][3]float64) error {
	if d.Cfg.Orientation.Type == config.OrientationVectors {
		return d.runVectorClasses(qs)
	}
	for i, q := range qs {
		if _, err := d.RunQ(q); err != nil {
			d.Monitor.Hangup(err)
			return err
		}
		if d.Rank == d.Root {
			d.Monitor.Progress(i+1, len(qs))
		}
	}
	if d.Rank == d.Root {
		d.Monitor.Hangup(nil)
	}
	return nil
}

// runVectorClasses implements the OrientationVectors branch of Run:
// group qs by |q| via qset, then emit one class-averaged record at a
// time, in ascending-|q| class order.
func (d *Device) runVectorClasses(qs [][3]float64) error {
	tol := d.Cfg.Orientation.Tolerance
	if tol <= 0 {
		tol = config.DefaultOrientationTolerance
	}
	set := qset.NewSet(qs, tol)
	if d.Rank == d.Root {
		d.Monitor.Warn("orientation classes: " + set.Histogram().String())
	}

	nc := set.NClasses()
	for c := 0; c < nc; c++ {
		members := set.Members(c)
		vectors := make([][3]float64, len(members))
		for i, m := range members {
			vectors[i] = set.Vector(m).Q
		}
		rec, err := d.classRecord(vectors)
		if err != nil {
			d.Monitor.Hangup(err)
			return err
		}
		if d.Rank == d.Root {
			if d.Spool != nil {
				if err := d.Spool.Push(rec); err != nil {
					d.abort(err)
					d.Monitor.Hangup(err)
					return err
				}
			}
			d.Monitor.Progress(c+1, nc)
		}
	}
	if d.Rank == d.Root {
		d.Monitor.Hangup(nil)
	}
	return nil
}

// momentsOf computes fq=<.> and fq2=<|.|^2> over a complex series, the
// same pair of scalar moments reduce.Static derives from its global
// vector, applied here to fqt so a dynamic-mode record carries the
// same observables a static-mode one does.
func momentsOf(series []complex128) (fq complex128, fq2 complex128) {
	if len(series) == 0 {
		return 0, 0
	}
	var sum complex128
	var sumSq float64
	for _, v := range series {
		sum += v
		sumSq += real(v)*real(v) + imag(v)*imag(v)
	}
	n := float64(len(series))
	return sum / complex(n, 0), complex(sumSq/n, 0)
}

func qlength(q [3]float64) float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
