// Package cache provides a lazy, byte-budgeted, LRU coordinate-set
// cache over a trajectory: workers borrow a frame's coordinates in
// whichever representation the run needs, and the cache loads frames on
// first use and evicts the least-recently-used entry once the byte
// budget is exceeded. The concurrency pattern (one in-flight load per
// missing frame, proceeding in parallel with loads of other frames)
// mirrors the teacher's ConcMolRDF goroutine-per-frame analysis loop.
package cache

import (
	"container/list"
	"sync"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/traj"
	v3 "github.com/rmera/goscatter/v3"
)

// Representation selects which coordinate form the cache materializes.
type Representation int

const (
	Cartesian Representation = iota
	Spherical
	Cylindrical
)

// CoordinateSet is one frame's materialized coordinates plus, when
// post-alignment is enabled, the per-frame centroid subtracted before
// conversion, kept for the kernel's phase-correction step.
type CoordinateSet struct {
	Frame       int
	Cart        *v3.Matrix
	Sphere      []v3.Spherical
	Cylinder    []v3.Cylindrical
	AlignVector [3]float64
	HasAlign    bool
	bytes       int64
}

// Cache is a bounded, LRU, lazily-populated set of CoordinateSets keyed
// by frame index.
type Cache struct {
	mu    sync.Mutex
	traj  traj.Traj
	rep   Representation
	axis  v3.Axis
	align bool
	idxOf []int // selection atom indices, nil = whole trajectory

	budget int64
	used   int64

	entries map[int]*list.Element // frame -> LRU element
	order   *list.List            // list of *CoordinateSet, front = most recent

	inflight map[int]*sync.WaitGroup // frame -> pending load, for dedup across concurrent callers
}

// New builds a Cache over t, restricted to the atoms in sel (nil means
// every atom), materializing rep with multipole axis o, subtracting the
// selection centroid per frame when align is true, bounded to budget
// bytes.
func New(t traj.Traj, sel []int, rep Representation, o v3.Axis, align bool, budget int64) *Cache {
	return &Cache{
		traj:     t,
		rep:      rep,
		axis:     o,
		align:    align,
		idxOf:    sel,
		budget:   budget,
		entries:  make(map[int]*list.Element),
		order:    list.New(),
		inflight: make(map[int]*sync.WaitGroup),
	}
}

func estimateBytes(natoms int, rep Representation) int64 {
	switch rep {
	case Cartesian:
		return int64(natoms) * 3 * 8
	default:
		return int64(natoms) * 3 * 8 // spherical/cylindrical triples, same footprint as Cartesian
	}
}

// Load returns the CoordinateSet for frame i, materializing it if
// necessary. Concurrent Load calls for distinct frames proceed in
// parallel; concurrent Load calls for the same frame share one load.
func (c *Cache) Load(i int) (*CoordinateSet, error) {
	c.mu.Lock()
	if el, ok := c.entries[i]; ok {
		c.order.MoveToFront(el)
		cs := el.Value.(*CoordinateSet)
		c.mu.Unlock()
		return cs, nil
	}
	if wg, pending := c.inflight[i]; pending {
		c.mu.Unlock()
		wg.Wait()
		c.mu.Lock()
		el, ok := c.entries[i]
		c.mu.Unlock()
		if !ok {
			return nil, goscatter.NewError(goscatter.Fatal, "coordinate set load failed on another goroutine")
		}
		return el.Value.(*CoordinateSet), nil
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	c.inflight[i] = wg
	c.mu.Unlock()

	cs, err := c.materialize(i)

	c.mu.Lock()
	delete(c.inflight, i)
	wg.Done()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if err := c.install(i, cs); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()
	return cs, nil
}

// install adds cs to the cache, evicting LRU entries as needed to stay
// under budget. Must be called with c.mu held.
func (c *Cache) install(i int, cs *CoordinateSet) error {
	if cs.bytes > c.budget {
		return goscatter.NewError(goscatter.ResourceExhausted, "coordinate-set cache budget cannot hold a single frame")
	}
	for c.used+cs.bytes > c.budget && c.order.Len() > 0 {
		back := c.order.Back()
		evicted := back.Value.(*CoordinateSet)
		c.order.Remove(back)
		delete(c.entries, evicted.Frame)
		c.used -= evicted.bytes
	}
	el := c.order.PushFront(cs)
	c.entries[i] = el
	c.used += cs.bytes
	return nil
}

func (c *Cache) materialize(i int) (*CoordinateSet, error) {
	frame, err := c.traj.Frame(i)
	if err != nil {
		return nil, goscatter.Decorated(err, "Cache.Load")
	}
	cart := frame
	if c.idxOf != nil {
		cart = frame.SomeVecs(c.idxOf)
	}
	cs := &CoordinateSet{Frame: i, bytes: estimateBytes(cart.NVecs(), c.rep)}
	if c.align {
		R := v3.Centroid(cart, nil)
		cart = v3.Centered(cart, R)
		cs.AlignVector = R
		cs.HasAlign = true
	}
	switch c.rep {
	case Cartesian:
		cs.Cart = cart
	case Spherical:
		cs.Cart = cart
		cs.Sphere = v3.ToSpherical(cart, c.axis)
	case Cylindrical:
		cs.Cart = cart
		cs.Cylinder = v3.ToCylindrical(cart, c.axis)
	}
	return cs, nil
}

// Len returns the number of frames currently resident.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Used returns the number of bytes currently charged against the budget.
func (c *Cache) Used() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// SmallerThan reports whether the cache's budget is too small to hold
// nframes resident frames simultaneously — a warning condition per §5,
// not fatal on its own.
func (c *Cache) SmallerThan(nframes int, perFrameBytes int64) bool {
	return c.budget < int64(nframes)*perFrameBytes
}
