package cache

import (
	"sync"
	"testing"

	"github.com/rmera/goscatter/traj"
	v3 "github.com/rmera/goscatter/v3"
)

func buildTraj(nf int) *traj.Memory {
	frames := make([]*v3.Matrix, nf)
	for i := range frames {
		frames[i], _ = v3.NewMatrix([]float64{
			float64(i), 0, 0,
			0, float64(i), 0,
		})
	}
	return traj.NewMemory([]string{"H", "O"}, frames)
}

func TestLoadMaterializesCartesian(t *testing.T) {
	tr := buildTraj(3)
	c := New(tr, nil, Cartesian, v3.DefaultAxis, false, 1<<20)
	cs, err := c.Load(1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cs.Cart.At(0, 0) != 1 {
		t.Fatalf("frame 1 atom 0 x = %v, want 1", cs.Cart.At(0, 0))
	}
}

func TestEvictionUnderBudget(t *testing.T) {
	tr := buildTraj(5)
	perFrame := estimateBytes(2, Cartesian)
	c := New(tr, nil, Cartesian, v3.DefaultAxis, false, perFrame+perFrame/2)
	for i := 0; i < 5; i++ {
		if _, err := c.Load(i); err != nil {
			t.Fatalf("Load(%d): %v", i, err)
		}
	}
	if c.Len() > 1 {
		t.Fatalf("cache should have evicted down to ~1 frame, has %d", c.Len())
	}
}

func TestResourceExhaustedWhenBudgetTooSmall(t *testing.T) {
	tr := buildTraj(1)
	c := New(tr, nil, Cartesian, v3.DefaultAxis, false, 1)
	if _, err := c.Load(0); err == nil {
		t.Fatalf("expected ResourceExhausted error")
	}
}

func TestConcurrentLoadsOfDistinctFrames(t *testing.T) {
	tr := buildTraj(8)
	c := New(tr, nil, Cartesian, v3.DefaultAxis, false, 1<<20)
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Load(i)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Load(%d): %v", i, err)
		}
	}
}

func TestAlignmentVectorRetained(t *testing.T) {
	tr := buildTraj(1)
	c := New(tr, nil, Cartesian, v3.DefaultAxis, true, 1<<20)
	cs, err := c.Load(0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cs.HasAlign {
		t.Fatalf("expected HasAlign == true")
	}
}
