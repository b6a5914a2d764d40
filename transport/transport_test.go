package transport

import (
	"sync"
	"testing"
)

func TestAllReduceMax(t *testing.T) {
	p := NewPartition(4)
	xs := []float64{3, 9, 1, 7}
	results := make([]float64, 4)
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = p.AllReduceMax(r, xs[r])
		}(r)
	}
	wg.Wait()
	for r, v := range results {
		if v != 9 {
			t.Fatalf("rank %d got max=%v, want 9", r, v)
		}
	}
}

func TestAllGatherConcatenatesInRankOrder(t *testing.T) {
	p := NewPartition(3)
	local := [][]complex128{
		{1 + 0i},
		{2 + 0i},
		{3 + 0i},
	}
	results := make([][]complex128, 3)
	var wg sync.WaitGroup
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = p.AllGather(r, local[r], 1)
		}(r)
	}
	wg.Wait()
	want := []complex128{1, 2, 3}
	for r, got := range results {
		for i, w := range want {
			if got[i] != w {
				t.Fatalf("rank %d AllGather = %v, want %v", r, got, want)
			}
		}
	}
}

func TestReduceSumTo(t *testing.T) {
	p := NewPartition(3)
	local := [][]complex128{
		{1 + 1i, 2},
		{10, 20},
		{100, 200},
	}
	var wg sync.WaitGroup
	var root []complex128
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			out := p.ReduceSumTo(r, 0, local[r])
			if r == 0 {
				root = out
			}
		}(r)
	}
	wg.Wait()
	if root[0] != 111+1i || root[1] != 222 {
		t.Fatalf("ReduceSumTo root = %v, want [111+1i 222]", root)
	}
}

func TestBroadcast(t *testing.T) {
	p := NewPartition(3)
	var wg sync.WaitGroup
	got := make([]interface{}, 3)
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			var payload interface{}
			if r == 0 {
				payload = 42
			}
			got[r] = p.Broadcast(r, 0, payload)
		}(r)
	}
	wg.Wait()
	for r, v := range got {
		if v != 42 {
			t.Fatalf("rank %d broadcast got %v, want 42", r, v)
		}
	}
}

func TestGlobalVectorFromPartitionInvertsInterleave(t *testing.T) {
	// 2 bins, NF=5: rank0 gets {0,1,2}, rank1 gets {3,4}; padded to 3.
	padded := []complex128{10, 11, 12, 20, 21, 0}
	got := GlobalVectorFromPartition(padded, 5, 2)
	want := []complex128{10, 11, 12, 20, 21}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("GlobalVectorFromPartition = %v, want %v", got, want)
		}
	}
}
