package traj

import (
	"testing"

	v3 "github.com/rmera/goscatter/v3"
)

func TestMemoryTraj(t *testing.T) {
	f0, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	f1, _ := v3.NewMatrix([]float64{0, 0, 1, 1, 0, 1})
	m := NewMemory([]string{"H", "O"}, []*v3.Matrix{f0, f1})

	if m.NAtoms() != 2 || m.NFrames() != 2 {
		t.Fatalf("unexpected dims NAtoms=%d NFrames=%d", m.NAtoms(), m.NFrames())
	}
	if !m.Concurrent() {
		t.Fatalf("Memory should report Concurrent() == true")
	}
	got, err := m.Frame(1)
	if err != nil {
		t.Fatalf("Frame(1): %v", err)
	}
	if got != f1 {
		t.Fatalf("Frame(1) returned unexpected matrix")
	}
	if _, err := m.Frame(5); err == nil {
		t.Fatalf("expected error for out-of-range frame index")
	}
}
