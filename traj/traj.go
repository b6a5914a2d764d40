// Package traj declares the trajectory collaborator contracts consumed
// by the scattering engine. Real trajectory-file parsing (binary DCD,
// XTC, and similar formats) is out of scope for this repository; only
// the interfaces the engine calls through, plus a minimal in-memory
// implementation for tests, live here.
package traj

import (
	goscatter "github.com/rmera/goscatter"
	v3 "github.com/rmera/goscatter/v3"
)

// Atom is the minimal per-atom metadata the engine needs: an element
// symbol (scatterfactors.Table keys off it) and its index in the parent
// trajectory's atom ordering.
type Atom struct {
	Symbol string
	Index  int
}

// Atomer exposes per-atom metadata for a trajectory, independent of any
// particular frame.
type Atomer interface {
	// Atom returns metadata for atom i, 0 <= i < NAtoms().
	Atom(i int) Atom
	// NAtoms returns the total atom count NA.
	NAtoms() int
}

// Traj is a fixed-length, randomly addressable sequence of coordinate
// frames. Implementations must be safe for concurrent Frame calls on
// distinct indices; a frame's coordinates never change once loaded.
type Traj interface {
	Atomer
	// NFrames returns the frame count NF.
	NFrames() int
	// Frame returns the Cartesian coordinates of frame i as a
	// NAtoms()x3 v3.Matrix. Implementations may materialize lazily.
	Frame(i int) (*v3.Matrix, error)
}

// ConcTraj is a Traj able to serve several concurrent Frame calls
// without serializing them behind a single lock, the property the
// coordinate-set cache relies on to parallelize loads across frames.
type ConcTraj interface {
	Traj
	// Concurrent reports whether the implementation actually supports
	// concurrent frame loads (some in-memory or single-file-handle
	// implementations cannot).
	Concurrent() bool
}

// Memory is a trivial ConcTraj backed by frames already held in memory.
// It exists purely so the engine's own tests can drive it end-to-end
// without a real trajectory file.
type Memory struct {
	atoms  []Atom
	frames []*v3.Matrix
}

// NewMemory builds a Memory trajectory from atom symbols and a slice of
// per-frame coordinate matrices, each with len(symbols) rows.
func NewMemory(symbols []string, frames []*v3.Matrix) *Memory {
	atoms := make([]Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = Atom{Symbol: s, Index: i}
	}
	return &Memory{atoms: atoms, frames: frames}
}

func (m *Memory) Atom(i int) Atom { return m.atoms[i] }
func (m *Memory) NAtoms() int     { return len(m.atoms) }
func (m *Memory) NFrames() int    { return len(m.frames) }
func (m *Memory) Concurrent() bool {
	return true
}

// Frame returns the ith frame. Since frames are already fully materialized
// in memory, this never allocates or fails on a well-formed index.
func (m *Memory) Frame(i int) (*v3.Matrix, error) {
	if i < 0 || i >= len(m.frames) {
		return nil, goscatter.NewError(goscatter.ConfigInvalid, "frame index out of range")
	}
	return m.frames[i], nil
}
