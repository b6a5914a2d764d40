/*
 * matrix.go, part of goscatter.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 */

// Package v3 provides a set-of-3D-vectors matrix type used throughout
// the scattering engine to hold one trajectory frame's coordinates, in
// whichever representation (Cartesian, spherical, cylindrical) the
// caller needs. The underlying storage is a gonum.org/v1/gonum/mat.Dense
// with 3 columns; row i is the ith atom's coordinate vector.
package v3

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of row vectors in 3D space. Within the package it is
// understood that a "vector" is a row, i.e. the coordinates of one atom.
type Matrix struct {
	*mat.Dense
}

// NewMatrix builds a Matrix with 3 columns from data, which must have a
// length divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols = 3
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("input slice length %d not divisible by %d", l, cols), nil, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Zeros returns a Matrix with n rows, all zero.
func Zeros(n int) *Matrix {
	if n == 0 {
		// mat.NewDense rejects zero-length dimensions; an empty Dense
		// has no rows, so NVecs reports 0.
		return &Matrix{&mat.Dense{}}
	}
	return &Matrix{mat.NewDense(n, 3, nil)}
}

// NVecs returns the number of 3D vectors (rows) held by the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

// VecView returns a view of the ith vector (row) of F. Changes to the
// view are reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

// View returns a view of F starting at (i,j) and spanning r rows and c
// columns.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)}
}

// SetMatrix copies A into the receiver starting at row i, col j.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	ar, ac := A.Dims()
	fr, fc := F.Dims()
	if ar+i > fr || ac+j > fc {
		panic(ErrShape)
	}
	for k := 0; k < ar; k++ {
		for l := 0; l < ac; l++ {
			F.Set(i+k, j+l, A.At(k, l))
		}
	}
}

// SetVec overwrites the ith row with the 3 components of v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	F.Set(i, 0, v[0])
	F.Set(i, 1, v[1])
	F.Set(i, 2, v[2])
}

// Vec reads the ith row as a [3]float64.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// AddVec sets the ith row of F to the sum of the ith rows of A and B.
func (F *Matrix) AddVec(i int, A, B *Matrix) {
	for c := 0; c < 3; c++ {
		F.Set(i, c, A.At(i, c)+B.At(i, c))
	}
}

// SomeVecs returns a new Matrix containing only the rows whose index is
// in idx, in the order given.
func (F *Matrix) SomeVecs(idx []int) *Matrix {
	out := Zeros(len(idx))
	for k, i := range idx {
		out.SetVec(k, F.Vec(i))
	}
	return out
}

// Stack puts A stacked over B into the receiver, which must have
// exactly A.NVecs()+B.NVecs() rows.
func (F *Matrix) Stack(A, B *Matrix) {
	ar, br := A.NVecs(), B.NVecs()
	if F.NVecs() != ar+br {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.SetVec(i, A.Vec(i))
	}
	for i := 0; i < br; i++ {
		F.SetVec(ar+i, B.Vec(i))
	}
}

func (F *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(F.Dense))
}

// det returns the determinant of a 3x3 matrix. Panics otherwise.
func det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

type eigenpair struct {
	evecs *Matrix
	evals sort.Float64Slice
}

func (E eigenpair) Less(i, j int) bool { return E.evals[i] < E.evals[j] }
func (E eigenpair) Swap(i, j int) {
	E.evals.Swap(i, j)
	ri, rj := E.evecs.Vec(i), E.evecs.Vec(j)
	E.evecs.SetVec(i, rj)
	E.evecs.SetVec(j, ri)
}
func (E eigenpair) Len() int { return len(E.evals) }

// EigenWrap returns the eigenvectors (as rows, sorted ascending by
// eigenvalue) and eigenvalues of a symmetric 3x3 matrix, fixing the
// handedness of the eigenvector set so its determinant is positive.
func EigenWrap(in *Matrix, epsilon float64) (*Matrix, []float64, error) {
	if epsilon < 0 {
		epsilon = appzero
	}
	var sym mat.SymDense
	r, _ := in.Dims()
	data := make([]float64, r*r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			data[i*r+j] = in.At(i, j)
		}
	}
	sym = *mat.NewSymDense(r, data)
	var eig mat.EigenSym
	ok := eig.Factorize(&sym, true)
	if !ok {
		return nil, nil, Error{"eigendecomposition failed", []string{"EigenWrap"}, true}
	}
	evals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// gonum returns eigenvectors as columns; transpose to rows to match
	// the Matrix row-major vector convention used everywhere else.
	evecs := Zeros(r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			evecs.Set(i, j, vecs.At(j, i))
		}
	}
	eig2 := eigenpair{evecs, append(sort.Float64Slice{}, evals...)}
	sort.Sort(eig2)
	if det(eig2.evecs) < 0 {
		eig2.evecs.Scale(-1, eig2.evecs.Dense)
	}
	return eig2.evecs, eig2.evals, nil
}

const appzero = 1e-10

// Errors

type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

func (err Error) Decorate(dec string) []string {
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) Critical() bool { return err.critical }

// PanicMsg is used for panics that are programmer errors, not
// recoverable runtime conditions.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("v3: a Matrix used as a vector set should have 3 columns")
	ErrShape             = PanicMsg("v3: dimension mismatch")
	ErrDeterminant       = PanicMsg("v3: determinants are only available for 3x3 matrices")
	ErrIndexOutOfRange   = PanicMsg("v3: index out of range")
	ErrNotEnoughElements = PanicMsg("v3: not enough elements in Matrix")
)
