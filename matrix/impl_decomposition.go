// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Thin singular value decomposition (SVD) and its two consumers:
//     effective rank determination (SVDRank) and minimum-norm least squares
//     (LeastSquares).
//
// Backend:
//   - Factorization is delegated to gonum.org/v1/gonum/mat (pure-Go LAPACK,
//     single-threaded, deterministic for identical input). Everything around
//     it (truncation, pseudo-inverse products) runs on this package's kernels.
//
// Determinism & Policy:
//   - Singular values are returned in non-increasing order.
//   - Rank tolerance: s_max · max(rows, cols) · ε with ε = 2⁻⁵² (float64).
//     Values at or below the tolerance are noise.
//
// AI-Hints:
//   - Call Truncate(Rank()) to keep only the numerically meaningful triplets.
//   - LeastSquares reports the effective rank of the design; a rank below
//     Cols(A) means collinear columns were resolved by the minimum-norm rule.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	opSVD          = "SVD"
	opTruncate     = "SVD.Truncate"
	opLeastSquares = "LeastSquares"
)

// Epsilon is the float64 machine epsilon (2⁻⁵²) used by the rank tolerance.
const Epsilon = 0x1p-52

// SVDResult holds a thin decomposition M = U · diag(S) · Vᵀ.
//   - U: rows×k left singular vectors (columns orthonormal).
//   - S: k singular values, non-increasing.
//   - V: cols×k right singular vectors (columns orthonormal).
//
// rows/cols remember the shape of the factorized matrix for SVDRank.
type SVDResult struct {
	U *Dense
	S []float64
	V *Dense

	rows, cols int
}

// SVD computes the thin singular value decomposition of m.
//
// Implementation:
//   - Stage 1: Validate m (non-nil, non-empty, finite).
//   - Stage 2: Copy into a gonum Dense and factorize with mat.SVDThin.
//   - Stage 3: Copy U, S, V back into package-owned buffers.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidDimensions (zero-area input), ErrNaNInf, ErrSVDFailed.
//
// Complexity:
//   - Time O(r*c*min(r,c)), Space O(r*c).
func SVD(m Matrix) (*SVDResult, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSVD, err)
	}
	rows, cols := m.Rows(), m.Cols()
	if rows == 0 || cols == 0 {
		return nil, matrixErrorf(opSVD, ErrInvalidDimensions)
	}
	g, err := toGonum(m)
	if err != nil {
		return nil, matrixErrorf(opSVD, err)
	}

	var f mat.SVD
	if ok := f.Factorize(g, mat.SVDThin); !ok {
		return nil, matrixErrorf(opSVD, ErrSVDFailed)
	}

	var u, v mat.Dense
	f.UTo(&u)
	f.VTo(&v)

	return &SVDResult{
		U:    fromGonum(&u),
		S:    f.Values(nil),
		V:    fromGonum(&v),
		rows: rows,
		cols: cols,
	}, nil
}

// Rank returns the effective rank of the factorized matrix (see SVDRank).
func (s *SVDResult) Rank() int {
	return SVDRank(s.rows, s.cols, s.S)
}

// Truncate returns a new SVDResult keeping the first k triplets.
// k == 0 is legal and yields rows×0 and cols×0 factors.
//
// Errors:
//   - ErrRankOutOfRange when k < 0 or k > len(S).
func (s *SVDResult) Truncate(k int) (*SVDResult, error) {
	if k < 0 || k > len(s.S) {
		return nil, matrixErrorf(opTruncate, fmt.Errorf("k=%d of %d: %w", k, len(s.S), ErrRankOutOfRange))
	}
	sv := make([]float64, k)
	copy(sv, s.S[:k])

	return &SVDResult{
		U:    leadingCols(s.U, k),
		S:    sv,
		V:    leadingCols(s.V, k),
		rows: s.rows,
		cols: s.cols,
	}, nil
}

// RankTolerance returns s_max · max(rows, cols) · ε for the spectrum s.
// An empty spectrum has tolerance 0.
func RankTolerance(rows, cols int, s []float64) float64 {
	var sMax float64
	for _, v := range s {
		if v > sMax {
			sMax = v
		}
	}

	return sMax * float64(max(rows, cols)) * Epsilon
}

// SVDRank counts the singular values strictly greater than RankTolerance.
//
// Behavior highlights:
//   - An all-zero spectrum has rank 0 (tolerance 0, nothing strictly above it).
//   - NaN values never count.
//
// Determinism:
//   - Pure function of its inputs; no platform-dependent branches.
func SVDRank(rows, cols int, s []float64) int {
	tol := RankTolerance(rows, cols, s)
	rank := 0
	for _, v := range s {
		if v > tol && !math.IsNaN(v) {
			rank++
		}
	}

	return rank
}

// LeastSquares solves min ‖A·X − B‖_F and returns the minimum-norm solution
// X (Cols(A)×Cols(B)) together with the effective rank of A.
//
// Implementation:
//   - Stage 1: Validate A, B share the row count.
//   - Stage 2: Thin SVD of A; keep the SVDRank(A) leading triplets.
//   - Stage 3: X = V_k · diag(1/S_k) · U_kᵀ · B.
//
// Behavior highlights:
//   - Rank-deficient or collinear designs are resolved by the pseudo-inverse
//     (no error); rank 0 yields X = 0.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, SVD errors.
//
// Complexity:
//   - Time O(n*q*min(n,q) + n*q*m), Space O(n*q + q*m).
func LeastSquares(A, B Matrix) (*Dense, int, error) {
	if err := ValidateSameRows(A, B); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	full, err := SVD(A)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	rank := full.Rank()
	f, err := full.Truncate(rank)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}

	Ut, err := Transpose(f.U)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	T, err := Mul(Ut, B) // k×m
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	inv := make([]float64, rank)
	for i, s := range f.S {
		inv[i] = 1 / s
	}
	T, err = ewScaleRows(T, inv)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	X, err := Mul(f.V, T) // q×m
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}

	return X, rank, nil
}

// leadingCols copies the first k columns of d.
func leadingCols(d *Dense, k int) *Dense {
	out := &Dense{r: d.r, c: k, data: make([]float64, d.r*k), validateNaNInf: d.validateNaNInf}
	for i := 0; i < d.r; i++ {
		copy(out.data[i*k:(i+1)*k], d.data[i*d.c:i*d.c+k])
	}

	return out
}

// toGonum copies m into a gonum Dense, rejecting non-finite values.
func toGonum(m Matrix) (*mat.Dense, error) {
	rows, cols := m.Rows(), m.Cols()
	buf := make([]float64, rows*cols)
	var v float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxAt, i, j, ErrNaNInf)
			}
			buf[i*cols+j] = v
		}
	}

	return mat.NewDense(rows, cols, buf), nil
}

// fromGonum copies a gonum Dense into a package Dense.
func fromGonum(g *mat.Dense) *Dense {
	rows, cols := g.Dims()
	out := &Dense{r: rows, c: cols, data: make([]float64, rows*cols), validateNaNInf: DefaultValidateNaNInf}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[i*cols+j] = g.At(i, j)
		}
	}

	return out
}
