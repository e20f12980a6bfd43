// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the statistical transforms the ordination pipeline relies on:
//     marginal sums, weighted column standardization and cross-correlation.
//   - Express them as deterministic compositions over canonical kernels
//     (Mul/Transpose) and ew* micro-kernels.
//
// Exposed API:
//   - RowSums(X), ColSums(X), Total(X)       // fixed-order sums
//   - WeightedMeanStd(X, w, ddof)            // per-column weighted mean & std
//   - WeightedScale(X, w, ddof)              // (X - mean) / std, std==0 → 1
//   - Standardize(X)                         // uniform-weight WeightedScale, ddof 0
//   - CrossCorrelation(X, Y)                 // Pearson corr of columns of X vs columns of Y
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At and operate on row-major flat buffers.

package matrix

import "math"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opRowSums          = "RowSums"
	opColSums          = "ColSums"
	opTotal            = "Total"
	opWeightedMeanStd  = "WeightedMeanStd"
	opWeightedScale    = "WeightedScale"
	opCrossCorrelation = "CrossCorrelation"
)

// RowSums returns r where r[i] = Σ_j X[i,j], summed in ascending j.
// Errors: ErrNilMatrix, wrapped At errors. Complexity: O(r*c).
func RowSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	r, c := X.Rows(), X.Cols()
	sums := make([]float64, r)
	var v float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(opRowSums, err)
			}
			sums[i] += v
		}
	}

	return sums, nil
}

// ColSums returns c where c[j] = Σ_i X[i,j], summed in ascending i.
// Errors: ErrNilMatrix, wrapped At errors. Complexity: O(r*c).
func ColSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	r, c := X.Rows(), X.Cols()
	sums := make([]float64, c)
	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				sums[j] += d.data[base+j]
			}
		}
		return sums, nil
	}
	var v float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(opColSums, err)
			}
			sums[j] += v
		}
	}

	return sums, nil
}

// Total returns Σ_ij X[i,j] in row-major order.
func Total(X Matrix) (float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return 0, matrixErrorf(opTotal, err)
	}
	var s, v float64
	var err error
	r, c := X.Rows(), X.Cols()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return 0, matrixErrorf(opTotal, err)
			}
			s += v
		}
	}

	return s, nil
}

// WeightedMeanStd computes per-column weighted means and standard deviations.
//
//	mean[j] = Σ_i w[i]·X[i,j] / Σ_i w[i]
//	var[j]  = Σ_i w[i]·(X[i,j]-mean[j])² / Σ_i w[i]      (ddof == 0)
//	var[j] *= Σw / (Σw - ddof)                          (ddof != 0)
//
// Implementation:
//   - Stage 1: Validate X, len(w) == Rows(X), finite w, Σw - ddof > 0.
//   - Stage 2: Accumulate weighted sums and per-column min/max in one pass.
//   - Stage 3: Constant columns take their value as the exact mean (no rounding drift).
//   - Stage 4: Second pass for the weighted squared deviations.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (weights), ErrDegenerateWeights.
//
// Determinism:
//   - Fixed i→j accumulation order.
//
// Complexity:
//   - Time O(r*c), Space O(c).
//
// Notes:
//   - ddof = 0 is the maximum-likelihood (population) estimator.
func WeightedMeanStd(X Matrix, w []float64, ddof float64) (means, stds []float64, err error) {
	if err = ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opWeightedMeanStd, err)
	}
	r, c := X.Rows(), X.Cols()
	if err = ValidateVecLen(w, r); err != nil {
		return nil, nil, matrixErrorf(opWeightedMeanStd, err)
	}
	if err = ValidateFiniteVec(w); err != nil {
		return nil, nil, matrixErrorf(opWeightedMeanStd, err)
	}

	var sumW float64
	for _, wi := range w {
		sumW += wi
	}
	if sumW == 0 || sumW-ddof <= 0 {
		return nil, nil, matrixErrorf(opWeightedMeanStd, ErrDegenerateWeights)
	}

	// Stage 2: weighted sums and range per column.
	means = make([]float64, c)
	lo := make([]float64, c)
	hi := make([]float64, c)
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, nil, matrixErrorf(opWeightedMeanStd, err)
			}
			means[j] += w[i] * v
			if i == 0 || v < lo[j] {
				lo[j] = v
			}
			if i == 0 || v > hi[j] {
				hi[j] = v
			}
		}
	}
	for j := 0; j < c; j++ {
		if r > 0 && lo[j] == hi[j] {
			means[j] = lo[j] // constant column: exact mean
			continue
		}
		means[j] /= sumW
	}

	// Stage 4: weighted squared deviations.
	stds = make([]float64, c)
	var d float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, nil, matrixErrorf(opWeightedMeanStd, err)
			}
			d = v - means[j]
			stds[j] += w[i] * d * d
		}
	}
	for j := 0; j < c; j++ {
		variance := stds[j] / sumW
		if ddof != 0 {
			variance *= sumW / (sumW - ddof)
		}
		stds[j] = math.Sqrt(variance)
	}

	return means, stds, nil
}

// WeightedScale centers each column by its weighted mean and divides by its
// weighted standard deviation. Columns with zero deviation are centered only.
//
// Returns:
//   - *Dense: standardized copy (r×c).
//   - []float64: weighted means; []float64: weighted stds (0 is reported as computed).
//
// Errors:
//   - Same as WeightedMeanStd.
//
// AI-Hints:
//   - CCA standardizes constraints with the row marginals as weights and ddof = 0.
func WeightedScale(X Matrix, w []float64, ddof float64) (*Dense, []float64, []float64, error) {
	means, stds, err := WeightedMeanStd(X, w, ddof)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opWeightedScale, err)
	}
	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opWeightedScale, err)
	}
	inv := make([]float64, len(stds))
	for j, s := range stds {
		if s == 0 {
			inv[j] = 1
			continue
		}
		inv[j] = 1 / s
	}
	Z, err := ewScaleCols(Xc, inv)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opWeightedScale, err)
	}

	return Z, means, stds, nil
}

// Standardize is WeightedScale with uniform unit weights and ddof = 0.
func Standardize(X Matrix) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opWeightedScale, err)
	}
	w := make([]float64, X.Rows())
	for i := range w {
		w[i] = 1
	}
	Z, _, _, err := WeightedScale(X, w, 0)

	return Z, err
}

// CrossCorrelation returns the Cols(X)×Cols(Y) matrix of Pearson correlations
// between every column of X and every column of Y:
//
//	Corr = Standardize(X)ᵀ · Standardize(Y) / n
//
// Behavior highlights:
//   - Population variance (ddof 0) on both sides, so the diagonal of
//     CrossCorrelation(X, X) is 1 for non-constant columns.
//   - Constant columns standardize to zero and correlate as 0.
//   - Y may have zero columns; the result is then Cols(X)×0.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (row counts differ), ErrDegenerateWeights (n == 0).
//
// Complexity:
//   - Time O(n*(p+q) + n*p*q), Space O(n*(p+q) + p*q).
func CrossCorrelation(X, Y Matrix) (*Dense, error) {
	if err := ValidateSameRows(X, Y); err != nil {
		return nil, matrixErrorf(opCrossCorrelation, err)
	}
	n := X.Rows()
	Zx, err := Standardize(X)
	if err != nil {
		return nil, matrixErrorf(opCrossCorrelation, err)
	}
	Zy, err := Standardize(Y)
	if err != nil {
		return nil, matrixErrorf(opCrossCorrelation, err)
	}
	Zxt, err := Transpose(Zx)
	if err != nil {
		return nil, matrixErrorf(opCrossCorrelation, err)
	}
	G, err := Mul(Zxt, Zy)
	if err != nil {
		return nil, matrixErrorf(opCrossCorrelation, err)
	}

	return Scale(G, 1.0/float64(n))
}
