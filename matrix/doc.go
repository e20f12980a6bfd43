// Package matrix provides the dense numerical kernels behind the ordination
// engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and an
//     optional finite-only numeric policy.
//   - Products and element-wise kernels (Mul, Transpose, Add, Sub, Scale,
//     ScaleRows, ScaleCols, HConcat, Outer).
//   - Weighted statistics: WeightedMeanStd, WeightedScale and
//     CrossCorrelation (Pearson correlation between the columns of two
//     tables).
//   - Thin singular value decomposition (SVD), minimum-norm least squares
//     (LeastSquares) and tolerance-based effective rank (SVDRank).
//
// All loops run in a fixed i→j order, so identical inputs always produce
// bit-identical outputs. The SVD is delegated to gonum's pure-Go LAPACK.
package matrix
