// Package ordination implements canonical correspondence analysis (CCA), a
// constrained ordination of a samples × features abundance table against a
// samples × constraints explanatory table.
//
// What:
//
//   - CCA(y, x, scaling) decomposes the chi-square residuals of y into the
//     part explained by a weighted linear regression on x (constrained axes)
//     and the remainder (unconstrained axes), and returns a Results value
//     with sample, feature, biplot and sample-constraint coordinates.
//
// Why:
//
//   - Ordination places samples and features in a low-dimensional space so
//     that gradients in community composition can be related to measured
//     environmental variables.
//
// Scaling:
//
//   - Scaling1 preserves distances between samples; Scaling2 preserves
//     distances between features. The two differ only by a per-axis factor
//     equal to the singular value.
//
// Axes:
//
//   - Fitted axes come first, then residual axes. Within each block the
//     eigenvalues are non-increasing; across the boundary they are not
//     ordered.
//
// Determinism:
//
//   - No randomness, no map iteration in numeric paths: identical inputs give
//     bit-identical outputs.
//
// Errors:
//
//   - ErrNilTable, ErrRowCountMismatch, ErrNegativeAbundance,
//     ErrDegenerateSampleRow, ErrUnsupportedScaling,
//     ErrDegenerateFeatureColumn, ErrNumericDegeneracy.
//
// See: ExampleCCA in example_test.go.
package ordination
