package ordination

import "errors"

// Sentinel errors returned by CCA. Match them with errors.Is; the returned
// error carries the detection context (row/column label, offending value).
//
// ERROR PRIORITY (checked in this order, first failure wins):
// nil input -> row count -> negative abundance -> degenerate sample row
// -> unsupported scaling -> degenerate feature column -> numeric degeneracy.
var (
	// ErrNilTable indicates that the abundance or the constraint table is nil.
	ErrNilTable = errors.New("ordination: nil input table")

	// ErrRowCountMismatch indicates that the abundance and constraint tables
	// disagree on the number of samples.
	ErrRowCountMismatch = errors.New("ordination: abundance and constraint tables must have the same number of rows")

	// ErrNegativeAbundance indicates a negative entry in the abundance table.
	ErrNegativeAbundance = errors.New("ordination: abundance table must be non-negative")

	// ErrDegenerateSampleRow indicates a sample whose abundances are all zero.
	ErrDegenerateSampleRow = errors.New("ordination: abundance table cannot contain a row of only zeros")

	// ErrUnsupportedScaling indicates a scaling other than 1 or 2.
	ErrUnsupportedScaling = errors.New("ordination: unsupported scaling")

	// ErrDegenerateFeatureColumn indicates a feature absent from every sample;
	// its expected frequency is zero and the chi-square residual is undefined.
	ErrDegenerateFeatureColumn = errors.New("ordination: abundance table cannot contain a column of only zeros")

	// ErrNumericDegeneracy indicates that neither the fitted nor the residual
	// decomposition retained an axis.
	ErrNumericDegeneracy = errors.New("ordination: decomposition retained no axis")
)
