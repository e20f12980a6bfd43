package ordination

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ordina/matrix"
	"github.com/katalvlaran/ordina/table"
)

const opCCA = "ordination.CCA"

// CCA runs canonical correspondence analysis of the abundance table y
// (samples × features, non-negative counts) constrained by the explanatory
// table x (samples × constraints).
//
// Pipeline:
//   - Stage 1: Validate inputs (see errors.go for the priority order).
//   - Stage 2: Relative frequencies Q = Y/ΣY, marginals, chi-square residuals
//     Q̄ = (Q − E)/√E with E = rowMarginals ⊗ colMarginals.
//   - Stage 3: Standardize X with the row marginals as weights (ddof 0),
//     weight rows by √rowMarginals, regress Q̄ on it (minimum-norm least
//     squares) to get the fitted table Ŷ and the residual Q̄ − Ŷ.
//   - Stage 4: Truncated SVD of Ŷ (constrained axes) and of the residual
//     (unconstrained axes).
//   - Stage 5: Coordinates per scaling, biplot scores, eigenvalues.
//
// Result shape, with k = fitted rank + residual rank:
//   - Samples, SampleConstraints: samples × k (rows labelled by y's rows).
//   - Features: features × k (rows labelled by y's columns).
//   - BiplotScores: constraints × fitted rank (rows labelled by x's columns).
//   - Eigenvalues, ProportionExplained: length k.
//
// Collinear constraints are not rejected: the minimum-norm solution is used
// and the fitted rank drops accordingly.
//
// Errors:
//   - ErrNilTable, ErrRowCountMismatch, ErrNegativeAbundance,
//     ErrDegenerateSampleRow, ErrUnsupportedScaling,
//     ErrDegenerateFeatureColumn, ErrNumericDegeneracy.
//   - Wrapped matrix errors if a factorization fails.
//
// Determinism:
//   - Identical inputs produce bit-identical results.
func CCA(y, x *table.Table, scaling Scaling, opts ...Option) (*Results, error) {
	o := gatherOptions(opts...)

	if err := validateInputs(y, x, scaling); err != nil {
		return nil, err
	}
	Y, X := y.Matrix(), x.Matrix()

	// Stage 2: chi-square residuals.
	total, err := matrix.Total(Y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	Q, err := matrix.Scale(Y, 1/total)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	rowM, err := matrix.RowSums(Q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	colM, err := matrix.ColSums(Q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	qbar, err := chiSquareResiduals(Q, rowM, colM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	inertia := frobeniusSq(qbar)
	o.logger.Debug().
		Float64("total", total).
		Float64("inertia", inertia).
		Int("samples", y.Rows()).
		Int("features", y.Cols()).
		Int("constraints", x.Cols()).
		Msg("cca: chi-square residuals")

	// Stage 3: weighted regression of Q̄ on the constraints.
	Xs, _, _, err := matrix.WeightedScale(X, rowM, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	Xw, err := matrix.ScaleRows(Xs, sqrtAll(rowM))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	B, lsRank, err := matrix.LeastSquares(Xw, qbar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	yHat, err := matrix.Mul(Xw, B)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}
	yRes, err := matrix.Sub(qbar, yHat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCCA, err)
	}

	// Stage 4: constrained and unconstrained decompositions.
	fit, err := decompose(yHat, qbar, true)
	if err != nil {
		return nil, fmt.Errorf("%s: fitted: %w", opCCA, err)
	}
	res, err := decompose(yRes, yRes, false)
	if err != nil {
		return nil, fmt.Errorf("%s: residual: %w", opCCA, err)
	}
	o.logger.Debug().
		Int("design_rank", lsRank).
		Int("fitted_rank", fit.rank()).
		Int("residual_rank", res.rank()).
		Msg("cca: decompositions")
	if fit.rank()+res.rank() == 0 {
		return nil, fmt.Errorf("%s: %w", opCCA, ErrNumericDegeneracy)
	}

	// Stage 5: coordinates.
	m := marginals{rowInvSqrt: invSqrtAll(rowM), colInvSqrt: invSqrtAll(colM)}
	features, err := scorePair(roleFeature, roleFeature, scaling, fit, res, m)
	if err != nil {
		return nil, fmt.Errorf("%s: features: %w", opCCA, err)
	}
	samples, err := scorePair(roleSample, roleSample, scaling, fit, res, m)
	if err != nil {
		return nil, fmt.Errorf("%s: samples: %w", opCCA, err)
	}
	constraints, err := scorePair(roleConstraint, roleSample, scaling, fit, res, m)
	if err != nil {
		return nil, fmt.Errorf("%s: sample constraints: %w", opCCA, err)
	}
	biplot, err := matrix.CrossCorrelation(Xw, fit.left)
	if err != nil {
		return nil, fmt.Errorf("%s: biplot: %w", opCCA, err)
	}

	eig := make([]float64, 0, fit.rank()+res.rank())
	for _, s := range fit.s {
		eig = append(eig, s*s)
	}
	for _, s := range res.s {
		eig = append(eig, s*s)
	}

	return buildResults(y, x, scaling, eig, fit.rank(), res.rank(), samples, features, biplot, constraints)
}

// validateInputs enforces the documented error priority.
func validateInputs(y, x *table.Table, scaling Scaling) error {
	if y == nil || x == nil {
		return fmt.Errorf("%s: %w", opCCA, ErrNilTable)
	}
	if y.Rows() != x.Rows() {
		return fmt.Errorf("%s: %d abundance rows, %d constraint rows: %w", opCCA, y.Rows(), x.Rows(), ErrRowCountMismatch)
	}

	Y := y.Matrix()
	rows := Y.Rows()
	labels := y.RowLabels()
	var negErr error
	Y.Do(func(i, _ int, v float64) bool {
		if v < 0 {
			negErr = fmt.Errorf("%s: sample %q value %g: %w", opCCA, labels[i], v, ErrNegativeAbundance)
			return false
		}
		return true
	})
	if negErr != nil {
		return negErr
	}

	rowSum, _ := matrix.RowSums(Y)
	for i := 0; i < rows; i++ {
		if rowSum[i] == 0 {
			return fmt.Errorf("%s: sample %q: %w", opCCA, labels[i], ErrDegenerateSampleRow)
		}
	}
	if !scaling.Valid() {
		return fmt.Errorf("%s: %v: %w", opCCA, scaling, ErrUnsupportedScaling)
	}
	colSum, _ := matrix.ColSums(Y)
	features := y.ColLabels()
	for j, s := range colSum {
		if s == 0 {
			return fmt.Errorf("%s: feature %q: %w", opCCA, features[j], ErrDegenerateFeatureColumn)
		}
	}

	return nil
}

// chiSquareResiduals returns (Q − E)/√E with E = rowM ⊗ colM.
func chiSquareResiduals(Q *matrix.Dense, rowM, colM []float64) (*matrix.Dense, error) {
	expected, err := matrix.Outer(rowM, colM)
	if err != nil {
		return nil, err
	}
	qbar, err := matrix.Sub(Q, expected)
	if err != nil {
		return nil, err
	}
	err = qbar.Apply(func(i, j int, v float64) float64 {
		e, _ := expected.At(i, j) // same shape as qbar
		return v / math.Sqrt(e)
	})
	if err != nil {
		return nil, err
	}

	return qbar, nil
}

// decompose factorizes t, keeps its numerically meaningful axes and projects
// src onto them: uHat = src · U / s. withProj also records t · U, the
// linear-combination scores of the fitted block.
func decompose(t, src *matrix.Dense, withProj bool) (*block, error) {
	full, err := matrix.SVD(t)
	if err != nil {
		return nil, err
	}
	f, err := full.Truncate(full.Rank())
	if err != nil {
		return nil, err
	}

	b := &block{u: f.V, left: f.U, s: f.S}
	proj, err := matrix.Mul(src, f.V)
	if err != nil {
		return nil, err
	}
	if b.uHat, err = matrix.ScaleCols(proj, reciprocal(f.S)); err != nil {
		return nil, err
	}
	if withProj {
		if b.proj, err = matrix.Mul(t, f.V); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// scorePair computes the fitted block with role fr and the residual block
// with role rr, and concatenates them column-wise.
func scorePair(fr, rr role, s Scaling, fit, res *block, m marginals) (*matrix.Dense, error) {
	a, err := score(fr, s, fit, m)
	if err != nil {
		return nil, err
	}
	b, err := score(rr, s, res, m)
	if err != nil {
		return nil, err
	}

	return matrix.HConcat(a, b)
}

// buildResults labels the coordinate matrices and assembles Results.
func buildResults(
	y, x *table.Table,
	scaling Scaling,
	eig []float64,
	fittedRank, residualRank int,
	samples, features, biplot, constraints *matrix.Dense,
) (*Results, error) {
	axes := axisLabels(len(eig))

	st, err := table.New(y.RowLabels(), axes, samples)
	if err != nil {
		return nil, fmt.Errorf("%s: samples: %w", opCCA, err)
	}
	ft, err := table.New(y.ColLabels(), axes, features)
	if err != nil {
		return nil, fmt.Errorf("%s: features: %w", opCCA, err)
	}
	bt, err := table.New(x.ColLabels(), axes[:fittedRank], biplot)
	if err != nil {
		return nil, fmt.Errorf("%s: biplot: %w", opCCA, err)
	}
	ct, err := table.New(y.RowLabels(), axes, constraints)
	if err != nil {
		return nil, fmt.Errorf("%s: sample constraints: %w", opCCA, err)
	}

	var sum float64
	for _, e := range eig {
		sum += e
	}
	prop := make([]float64, len(eig))
	for i, e := range eig {
		prop[i] = e / sum
	}

	return &Results{
		method:       methodCCA,
		description:  descriptionCCA,
		scaling:      scaling,
		eigenvalues:  eig,
		proportion:   prop,
		samples:      st,
		features:     ft,
		biplot:       bt,
		constraints:  ct,
		fittedRank:   fittedRank,
		residualRank: residualRank,
	}, nil
}

func sqrtAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Sqrt(x)
	}

	return out
}

func invSqrtAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = 1 / math.Sqrt(x)
	}

	return out
}

// frobeniusSq returns Σ m[i,j]², the total inertia of a residual table.
func frobeniusSq(m *matrix.Dense) float64 {
	var s float64
	for _, v := range m.Values() {
		s += v * v
	}

	return s
}
