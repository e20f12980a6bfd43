package ordination

import (
	"fmt"

	"github.com/katalvlaran/ordina/matrix"
)

// Scaling selects how variance is distributed between sample and feature
// coordinates.
//
//   - Scaling1 preserves chi-square distances between samples (rows).
//   - Scaling2 preserves chi-square distances between features (columns).
//
// The two conventions differ only by a per-axis factor of the singular value.
type Scaling int

const (
	// Scaling1 preserves chi-square distances between samples.
	Scaling1 Scaling = 1
	// Scaling2 preserves chi-square distances between features.
	Scaling2 Scaling = 2
)

// Valid reports whether s is Scaling1 or Scaling2.
func (s Scaling) Valid() bool { return s == Scaling1 || s == Scaling2 }

// String implements fmt.Stringer.
func (s Scaling) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Scaling(%d)", int(s))
	}

	return fmt.Sprintf("scaling %d", int(s))
}

// role names one family of coordinates produced from a decomposition block.
type role int

const (
	roleFeature    role = iota // species scores, one row per feature
	roleSample                 // site scores, one row per sample
	roleConstraint             // site scores as linear combinations of constraints
	roleCount
)

// block is one truncated singular value decomposition of the pipeline: the
// fitted table Ŷ or the residual table Y_res.
type block struct {
	u    *matrix.Dense // right singular vectors, features×k
	uHat *matrix.Dense // row-space counterpart, samples×k
	left *matrix.Dense // left singular vectors, samples×k
	proj *matrix.Dense // decomposed table · u, samples×k (fitted block only)
	s    []float64     // k singular values, non-increasing
}

// rank returns the number of retained axes.
func (b *block) rank() int { return len(b.s) }

// marginals holds the inverse square roots of the contingency-table weights.
type marginals struct {
	rowInvSqrt []float64 // len = samples
	colInvSqrt []float64 // len = features
}

// scoreFunc derives one coordinate family from a block.
type scoreFunc func(b *block, m marginals) (*matrix.Dense, error)

// scoreTable is indexed by [role][scaling-1].
//
//	feature    S1 = col^-½ ⊙ U           S2 = S1 · s
//	sample     S1 = S2 · s               S2 = row^-½ ⊙ U_hat
//	constraint S1 = row^-½ ⊙ (T·U)       S2 = S1 / s
var scoreTable = [roleCount][2]scoreFunc{
	roleFeature:    {featureScores, timesS(featureScores)},
	roleSample:     {timesS(sampleScores), sampleScores},
	roleConstraint: {constraintScores, overS(constraintScores)},
}

// score looks up and evaluates the (role, scaling) entry of scoreTable.
func score(r role, s Scaling, b *block, m marginals) (*matrix.Dense, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("score: %v: %w", s, ErrUnsupportedScaling)
	}

	return scoreTable[r][int(s)-1](b, m)
}

func featureScores(b *block, m marginals) (*matrix.Dense, error) {
	return matrix.ScaleRows(b.u, m.colInvSqrt)
}

func sampleScores(b *block, m marginals) (*matrix.Dense, error) {
	return matrix.ScaleRows(b.uHat, m.rowInvSqrt)
}

func constraintScores(b *block, m marginals) (*matrix.Dense, error) {
	return matrix.ScaleRows(b.proj, m.rowInvSqrt)
}

// timesS multiplies every axis of f's output by its singular value.
func timesS(f scoreFunc) scoreFunc {
	return func(b *block, m marginals) (*matrix.Dense, error) {
		x, err := f(b, m)
		if err != nil {
			return nil, err
		}
		return matrix.ScaleCols(x, b.s)
	}
}

// overS divides every axis of f's output by its singular value.
// Retained singular values are strictly above the rank tolerance, so never zero.
func overS(f scoreFunc) scoreFunc {
	return func(b *block, m marginals) (*matrix.Dense, error) {
		x, err := f(b, m)
		if err != nil {
			return nil, err
		}
		return matrix.ScaleCols(x, reciprocal(b.s))
	}
}

func reciprocal(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = 1 / x
	}

	return out
}
