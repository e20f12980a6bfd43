package ordination

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/ordina/table"
)

const (
	methodCCA      = "CCA"
	descriptionCCA = "Canonical Correspondence Analysis"
	axisPrefix     = "CCA"
)

// Results is the immutable output of an ordination.
//
// Fitted (constrained) axes come first, followed by residual (unconstrained)
// axes; axes are labelled CCA1..CCAk in that order. Every accessor returns
// either a copy or an immutable *table.Table, so a Results value can be shared
// freely between goroutines.
type Results struct {
	method       string
	description  string
	scaling      Scaling
	eigenvalues  []float64
	proportion   []float64
	samples      *table.Table
	features     *table.Table
	biplot       *table.Table
	constraints  *table.Table
	fittedRank   int
	residualRank int
}

// Method returns the short method name ("CCA").
func (r *Results) Method() string { return r.method }

// Description returns the long method name.
func (r *Results) Description() string { return r.description }

// Scaling returns the scaling the coordinates were computed with.
func (r *Results) Scaling() Scaling { return r.scaling }

// Eigenvalues returns the squared singular values, fitted block then residual block.
func (r *Results) Eigenvalues() []float64 { return append([]float64(nil), r.eigenvalues...) }

// ProportionExplained returns Eigenvalues normalized to sum to one.
func (r *Results) ProportionExplained() []float64 { return append([]float64(nil), r.proportion...) }

// Samples returns the site scores: samples × axes.
func (r *Results) Samples() *table.Table { return r.samples }

// Features returns the species scores: features × axes.
func (r *Results) Features() *table.Table { return r.features }

// BiplotScores returns the correlation of every constraint with every fitted axis.
func (r *Results) BiplotScores() *table.Table { return r.biplot }

// SampleConstraints returns the site scores expressed as linear combinations
// of the constraints (fitted axes) followed by the residual site scores.
func (r *Results) SampleConstraints() *table.Table { return r.constraints }

// FittedRank returns the number of constrained axes.
func (r *Results) FittedRank() int { return r.fittedRank }

// ResidualRank returns the number of unconstrained axes.
func (r *Results) ResidualRank() int { return r.residualRank }

// AxisLabels returns CCA1..CCAk for all retained axes.
func (r *Results) AxisLabels() []string { return r.samples.ColLabels() }

// String summarizes the result the way an interactive session would print it.
func (r *Results) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ordination results:\n")
	fmt.Fprintf(&b, "\tMethod: %s (%s)\n", r.description, r.method)
	fmt.Fprintf(&b, "\tScaling: %d\n", int(r.scaling))
	fmt.Fprintf(&b, "\tEigvals: %d (fitted %d, residual %d)\n", len(r.eigenvalues), r.fittedRank, r.residualRank)
	fmt.Fprintf(&b, "\tProportion explained: %d\n", len(r.proportion))
	fmt.Fprintf(&b, "\tFeatures: %dx%d\n", r.features.Rows(), r.features.Cols())
	fmt.Fprintf(&b, "\tSamples: %dx%d\n", r.samples.Rows(), r.samples.Cols())
	fmt.Fprintf(&b, "\tBiplot Scores: %dx%d\n", r.biplot.Rows(), r.biplot.Cols())
	fmt.Fprintf(&b, "\tSample constraints: %dx%d\n", r.constraints.Rows(), r.constraints.Cols())
	fmt.Fprintf(&b, "\tFeature IDs: %s\n", summarizeIDs(r.features.RowLabels()))
	fmt.Fprintf(&b, "\tSample IDs: %s", summarizeIDs(r.samples.RowLabels()))

	return b.String()
}

// summarizeIDs quotes up to three leading and trailing identifiers.
func summarizeIDs(ids []string) string {
	quote := func(in []string) string {
		q := make([]string, len(in))
		for i, s := range in {
			q[i] = fmt.Sprintf("'%s'", s)
		}
		return strings.Join(q, ", ")
	}
	if len(ids) <= 6 {
		return quote(ids)
	}

	return quote(ids[:3]) + ", ..., " + quote(ids[len(ids)-3:])
}

// axisLabels returns prefix1..prefixk.
func axisLabels(k int) []string {
	out := make([]string, k)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", axisPrefix, i+1)
	}

	return out
}
