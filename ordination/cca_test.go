package ordination_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/ordina/ordination"
	"github.com/katalvlaran/ordina/table"
)

const tol = 1e-10

var (
	sampleIDs  = []string{"s1", "s2", "s3", "s4", "s5"}
	featureIDs = []string{"f1", "f2", "f3", "f4"}
)

// abundance is a 5×4 community table with two informative constraints.
var abundance = [][]float64{
	{6, 12, 5, 11},
	{2, 4, 4, 7},
	{3, 9, 5, 7},
	{6, 1, 10, 4},
	{5, 6, 5, 6},
}

var environment = [][]float64{
	{7.5, 1.0},
	{9.5, 8.5},
	{2.5, 0.0},
	{4.5, 8.5},
	{1.5, 6.5},
}

// Squared singular values of the fitted block followed by the residual block.
var wantEigenvalues = []float64{
	0.06973688720026341, 0.00736420481903179,
	0.048458853859086604, 0.007748260650881431,
}

func mustTable(t *testing.T, rows, cols []string, data [][]float64) *table.Table {
	t.Helper()
	tb, err := table.FromRows(rows, cols, data)
	require.NoError(t, err)

	return tb
}

func mustRows(t *testing.T, tb *table.Table) [][]float64 {
	t.Helper()
	out := make([][]float64, tb.Rows())
	for i := range out {
		row, err := tb.Row(i)
		require.NoError(t, err)
		out[i] = row
	}

	return out
}

// chiSquareInertia computes Σ (q−e)²/e directly from the counts.
func chiSquareInertia(y [][]float64) float64 {
	var total float64
	rs := make([]float64, len(y))
	cs := make([]float64, len(y[0]))
	for i, row := range y {
		for j, v := range row {
			total += v
			rs[i] += v
			cs[j] += v
		}
	}
	var sum float64
	for i, row := range y {
		for j, v := range row {
			e := rs[i] * cs[j] / (total * total)
			d := v/total - e
			sum += d * d / e
		}
	}

	return sum
}

// CCASuite runs the analysis on a fixed community/environment pair.
type CCASuite struct {
	suite.Suite
	y, x   *table.Table
	r1, r2 *ordination.Results
}

func (s *CCASuite) SetupTest() {
	t := s.T()
	s.y = mustTable(t, sampleIDs, featureIDs, abundance)
	s.x = mustTable(t, sampleIDs, []string{"ph", "depth"}, environment)

	var err error
	s.r1, err = ordination.CCA(s.y, s.x, ordination.Scaling1)
	require.NoError(t, err)
	s.r2, err = ordination.CCA(s.y, s.x, ordination.Scaling2)
	require.NoError(t, err)
}

// TestShapes checks every block against the retained rank and the input labels.
func (s *CCASuite) TestShapes() {
	t := s.T()
	for _, r := range []*ordination.Results{s.r1, s.r2} {
		k := len(r.Eigenvalues())
		require.Equal(t, r.FittedRank()+r.ResidualRank(), k)
		require.Equal(t, 2, r.FittedRank())
		require.Equal(t, 2, r.ResidualRank())

		require.Equal(t, 5, r.Samples().Rows())
		require.Equal(t, k, r.Samples().Cols())
		require.Equal(t, 4, r.Features().Rows())
		require.Equal(t, k, r.Features().Cols())
		require.Equal(t, 5, r.SampleConstraints().Rows())
		require.Equal(t, k, r.SampleConstraints().Cols())
		require.Equal(t, 2, r.BiplotScores().Rows())
		require.Equal(t, r.FittedRank(), r.BiplotScores().Cols())
		require.Len(t, r.ProportionExplained(), k)

		require.Equal(t, sampleIDs, r.Samples().RowLabels())
		require.Equal(t, sampleIDs, r.SampleConstraints().RowLabels())
		require.Equal(t, featureIDs, r.Features().RowLabels())
		require.Equal(t, []string{"ph", "depth"}, r.BiplotScores().RowLabels())
		require.Equal(t, []string{"CCA1", "CCA2", "CCA3", "CCA4"}, r.AxisLabels())
		require.Equal(t, []string{"CCA1", "CCA2"}, r.BiplotScores().ColLabels())

		require.Equal(t, "CCA", r.Method())
		require.Equal(t, "Canonical Correspondence Analysis", r.Description())
	}
	require.Equal(t, ordination.Scaling1, s.r1.Scaling())
	require.Equal(t, ordination.Scaling2, s.r2.Scaling())
}

// TestEigenvalues compares against independently computed values.
func (s *CCASuite) TestEigenvalues() {
	require.InDeltaSlice(s.T(), wantEigenvalues, s.r1.Eigenvalues(), tol)
	require.Equal(s.T(), s.r1.Eigenvalues(), s.r2.Eigenvalues(), "eigenvalues do not depend on scaling")
}

// TestBlockOrdering checks the per-block ordering and the rank bound.
func (s *CCASuite) TestBlockOrdering() {
	t := s.T()
	eig := s.r1.Eigenvalues()
	fr := s.r1.FittedRank()
	for i := 1; i < fr; i++ {
		require.GreaterOrEqual(t, eig[i-1], eig[i], "fitted block must be non-increasing")
	}
	for i := fr + 1; i < len(eig); i++ {
		require.GreaterOrEqual(t, eig[i-1], eig[i], "residual block must be non-increasing")
	}
	for _, v := range eig {
		require.LessOrEqual(t, v, eig[0], "first axis carries the largest eigenvalue")
	}
	// Correspondence-analysis bound per block: 5 samples, 4 features, 2 constraints.
	require.LessOrEqual(t, s.r1.FittedRank(), 2)
	require.LessOrEqual(t, s.r1.ResidualRank(), 3)
	// This fixture has a residual axis larger than the second fitted axis.
	require.Greater(t, eig[2], eig[1])
}

// TestInertia checks that the eigenvalues partition the total chi-square inertia.
func (s *CCASuite) TestInertia() {
	var sum float64
	for _, v := range s.r1.Eigenvalues() {
		sum += v
	}
	require.InDelta(s.T(), chiSquareInertia(abundance), sum, tol)

	var p float64
	for _, v := range s.r1.ProportionExplained() {
		require.GreaterOrEqual(s.T(), v, 0.0)
		p += v
	}
	require.InDelta(s.T(), 1.0, p, tol)
}

// TestScalingDuality relates both scalings through the singular values.
func (s *CCASuite) TestScalingDuality() {
	t := s.T()
	eig := s.r1.Eigenvalues()
	fr := s.r1.FittedRank()
	sv := make([]float64, len(eig))
	for i, e := range eig {
		sv[i] = math.Sqrt(e)
	}

	site1, site2 := mustRows(t, s.r1.Samples()), mustRows(t, s.r2.Samples())
	for i := range site1 {
		for k := range sv {
			require.InDelta(t, site2[i][k]*sv[k], site1[i][k], tol, "site (%d,%d)", i, k)
		}
	}
	sp1, sp2 := mustRows(t, s.r1.Features()), mustRows(t, s.r2.Features())
	for i := range sp1 {
		for k := range sv {
			require.InDelta(t, sp1[i][k]*sv[k], sp2[i][k], tol, "species (%d,%d)", i, k)
		}
	}
	c1, c2 := mustRows(t, s.r1.SampleConstraints()), mustRows(t, s.r2.SampleConstraints())
	for i := range c1 {
		for k := 0; k < fr; k++ {
			require.InDelta(t, c2[i][k]*sv[k], c1[i][k], tol, "constraint (%d,%d)", i, k)
		}
		// Residual columns reuse the residual site scores of the same scaling.
		for k := fr; k < len(sv); k++ {
			require.Equal(t, site1[i][k], c1[i][k])
			require.Equal(t, site2[i][k], c2[i][k])
		}
	}
}

// TestBiplotIsCorrelation checks that biplot scores are bounded correlations
// independent of the scaling.
func (s *CCASuite) TestBiplotIsCorrelation() {
	t := s.T()
	b1, b2 := mustRows(t, s.r1.BiplotScores()), mustRows(t, s.r2.BiplotScores())
	require.Equal(t, b1, b2)
	for _, row := range b1 {
		for _, v := range row {
			require.LessOrEqual(t, math.Abs(v), 1+tol)
		}
	}
}

// TestFeatureScoresWeightedOrthonormal checks Σ_j c_j·F[j,a]·F[j,b] = δ_ab
// for the scaling-1 species scores.
func (s *CCASuite) TestFeatureScoresWeightedOrthonormal() {
	t := s.T()
	var total float64
	col := make([]float64, len(featureIDs))
	for _, row := range abundance {
		for j, v := range row {
			col[j] += v
			total += v
		}
	}
	F := mustRows(t, s.r1.Features())
	fr := s.r1.FittedRank()
	for a := 0; a < fr; a++ {
		for b := 0; b < fr; b++ {
			var dot float64
			for j := range F {
				dot += col[j] / total * F[j][a] * F[j][b]
			}
			want := 0.0
			if a == b {
				want = 1
			}
			require.InDelta(t, want, dot, 1e-9, "axes %d,%d", a, b)
		}
	}
}

// TestReproducible runs the analysis twice on fresh copies of the inputs.
func (s *CCASuite) TestReproducible() {
	t := s.T()
	y := mustTable(t, sampleIDs, featureIDs, abundance)
	x := mustTable(t, sampleIDs, []string{"ph", "depth"}, environment)
	again, err := ordination.CCA(y, x, ordination.Scaling1)
	require.NoError(t, err)

	require.Equal(t, s.r1.Eigenvalues(), again.Eigenvalues())
	require.Equal(t, s.r1.Samples().Matrix().Values(), again.Samples().Matrix().Values())
	require.Equal(t, s.r1.Features().Matrix().Values(), again.Features().Matrix().Values())
	require.Equal(t, s.r1.BiplotScores().Matrix().Values(), again.BiplotScores().Matrix().Values())
	require.Equal(t, s.r1.SampleConstraints().Matrix().Values(), again.SampleConstraints().Matrix().Values())
}

// TestInputsUntouched checks that the call does not mutate its inputs.
func (s *CCASuite) TestInputsUntouched() {
	require.Equal(s.T(), abundance, mustRows(s.T(), s.y))
	require.Equal(s.T(), environment, mustRows(s.T(), s.x))
}

// TestAccessorsReturnCopies mutates returned slices and reads again.
func (s *CCASuite) TestAccessorsReturnCopies() {
	eig := s.r1.Eigenvalues()
	eig[0] = -1
	require.InDelta(s.T(), wantEigenvalues[0], s.r1.Eigenvalues()[0], tol)

	p := s.r1.ProportionExplained()
	p[0] = -1
	require.Greater(s.T(), s.r1.ProportionExplained()[0], 0.0)
}

// TestString checks the printable summary.
func (s *CCASuite) TestString() {
	out := s.r1.String()
	require.Contains(s.T(), out, "Canonical Correspondence Analysis (CCA)")
	require.Contains(s.T(), out, "Samples: 5x4")
	require.Contains(s.T(), out, "Biplot Scores: 2x2")
	require.Contains(s.T(), out, "'s1', 's2', 's3', 's4', 's5'")
}

func TestCCASuite(t *testing.T) {
	suite.Run(t, new(CCASuite))
}

// TestCCA_ConstantConstraint feeds a constraint that carries no information:
// the fitted block vanishes and the residual block is plain correspondence
// analysis of Y.
func TestCCA_ConstantConstraint(t *testing.T) {
	y := mustTable(t, sampleIDs, featureIDs, [][]float64{
		{10, 0, 3, 2},
		{2, 8, 1, 0},
		{0, 1, 9, 4},
		{5, 5, 5, 1},
		{1, 2, 0, 12},
	})
	x := mustTable(t, sampleIDs, []string{"intercept"}, [][]float64{{1}, {1}, {1}, {1}, {1}})

	for _, sc := range []ordination.Scaling{ordination.Scaling1, ordination.Scaling2} {
		r, err := ordination.CCA(y, x, sc)
		require.NoError(t, err)
		require.Equal(t, 0, r.FittedRank())
		require.Equal(t, 3, r.ResidualRank())
		require.Equal(t, 1, r.BiplotScores().Rows())
		require.Equal(t, 0, r.BiplotScores().Cols())

		eig := r.Eigenvalues()
		require.Len(t, eig, 3)
		want := []float64{0.6637543698482159, 0.5520502754184589, 0.49752578463113684}
		for i, e := range eig {
			require.InDelta(t, want[i], math.Sqrt(e), 1e-9)
		}

		for _, tb := range []*table.Table{r.Samples(), r.Features(), r.SampleConstraints()} {
			for _, v := range tb.Matrix().Values() {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		}
	}
}

// TestCCA_CollinearConstraints repeats a constraint column: the minimum-norm
// solution keeps the fitted rank at the number of independent columns.
func TestCCA_CollinearConstraints(t *testing.T) {
	y := mustTable(t, sampleIDs, featureIDs, abundance)
	dup := make([][]float64, len(environment))
	for i, row := range environment {
		dup[i] = []float64{row[0], row[1], row[0]}
	}
	x := mustTable(t, sampleIDs, []string{"ph", "depth", "ph_copy"}, dup)

	r, err := ordination.CCA(y, x, ordination.Scaling1)
	require.NoError(t, err)
	require.Equal(t, 2, r.FittedRank())
	require.Equal(t, 3, r.BiplotScores().Rows())
	require.InDeltaSlice(t, wantEigenvalues, r.Eigenvalues(), 1e-9)
}

// TestCCA_LoggerReceivesTrace checks the debug trace emitted through WithLogger.
func TestCCA_LoggerReceivesTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	y := mustTable(t, sampleIDs, featureIDs, abundance)
	x := mustTable(t, sampleIDs, []string{"ph", "depth"}, environment)
	_, err := ordination.CCA(y, x, ordination.Scaling1, ordination.WithLogger(logger), nil)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"total":118`)
	require.Contains(t, out, `"fitted_rank":2`)
	require.Contains(t, out, `"residual_rank":2`)
	require.Contains(t, out, "cca: decompositions")
}
