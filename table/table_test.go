package table_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ordina/matrix"
	"github.com/katalvlaran/ordina/table"
)

func TestFromRows(t *testing.T) {
	tb, err := table.FromRows([]string{"a", "b"}, []string{"x", "y", "z"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	require.Equal(t, 2, tb.Rows())
	require.Equal(t, 3, tb.Cols())
	require.Equal(t, []string{"a", "b"}, tb.RowLabels())
	require.Equal(t, []string{"x", "y", "z"}, tb.ColLabels())

	v, err := tb.Value("b", "y")
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	v, err = tb.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	col, err := tb.Col(2)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 6}, col)
}

func TestFromRows_Errors(t *testing.T) {
	_, err := table.FromRows(nil, nil, nil)
	require.ErrorIs(t, err, table.ErrEmptyTable)

	_, err = table.FromRows([]string{"a"}, nil, [][]float64{{}})
	require.ErrorIs(t, err, table.ErrEmptyTable)

	_, err = table.FromRows([]string{"a", "b"}, []string{"x", "y"}, [][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, table.ErrRaggedRows)

	_, err = table.FromRows([]string{"a"}, []string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})
	require.ErrorIs(t, err, table.ErrLabelCount)

	_, err = table.FromRows([]string{"a", "a"}, []string{"x"}, [][]float64{{1}, {2}})
	require.ErrorIs(t, err, table.ErrDuplicateLabel)

	_, err = table.FromRows([]string{"a"}, []string{"x", "x"}, [][]float64{{1, 2}})
	require.ErrorIs(t, err, table.ErrDuplicateLabel)

	_, err = table.FromRows([]string{"a"}, []string{"x"}, [][]float64{{math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestNew_CopiesPayload(t *testing.T) {
	d, err := matrix.NewDenseFrom(1, 2, []float64{1, 2})
	require.NoError(t, err)
	tb, err := table.New([]string{"r"}, []string{"a", "b"}, d)
	require.NoError(t, err)

	require.NoError(t, d.Set(0, 0, 100))
	v, err := tb.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v, "table must not alias the caller's matrix")

	m := tb.Matrix()
	require.NoError(t, m.Set(0, 1, -1))
	v, err = tb.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 2.0, v, "Matrix returns a copy")

	_, err = table.New(nil, nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestNew_ZeroWidth accepts a payload without columns, as used for axis-less
// biplot scores.
func TestNew_ZeroWidth(t *testing.T) {
	d := zeroWidth(t, 3)
	tb, err := table.New([]string{"a", "b", "c"}, []string{}, d)
	require.NoError(t, err)
	require.Equal(t, 3, tb.Rows())
	require.Equal(t, 0, tb.Cols())
	require.Empty(t, tb.ColLabels())
}

func TestLabelsAreCopies(t *testing.T) {
	tb, err := table.FromRows([]string{"a"}, []string{"x"}, [][]float64{{1}})
	require.NoError(t, err)

	rl := tb.RowLabels()
	rl[0] = "mutated"
	require.Equal(t, []string{"a"}, tb.RowLabels())

	_, err = tb.Value("mutated", "x")
	require.ErrorIs(t, err, table.ErrUnknownLabel)
	_, err = tb.Value("a", "nope")
	require.ErrorIs(t, err, table.ErrUnknownLabel)
}

// zeroWidth returns an n×0 matrix through the public API: the left factor of
// a rank-zero truncation.
func zeroWidth(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	z, err := matrix.NewDense(n, 1)
	require.NoError(t, err)
	f, err := matrix.SVD(z)
	require.NoError(t, err)
	none, err := f.Truncate(0)
	require.NoError(t, err)

	return none.U
}
