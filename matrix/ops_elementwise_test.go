// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ordina/matrix"
)

func TestScaleRowsCols_FastAndFallback(t *testing.T) {
	X := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	for _, in := range []matrix.Matrix{X, hide{X}} {
		r, err := matrix.ScaleRows(in, []float64{2, -1})
		require.NoError(t, err)
		CompareExact(t, [][]float64{{2, 4, 6}, {-4, -5, -6}}, r)

		c, err := matrix.ScaleCols(in, []float64{1, 0, 10})
		require.NoError(t, err)
		CompareExact(t, [][]float64{{1, 0, 30}, {4, 0, 60}}, c)
	}

	_, err := matrix.ScaleRows(X, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.ScaleCols(X, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.ScaleCols(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestAllClose(t *testing.T) {
	a := NewFilledDense(t, 1, 3, []float64{1, 2, 3})
	b := NewFilledDense(t, 1, 3, []float64{1, 2, 3 + 1e-12})

	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllClose(a, b, 0, 0)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.AllClose(a, hide{b}, 1e-9, 0)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.AllClose(a, MustDense(t, 3, 1), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
