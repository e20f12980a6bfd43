package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/ordina/matrix"
)

// ExampleSVD shows the spectrum and effective rank of a rank-deficient matrix.
func ExampleSVD() {
	// Second column is twice the first.
	A, _ := matrix.NewDenseFrom(3, 2, []float64{1, 2, 2, 4, 3, 6})
	f, err := matrix.SVD(A)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("singular values: %d, rank: %d\n", len(f.S), f.Rank())
	fmt.Printf("s_max = %.4f\n", f.S[0])
	// Output:
	// singular values: 2, rank: 1
	// s_max = 8.3666
}

// ExampleLeastSquares solves a collinear design with the minimum-norm rule.
func ExampleLeastSquares() {
	A, _ := matrix.NewDenseFrom(2, 2, []float64{1, 1, 2, 2})
	B, _ := matrix.NewDenseFrom(2, 1, []float64{2, 4})
	X, rank, err := matrix.LeastSquares(A, B)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	x0, _ := X.At(0, 0)
	x1, _ := X.At(1, 0)
	fmt.Printf("rank %d, x = [%.3f %.3f]\n", rank, x0, x1)
	// Output:
	// rank 1, x = [1.000 1.000]
}

// ExampleWeightedScale standardizes a column with frequency weights.
func ExampleWeightedScale() {
	X, _ := matrix.NewDenseFrom(3, 1, []float64{1, 2, 4})
	Z, means, stds, _ := matrix.WeightedScale(X, []float64{0.5, 0.25, 0.25}, 0)
	col, _ := Z.Col(0)
	fmt.Printf("mean %.2f std %.4f\n", means[0], stds[0])
	fmt.Printf("%.4f\n", col)
	// Output:
	// mean 2.00 std 1.2247
	// [-0.8165 0.0000 1.6330]
}
