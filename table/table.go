// Package table provides a labeled numeric table: a matrix.Dense payload with
// one identifier per row and one per column.
//
// Tables are the input and output currency of the ordination package:
// sample identifiers label rows, feature/constraint/axis identifiers label
// columns. A Table is immutable once built; every accessor returns a copy.
package table

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ordina/matrix"
)

var (
	// ErrEmptyTable indicates a table without rows or without columns.
	ErrEmptyTable = errors.New("table: table must have at least one row and one column")

	// ErrLabelCount indicates that the number of labels differs from the data shape.
	ErrLabelCount = errors.New("table: label count does not match data shape")

	// ErrDuplicateLabel indicates that a row or column label occurs twice.
	ErrDuplicateLabel = errors.New("table: duplicate label")

	// ErrUnknownLabel indicates a lookup by a label the table does not carry.
	ErrUnknownLabel = errors.New("table: unknown label")

	// ErrRaggedRows indicates that input rows have different lengths.
	ErrRaggedRows = errors.New("table: rows have different lengths")

	// ErrNilTable indicates that a nil *Table was used.
	ErrNilTable = errors.New("table: nil table")
)

// Table is a rows×cols matrix with row and column identifiers.
type Table struct {
	rowLabels []string
	colLabels []string
	data      *matrix.Dense
	rowIndex  map[string]int
	colIndex  map[string]int
}

// New builds a Table from labels and a matrix payload (copied).
//
// Errors:
//   - ErrLabelCount when label counts differ from the matrix shape.
//   - ErrDuplicateLabel when a label repeats along one axis.
//   - matrix.ErrNilMatrix for a nil payload.
func New(rowLabels, colLabels []string, data matrix.Matrix) (*Table, error) {
	if err := matrix.ValidateNotNil(data); err != nil {
		return nil, fmt.Errorf("table.New: %w", err)
	}
	if len(rowLabels) != data.Rows() || len(colLabels) != data.Cols() {
		return nil, fmt.Errorf("table.New: %d×%d labels for %d×%d data: %w",
			len(rowLabels), len(colLabels), data.Rows(), data.Cols(), ErrLabelCount)
	}
	rowIndex, err := indexLabels(rowLabels)
	if err != nil {
		return nil, fmt.Errorf("table.New: rows: %w", err)
	}
	colIndex, err := indexLabels(colLabels)
	if err != nil {
		return nil, fmt.Errorf("table.New: cols: %w", err)
	}
	d, err := copyDense(data)
	if err != nil {
		return nil, fmt.Errorf("table.New: %w", err)
	}

	return &Table{
		rowLabels: append([]string(nil), rowLabels...),
		colLabels: append([]string(nil), colLabels...),
		data:      d,
		rowIndex:  rowIndex,
		colIndex:  colIndex,
	}, nil
}

// FromRows builds a Table from a slice of equal-length rows.
//
// Errors:
//   - ErrEmptyTable, ErrRaggedRows, ErrLabelCount, ErrDuplicateLabel, matrix.ErrNaNInf.
func FromRows(rowLabels, colLabels []string, rows [][]float64) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyTable
	}
	c := len(rows[0])
	flat := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("table.FromRows: row %d has %d values, want %d: %w", i, len(row), c, ErrRaggedRows)
		}
		flat = append(flat, row...)
	}
	d, err := matrix.NewDenseFrom(len(rows), c, flat)
	if err != nil {
		return nil, fmt.Errorf("table.FromRows: %w", err)
	}

	return New(rowLabels, colLabels, d)
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.data.Rows() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.data.Cols() }

// RowLabels returns a copy of the row identifiers.
func (t *Table) RowLabels() []string { return append([]string(nil), t.rowLabels...) }

// ColLabels returns a copy of the column identifiers.
func (t *Table) ColLabels() []string { return append([]string(nil), t.colLabels...) }

// At returns the value at (i, j).
func (t *Table) At(i, j int) (float64, error) { return t.data.At(i, j) }

// Value returns the value at the cell addressed by labels.
//
// Errors:
//   - ErrUnknownLabel when either label is absent.
func (t *Table) Value(row, col string) (float64, error) {
	i, ok := t.rowIndex[row]
	if !ok {
		return 0, fmt.Errorf("table.Value: row %q: %w", row, ErrUnknownLabel)
	}
	j, ok := t.colIndex[col]
	if !ok {
		return 0, fmt.Errorf("table.Value: col %q: %w", col, ErrUnknownLabel)
	}

	return t.data.At(i, j)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) ([]float64, error) { return t.data.Row(i) }

// Col returns a copy of column j.
func (t *Table) Col(j int) ([]float64, error) { return t.data.Col(j) }

// Matrix returns a copy of the numeric payload.
func (t *Table) Matrix() *matrix.Dense {
	d, _ := copyDense(t.data) // copying a Dense never fails

	return d
}

// String renders the labels and the payload for diagnostics.
func (t *Table) String() string {
	return fmt.Sprintf("rows=%v cols=%v\n%s", t.rowLabels, t.colLabels, t.data)
}

// indexLabels maps each label to its position, rejecting duplicates.
func indexLabels(labels []string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, fmt.Errorf("%q: %w", l, ErrDuplicateLabel)
		}
		idx[l] = i
	}

	return idx, nil
}

// copyDense materializes any Matrix as an independent *Dense.
// Zero-width *Dense payloads (e.g. a biplot with no fitted axes) are legal;
// other implementations must be non-empty.
func copyDense(m matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d.Clone().(*matrix.Dense), nil
	}
	r, c := m.Rows(), m.Cols()
	flat := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			flat = append(flat, v)
		}
	}
	if r == 0 || c == 0 {
		return nil, ErrEmptyTable
	}

	return matrix.NewDenseFrom(r, c, flat)
}
