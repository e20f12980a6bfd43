package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedCSV indicates a CSV document that does not describe a table.
var ErrMalformedCSV = errors.New("table: malformed csv")

// ReadCSV parses a labeled table.
//
// Layout:
//
//	index,colA,colB
//	row1,1,2
//	row2,3,4
//
// The first header cell names the index column and is discarded. Cells are
// trimmed; empty records are skipped. Values use strconv.ParseFloat syntax.
//
// Errors:
//   - ErrMalformedCSV for a missing header, short/long records or unparsable values.
//   - ErrEmptyTable, ErrDuplicateLabel, matrix.ErrNaNInf from table construction.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width checked below with a table-specific error
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("table.ReadCSV: no header: %w", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("table.ReadCSV: %w: %v", ErrMalformedCSV, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("table.ReadCSV: header needs an index cell and one column: %w", ErrMalformedCSV)
	}
	cols := trimAll(header[1:])

	var (
		rowLabels []string
		rows      [][]float64
		line      = 1
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("table.ReadCSV: line %d: %w: %v", line, ErrMalformedCSV, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("table.ReadCSV: line %d has %d cells, want %d: %w", line, len(rec), len(header), ErrMalformedCSV)
		}
		row := make([]float64, len(cols))
		for j, cell := range rec[1:] {
			v, perr := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if perr != nil {
				return nil, fmt.Errorf("table.ReadCSV: line %d col %q: %w: %v", line, cols[j], ErrMalformedCSV, perr)
			}
			row[j] = v
		}
		rowLabels = append(rowLabels, strings.TrimSpace(rec[0]))
		rows = append(rows, row)
	}

	return FromRows(rowLabels, cols, rows)
}

// WriteCSV emits t in the ReadCSV layout. index names the first header cell.
// Values are written in the shortest form that parses back bit-identically.
func WriteCSV(w io.Writer, t *Table, index string) error {
	if t == nil {
		return ErrNilTable
	}
	cw := csv.NewWriter(w)
	header := append([]string{index}, t.colLabels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("table.WriteCSV: %w", err)
	}
	rec := make([]string, t.Cols()+1)
	for i, label := range t.rowLabels {
		row, err := t.Row(i)
		if err != nil {
			return fmt.Errorf("table.WriteCSV: %w", err)
		}
		rec[0] = label
		for j, v := range row {
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err = cw.Write(rec); err != nil {
			return fmt.Errorf("table.WriteCSV: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}

	return out
}
