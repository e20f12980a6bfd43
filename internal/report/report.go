// Package report serializes ordination results: a single YAML document or a
// directory of CSV tables.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ordina/ordination"
	"github.com/katalvlaran/ordina/table"
)

// ErrNilResults indicates that a nil *ordination.Results was passed.
var ErrNilResults = errors.New("report: nil results")

// File names written by WriteCSVDir.
const (
	SamplesFile           = "samples.csv"
	FeaturesFile          = "features.csv"
	BiplotFile            = "biplot_scores.csv"
	SampleConstraintsFile = "sample_constraints.csv"
	EigenvaluesFile       = "eigenvalues.csv"
)

// Document is the YAML representation of a Results value.
type Document struct {
	Method              string    `yaml:"method"`
	Description         string    `yaml:"description"`
	Scaling             int       `yaml:"scaling"`
	FittedRank          int       `yaml:"fitted_rank"`
	ResidualRank        int       `yaml:"residual_rank"`
	Axes                []string  `yaml:"axes,flow"`
	Eigenvalues         []float64 `yaml:"eigenvalues,flow"`
	ProportionExplained []float64 `yaml:"proportion_explained,flow"`
	Samples             Block     `yaml:"samples"`
	Features            Block     `yaml:"features"`
	BiplotScores        Block     `yaml:"biplot_scores"`
	SampleConstraints   Block     `yaml:"sample_constraints"`
}

// Block is one labeled table.
type Block struct {
	Columns []string `yaml:"columns,flow"`
	Rows    []Row    `yaml:"rows"`
}

// Row is one labeled table row.
type Row struct {
	Label  string    `yaml:"label"`
	Values []float64 `yaml:"values,flow"`
}

// FromResults converts r into a Document.
func FromResults(r *ordination.Results) (*Document, error) {
	if r == nil {
		return nil, ErrNilResults
	}
	doc := &Document{
		Method:              r.Method(),
		Description:         r.Description(),
		Scaling:             int(r.Scaling()),
		FittedRank:          r.FittedRank(),
		ResidualRank:        r.ResidualRank(),
		Axes:                r.AxisLabels(),
		Eigenvalues:         r.Eigenvalues(),
		ProportionExplained: r.ProportionExplained(),
	}
	blocks := []struct {
		dst *Block
		src *table.Table
	}{
		{&doc.Samples, r.Samples()},
		{&doc.Features, r.Features()},
		{&doc.BiplotScores, r.BiplotScores()},
		{&doc.SampleConstraints, r.SampleConstraints()},
	}
	for _, b := range blocks {
		blk, err := toBlock(b.src)
		if err != nil {
			return nil, err
		}
		*b.dst = blk
	}

	return doc, nil
}

func toBlock(t *table.Table) (Block, error) {
	labels := t.RowLabels()
	blk := Block{Columns: t.ColLabels(), Rows: make([]Row, len(labels))}
	for i, l := range labels {
		vals, err := t.Row(i)
		if err != nil {
			return Block{}, fmt.Errorf("report: row %q: %w", l, err)
		}
		blk.Rows[i] = Row{Label: l, Values: vals}
	}

	return blk, nil
}

// WriteYAML encodes r as a Document.
func WriteYAML(w io.Writer, r *ordination.Results) error {
	doc, err := FromResults(r)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(doc); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}

	return enc.Close()
}

// WriteYAMLFile writes the YAML document to path, creating parent directories.
func WriteYAMLFile(path string, r *ordination.Results) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err = WriteYAML(f, r); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// WriteCSVDir writes one CSV per coordinate block plus an eigenvalue table
// into dir (created if needed).
func WriteCSVDir(dir string, r *ordination.Results) error {
	if r == nil {
		return ErrNilResults
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	eig, err := eigenTable(r)
	if err != nil {
		return err
	}

	files := []struct {
		name, index string
		t           *table.Table
	}{
		{SamplesFile, "sample", r.Samples()},
		{FeaturesFile, "feature", r.Features()},
		{BiplotFile, "constraint", r.BiplotScores()},
		{SampleConstraintsFile, "sample", r.SampleConstraints()},
		{EigenvaluesFile, "axis", eig},
	}
	for _, f := range files {
		if err = writeCSVFile(filepath.Join(dir, f.name), f.t, f.index); err != nil {
			return err
		}
	}

	return nil
}

// eigenTable lays out eigenvalues and proportions with one row per axis.
func eigenTable(r *ordination.Results) (*table.Table, error) {
	eig, prop := r.Eigenvalues(), r.ProportionExplained()
	rows := make([][]float64, len(eig))
	for i := range eig {
		rows[i] = []float64{eig[i], prop[i]}
	}
	t, err := table.FromRows(r.AxisLabels(), []string{"eigenvalue", "proportion_explained"}, rows)
	if err != nil {
		return nil, fmt.Errorf("report: eigenvalues: %w", err)
	}

	return t, nil
}

func writeCSVFile(path string, t *table.Table, index string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err = table.WriteCSV(f, t, index); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: %s: %w", filepath.Base(path), err)
	}

	return f.Close()
}
