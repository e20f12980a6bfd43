package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/ordina/internal/config"
	"github.com/katalvlaran/ordina/internal/report"
	"github.com/katalvlaran/ordina/ordination"
	"github.com/katalvlaran/ordina/table"
)

// runJob reads both tables, runs CCA and writes the report. A YAML job with
// an empty Out writes to stdout.
func runJob(job config.Job, stdout io.Writer, logger zerolog.Logger) (*ordination.Results, error) {
	y, err := readTable(job.Abundance)
	if err != nil {
		return nil, fmt.Errorf("%s: abundance: %w", job.Name, err)
	}
	x, err := readTable(job.Constraints)
	if err != nil {
		return nil, fmt.Errorf("%s: constraints: %w", job.Name, err)
	}

	res, err := ordination.CCA(y, x, ordination.Scaling(job.Scaling), ordination.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}

	switch {
	case job.Format == config.FormatCSV:
		err = report.WriteCSVDir(job.Out, res)
	case job.Out == "":
		err = report.WriteYAML(stdout, res)
	default:
		err = report.WriteYAMLFile(job.Out, res)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}

	return res, nil
}

func readTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return table.ReadCSV(f)
}
