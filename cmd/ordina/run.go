package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/ordina/internal/config"
)

func runCmd(a *app) *cobra.Command {
	var job config.Job
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run CCA on one abundance/constraint pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if job.Abundance == "" || job.Constraints == "" {
				return fmt.Errorf("both --abundance and --constraints are required")
			}
			if !cmd.Flags().Changed("scaling") {
				job.Scaling = a.cfg.Analysis.Scaling
			}
			if !cmd.Flags().Changed("format") {
				job.Format = a.cfg.Output.Format
			}
			if err := config.ValidateScaling(job.Scaling); err != nil {
				return err
			}
			if err := config.ValidateFormat(job.Format); err != nil {
				return err
			}
			if job.Format == config.FormatCSV && job.Out == "" {
				return fmt.Errorf("csv output needs --out <dir>")
			}
			job.Name = "run"

			logger := log.With().Str("job", job.Name).Logger()
			res, err := runJob(job, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			logger.Info().
				Int("fitted_rank", res.FittedRank()).
				Int("residual_rank", res.ResidualRank()).
				Str("out", job.Out).
				Msg("ordination complete")

			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&job.Abundance, "abundance", "", "CSV abundance table (samples × features)")
	fs.StringVar(&job.Constraints, "constraints", "", "CSV constraint table (samples × variables)")
	fs.IntVar(&job.Scaling, "scaling", config.DefaultScaling, "1 preserves sample distances, 2 preserves feature distances")
	fs.StringVar(&job.Format, "format", config.DefaultFormat, "output format: yaml or csv")
	fs.StringVar(&job.Out, "out", "", "output file (yaml) or directory (csv); stdout when empty for yaml")

	return cmd
}
