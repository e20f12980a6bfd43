package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errNoJobs = errors.New("batch: configuration lists no jobs")

func batchCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every job listed under batch.jobs in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be positive, got %d", workers)
				}
				a.cfg.Batch.Workers = workers
			}

			return runBatch(cmd.Context(), a, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "maximum concurrent jobs; overrides batch.workers")

	return cmd
}

// runBatch runs the configured jobs with at most Batch.Workers in flight.
// The first failure cancels jobs that have not started yet.
func runBatch(ctx context.Context, a *app, stdout io.Writer) error {
	jobs := a.cfg.Batch.Jobs
	if len(jobs) == 0 {
		return errNoJobs
	}
	for _, job := range jobs {
		if job.Out == "" {
			return fmt.Errorf("batch: job %q needs an out path", job.Name)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Batch.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger := log.With().Str("job", job.Name).Logger()
			res, err := runJob(job, stdout, logger)
			if err != nil {
				logger.Error().Err(err).Msg("job failed")
				return err
			}
			logger.Info().
				Int("fitted_rank", res.FittedRank()).
				Int("residual_rank", res.ResidualRank()).
				Str("out", job.Out).
				Msg("job complete")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Int("jobs", len(jobs)).Int("workers", a.cfg.Batch.Workers).Msg("batch complete")

	return nil
}
