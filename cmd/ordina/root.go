package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/ordina/internal/config"
)

// app carries state shared by subcommands once the root has loaded it.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// Execute builds the command tree and runs it with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ordina",
		Short:         "Constrained ordination (CCA) of community tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	bindGlobalFlags(root.PersistentFlags(), a)
	root.AddCommand(runCmd(a), batchCmd(a))

	return root
}

func bindGlobalFlags(fs *pflag.FlagSet, a *app) {
	fs.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides the config")
}

// load reads the configuration and sets the global log level.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, config.ErrInvalidConfig)
	}
	zerolog.SetGlobalLevel(level)
	a.cfg = cfg
	log.Debug().Str("config", a.configPath).Str("level", level.String()).Msg("configuration loaded")

	return nil
}
