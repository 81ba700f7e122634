package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rpgo/housing-projection/internal/calculation"
	"github.com/rpgo/housing-projection/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        *config.Environment
	configPath string
	logLevel   string
}

func newRootCmd(env *config.Environment) *cobra.Command {
	opts := &rootOptions{env: env}
	cmd := &cobra.Command{
		Use:           "homesim",
		Short:         "Day-by-day housing purchase and household balance projection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", env.Config, "configuration file (env HOMESIM_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", env.LogLevel, "debug, info, warn or error (env HOMESIM_LOG_LEVEL)")

	cmd.AddCommand(
		newRunCmd(opts),
		newValidateCmd(opts),
		newExampleCmd(),
		newScheduleCmd(opts),
	)
	return cmd
}

// logger builds the text logger on the command's stderr
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (o *rootOptions) engine(w io.Writer) (*calculation.CalculationEngine, error) {
	l, err := o.logger(w)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(calculation.NewSlogLogger(l))
	return engine, nil
}

func (o *rootOptions) requireConfig() error {
	if o.configPath == "" {
		return fmt.Errorf("no configuration file: pass --config or set HOMESIM_CONFIG")
	}
	return nil
}
