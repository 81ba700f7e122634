package main

import (
	"fmt"

	"github.com/rpgo/housing-projection/internal/calculation"
	"github.com/rpgo/housing-projection/internal/config"
	"github.com/rpgo/housing-projection/internal/output"
	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.requireConfig(); err != nil {
				return err
			}
			cfg, err := config.NewInputParser().LoadFromFile(root.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid: %d person(s), %d run(s)\n",
				root.configPath, len(cfg.People), len(cfg.AllScenarios()))
			return nil
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", path)
			return nil
		},
	}
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the conventional loan amortization schedule of a scenario's purchase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.requireConfig(); err != nil {
				return err
			}
			cfg, err := config.NewInputParser().LoadFromFile(root.configPath)
			if err != nil {
				return err
			}
			sc := cfg.BaseScenario()
			if scenario != "" {
				found := false
				for _, s := range cfg.AllScenarios() {
					if s.Name == scenario {
						sc, found = s, true
						break
					}
				}
				if !found {
					return fmt.Errorf("unknown scenario %q", scenario)
				}
			}
			engine, err := root.engine(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := engine.RunScenario(cmd.Context(), cfg, sc, nil)
			if err != nil {
				return err
			}
			if result.Purchase == nil {
				return fmt.Errorf("scenario %s has no purchase", sc.Name)
			}
			sched, err := calculation.NewAmortizationSchedule(result.Purchase.SFCU, cfg.Loans.SFCU.AnnualRate, cfg.Loans.SFCU.TermYears*12)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SFCU loan %s at %s over %d months, payment %s\n",
				output.FormatCurrency(result.Purchase.SFCU), output.FormatRate(cfg.Loans.SFCU.AnnualRate),
				sched.Periods(), output.FormatCurrency(sched.Payment()))
			fmt.Fprintf(out, "%-6s %14s %14s %14s %16s\n", "Month", "Payment", "Interest", "Principal", "Balance")
			for _, row := range sched.Rows() {
				fmt.Fprintf(out, "%-6d %14s %14s %14s %16s\n", row.Period, output.FormatCurrency(row.Payment),
					output.FormatCurrency(row.Interest), output.FormatCurrency(row.Principal), output.FormatCurrency(row.Balance))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario name (default: base configuration)")
	return cmd
}
