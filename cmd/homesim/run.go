package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/housing-projection/internal/calculation"
	"github.com/rpgo/housing-projection/internal/config"
	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/internal/output"
	"github.com/spf13/cobra"
)

type runOptions struct {
	format    string
	outputDir string
	daily     string
	noDaily   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the base configuration and every scenario",
		Long: `Run simulates every day of the configured horizon for the base configuration and
each scenario. Each run streams its daily balances to <output-dir>/<scenario>_daily.<ext>
and the annual report is printed or written in the requested format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", root.env.Format,
		fmt.Sprintf("report format: %s or all (env HOMESIM_FORMAT)", strings.Join(output.AvailableFormatterNames(), ", ")))
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", root.env.OutputDir, "directory for daily streams and reports (env HOMESIM_OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.daily, "daily", output.DailyText, "daily stream format: text or csv")
	cmd.Flags().BoolVar(&opts.noDaily, "no-daily", false, "skip writing the daily streams")
	return cmd
}

// dailyFile is one open daily stream
type dailyFile struct {
	file   *os.File
	writer *output.DailyWriter
}

func openDailyFiles(cfg *domain.Configuration, dir, format string) (map[string]*dailyFile, error) {
	ext := "txt"
	if strings.EqualFold(format, output.DailyCSV) {
		ext = "csv"
	}
	files := make(map[string]*dailyFile)
	for _, sc := range cfg.AllScenarios() {
		path := filepath.Join(dir, fmt.Sprintf("%s_daily.%s", sanitize(sc.Name), ext))
		f, err := os.Create(path)
		if err != nil {
			closeDailyFiles(files)
			return nil, err
		}
		w, err := output.NewDailyWriter(f, format)
		if err != nil {
			f.Close()
			closeDailyFiles(files)
			return nil, err
		}
		files[sc.Name] = &dailyFile{file: f, writer: w}
	}
	return files, nil
}

func closeDailyFiles(files map[string]*dailyFile) error {
	var first error
	for _, df := range files {
		if err := df.writer.Flush(); err != nil && first == nil {
			first = err
		}
		if err := df.file.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// sanitize keeps scenario names usable as file names
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

func runScenarios(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	if err := root.requireConfig(); err != nil {
		return err
	}
	if output.NormalizeFormatName(opts.format) != "all" && output.GetFormatterByName(opts.format) == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, opts.format)
	}
	cfg, err := config.NewInputParser().LoadFromFile(root.configPath)
	if err != nil {
		return err
	}
	engine, err := root.engine(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return err
	}

	var sinkFor func(domain.Scenario) calculation.DailySink
	var files map[string]*dailyFile
	if !opts.noDaily {
		files, err = openDailyFiles(cfg, opts.outputDir, opts.daily)
		if err != nil {
			return err
		}
		sinkFor = func(sc domain.Scenario) calculation.DailySink { return files[sc.Name].writer }
	}

	results, runErr := engine.RunScenarios(cmd.Context(), cfg, sinkFor)
	if err := closeDailyFiles(files); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	comparison := &domain.ScenarioComparison{Results: results}
	out := cmd.OutOrStdout()
	if output.NormalizeFormatName(opts.format) == "console" {
		data, err := output.ConsoleFormatter{}.Format(comparison)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else {
		written, err := output.GenerateReport(comparison, opts.format, opts.outputDir)
		if err != nil {
			return err
		}
		for _, name := range written {
			fmt.Fprintf(out, "Report written to %s\n", name)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, output.IntegrityReport(comparison))
	return nil
}
