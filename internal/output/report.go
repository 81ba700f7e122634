package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/housing-projection/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes results into dir using the named formatter, or every formatter for "all".
// It returns the files written.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, results, dir)
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s, all (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, results, dir)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// IntegrityReport lists, per run, every tax year whose escrowed withholding did not net to zero
func IntegrityReport(results *domain.ScenarioComparison) string {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "INTEGRITY REPORT")
	for _, r := range results.Results {
		if len(r.Warnings) == 0 {
			fmt.Fprintf(&buf, "%s: OK\n", r.Scenario)
			continue
		}
		fmt.Fprintf(&buf, "%s: %d unsettled tax year(s)\n", r.Scenario, len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&buf, "  %d %s: escrowed withholding %s\n", w.Year, w.Person, FormatCurrency(w.EscrowedWithholding))
		}
	}
	return buf.String()
}

// SaveConfiguration writes a configuration as YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
