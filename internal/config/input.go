package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/housing-projection/internal/calculation"
	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	calendar dateutil.Calendar
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	ip := &InputParser{}
	v := validator.New()

	// Decimals compare as numbers in struct tags
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ip.calendar.ToDay(fl.Field().String())
		return err == nil
	})
	ip.validate = v
	return ip
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates a YAML document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := checkAmounts(&root, reflect.TypeOf(domain.Configuration{}), ""); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	var config domain.Configuration
	if err := root.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ApplyDefaults fills optional settings left empty
func ApplyDefaults(config *domain.Configuration) {
	if config.Simulation.Name == "" {
		config.Simulation.Name = "base"
	}
	if len(config.Simulation.PayDays) == 0 {
		config.Simulation.PayDays = []int{calculation.DefaultPayDays[0], calculation.DefaultPayDays[1]}
	}
	for i := range config.People {
		if config.People[i].RaiseMonth == 0 {
			config.People[i].RaiseMonth = int(domain.DefaultRaiseMonth)
		}
	}
	if config.Loans.MortgageLimitCutoffDate == "" {
		config.Loans.MortgageLimitCutoffDate = calculation.DefaultMortgageLimitCutoff
	}
	if config.Loans.ZIP.PaydownCutoffMonth == 0 {
		config.Loans.ZIP.PaydownCutoffMonth = int(calculation.DefaultZIPCutoffMonth)
	}
	if config.Loans.ZIP.AnnualPaydown.IsZero() {
		config.Loans.ZIP.AnnualPaydown = calculation.DefaultZIPPaydown
	}
}

// ValidateConfiguration validates the loaded configuration: struct tags first, then
// the rules that span several fields.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	start, err := ip.calendar.ToDay(config.Simulation.StartDate)
	if err != nil {
		return fmt.Errorf("simulation.start_date: %w", err)
	}
	end, err := ip.calendar.ToDay(config.Simulation.EndDate)
	if err != nil {
		return fmt.Errorf("simulation.end_date: %w", err)
	}
	if end < start {
		return fmt.Errorf("simulation.end_date %s is before start_date %s", config.Simulation.EndDate, config.Simulation.StartDate)
	}
	if _, err := ip.calendar.ToDate(calculation.EndingDay(end)); err != nil {
		return fmt.Errorf("simulation.end_date %s is too late for the ending line %d years after it: %w",
			config.Simulation.EndDate, calculation.EndingOffsetYears, err)
	}

	if _, err := calculation.NewTaxTables(config.Taxes); err != nil {
		return fmt.Errorf("taxes: %w", err)
	}

	for i, w := range config.Subsidy.Windows {
		if w.To < w.From {
			return fmt.Errorf("subsidy.windows[%d]: to %s is before from %s", i, w.To, w.From)
		}
	}

	seen := make(map[string]bool)
	for _, sc := range config.AllScenarios() {
		if seen[sc.Name] {
			return fmt.Errorf("scenario name %q is used more than once", sc.Name)
		}
		seen[sc.Name] = true
		if err := ip.validateScenario(sc, start, end); err != nil {
			return fmt.Errorf("scenario %s validation failed: %w", sc.Name, err)
		}
	}
	return nil
}

// validateScenario checks the purchase and sale dates of one scenario
func (ip *InputParser) validateScenario(sc domain.Scenario, start, end int) error {
	purchase, sale := -1, -1
	var err error
	if sc.PurchaseDate != "" {
		if purchase, err = ip.calendar.ToDay(sc.PurchaseDate); err != nil {
			return fmt.Errorf("purchase_date: %w", err)
		}
		if purchase < start || purchase > end {
			return fmt.Errorf("purchase_date %s is outside the simulation", sc.PurchaseDate)
		}
	}
	if sc.SaleDate != "" {
		if sale, err = ip.calendar.ToDay(sc.SaleDate); err != nil {
			return fmt.Errorf("sale_date: %w", err)
		}
		if sale < start || sale > end {
			return fmt.Errorf("sale_date %s is outside the simulation", sc.SaleDate)
		}
		if purchase < 0 {
			return fmt.Errorf("sale_date requires a purchase_date")
		}
		if sale <= purchase {
			return fmt.Errorf("sale_date %s must be after purchase_date %s", sc.SaleDate, sc.PurchaseDate)
		}
	}
	if sc.KnownSalePrice != nil && sale < 0 {
		return fmt.Errorf("known_sale_price requires a sale_date")
	}
	return nil
}

// formatValidationErrors renders struct-tag failures by YAML path, sorted for stable output
func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", field, rule))
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
