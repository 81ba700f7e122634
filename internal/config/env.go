package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by LoadEnvironment
const EnvPrefix = "HOMESIM"

// Environment holds CLI defaults taken from HOMESIM_* variables. Command-line
// flags override these values.
type Environment struct {
	Config    string `envconfig:"CONFIG"`
	Format    string `envconfig:"FORMAT" default:"console"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"."`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadEnvironment reads the HOMESIM_* variables
func LoadEnvironment() (*Environment, error) {
	var env Environment
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &env, nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SlogLevel returns the configured log level
func (e *Environment) SlogLevel() (slog.Level, error) {
	return ParseLogLevel(e.LogLevel)
}
