// Package config defines the balancer configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and QUIVER_ env vars on top of the defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/quiver/internal/adapters/report"
	"github.com/okian/quiver/internal/domain/search"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// CompoundPath, RecurvePath and BarebowPath point at the roster files.
	CompoundPath string `koanf:"compound_path"`
	RecurvePath  string `koanf:"recurve_path"`
	BarebowPath  string `koanf:"barebow_path"`

	// OutputPath is where the team report is written.
	OutputPath string `koanf:"output_path"`

	// ReportFormat is text or json.
	ReportFormat string `koanf:"report_format"`

	// Patience is the number of consecutive non-improving trials before a
	// search stops.
	Patience int `koanf:"patience"`

	// Seed fixes the random source. Zero draws a fresh seed from the OS.
	Seed uint64 `koanf:"seed"`

	// Runs is the number of independent searches; the best one is reported.
	Runs int `koanf:"runs"`

	// StopOnPerfect ends a search as soon as all teams tie.
	StopOnPerfect bool `koanf:"stop_on_perfect"`

	// MetricsFile, when set, receives a Prometheus textfile dump after the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		CompoundPath: "compound_archers.txt",
		RecurvePath:  "recurve_archers.txt",
		BarebowPath:  "barebow_archers.txt",
		OutputPath:   "generated_teams.txt",
		ReportFormat: report.FormatText,
		Patience:     search.DefaultPatience,
		Runs:         1,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Patience <= 0:
		return fmt.Errorf("%w: patience must be positive, got %d", ErrInvalidConfig, c.Patience)
	case c.Runs < 1:
		return fmt.Errorf("%w: runs must be at least 1, got %d", ErrInvalidConfig, c.Runs)
	case strings.TrimSpace(c.CompoundPath) == "":
		return fmt.Errorf("%w: compound_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.RecurvePath) == "":
		return fmt.Errorf("%w: recurve_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.BarebowPath) == "":
		return fmt.Errorf("%w: barebow_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputPath) == "":
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}

	switch c.ReportFormat {
	case report.FormatText, report.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
