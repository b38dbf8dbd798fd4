package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/passorder/internal/plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // manifest files or directories

	LogFormat    string
	LogLevel     string
	OutputFormat string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if len(cfg.Paths) == 0 {
		errs = append(errs, errors.New("at least one manifest path is required"))
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be text or json", cfg.LogFormat))
	}

	format, err := plan.ParseFormat(cfg.OutputFormat)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.OutputFormat = string(format)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
