package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/YuminosukeSato/featpipe/feature"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// Entrypoint names the inputs of one pipeline run and its execution
// parameters.
type Entrypoint struct {
	Data     string `yaml:"data"`
	Features string `yaml:"features"`
	Labels   string `yaml:"labels"`

	TestRatio float64 `yaml:"test_ratio"`
	Seed      int64   `yaml:"seed"`

	Strategy string `yaml:"strategy"`
	Workers  int    `yaml:"workers"`

	Output   string `yaml:"output"`
	LogLevel string `yaml:"log_level"`
}

// LoadEntrypoint reads the entrypoint config, applies defaults and
// verifies the referenced files exist.
func LoadEntrypoint(path string) (*Entrypoint, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		return nil, errors.Wrap(err, "read entrypoint config")
	}
	cfg := &Entrypoint{
		TestRatio: 0.2,
		Seed:      42,
		Strategy:  "sequential",
		Output:    "data/output",
		LogLevel:  "info",
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse entrypoint config")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *Entrypoint) validate() error {
	for field, path := range map[string]string{
		"data":     e.Data,
		"features": e.Features,
		"labels":   e.Labels,
	} {
		if path == "" {
			return errors.NewConfigurationError(field, "path is required", nil)
		}
		if _, err := os.Stat(path); err != nil {
			return errors.NewConfigurationError(field, "file not found", path)
		}
	}
	if e.TestRatio <= 0 || e.TestRatio >= 1 {
		return errors.NewConfigurationError("test_ratio", "must be in (0, 1)", e.TestRatio)
	}
	// log.ToLogLevel panics on unknown names; reject them here so a typo
	// surfaces as a ConfigurationError like every other malformed field.
	switch e.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigurationError("log_level",
			"must be one of debug, info, warn, error", e.LogLevel)
	}
	if _, err := e.EngineStrategy(); err != nil {
		return err
	}
	return nil
}

// EngineStrategy parses the configured strategy name.
func (e *Entrypoint) EngineStrategy() (feature.Strategy, error) {
	switch e.Strategy {
	case "", "sequential":
		return feature.Sequential, nil
	case "parallel_batch":
		return feature.ParallelBatch, nil
	case "parallel_pool":
		return feature.ParallelPool, nil
	default:
		return 0, errors.NewConfigurationError("strategy",
			"must be one of sequential, parallel_batch, parallel_pool", e.Strategy)
	}
}
