// Package config loads and validates the YAML pipeline definitions: the
// entrypoint file, the feature pipeline and the labels pipeline. All
// validation is fail-fast; a malformed definition is rejected before any
// data is read.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/YuminosukeSato/featpipe/feature"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// FeatureEntry is one step definition as written in YAML. The function
// tag selects the variant; the remaining fields are variant-specific.
type FeatureEntry struct {
	Function string `yaml:"function"`
	Name     string `yaml:"name"`

	// Aggregations and threshold.
	Column  string   `yaml:"column"`
	GroupBy []string `yaml:"group_by"`

	// Threshold.
	Threshold  *float64 `yaml:"threshold"`
	Comparator string   `yaml:"comparator"`

	// Ratio.
	Numerator   string `yaml:"numerator"`
	Denominator string `yaml:"denominator"`

	// One-hot encoding.
	Columns   []string `yaml:"columns"`
	DropFirst bool     `yaml:"drop_first"`
	DropNulls bool     `yaml:"drop_nulls"`
	Separator string   `yaml:"separator"`
}

// FeaturePipeline is the parsed feature pipeline file.
type FeaturePipeline struct {
	Steps       []FeatureEntry `yaml:"steps"`
	Description string         `yaml:"description"`
}

// LoadFeaturePipeline reads and parses a feature pipeline YAML file.
func LoadFeaturePipeline(path string) (*FeaturePipeline, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the entrypoint config
	if err != nil {
		return nil, errors.Wrap(err, "read feature pipeline")
	}
	var pipeline FeaturePipeline
	if err := yaml.Unmarshal(raw, &pipeline); err != nil {
		return nil, errors.Wrap(err, "parse feature pipeline")
	}
	return &pipeline, nil
}

// Build converts the parsed entries into engine steps, validating each
// entry's required fields.
func (p *FeaturePipeline) Build() ([]feature.Step, error) {
	steps := make([]feature.Step, 0, len(p.Steps))
	for _, entry := range p.Steps {
		step, err := entry.build()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (e FeatureEntry) build() (feature.Step, error) {
	switch e.Function {
	case "mean", "sum", "max", "min", "count", "count_distinct":
		if e.Name == "" {
			return nil, errors.NewConfigurationError("name", "required for function "+e.Function, nil)
		}
		if e.Column == "" {
			return nil, errors.NewConfigurationError("column", "required for function "+e.Function, e.Name)
		}
		switch e.Function {
		case "mean":
			return feature.Mean{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		case "sum":
			return feature.Sum{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		case "max":
			return feature.Max{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		case "min":
			return feature.Min{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		case "count":
			return feature.Count{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		default:
			return feature.CountDistinct{Name: e.Name, Column: e.Column, GroupBy: e.GroupBy}, nil
		}

	case "ratio":
		if e.Name == "" {
			return nil, errors.NewConfigurationError("name", "required for function ratio", nil)
		}
		if e.Numerator == "" || e.Denominator == "" {
			return nil, errors.NewConfigurationError("ratio", "numerator and denominator are required", e.Name)
		}
		return feature.Ratio{Name: e.Name, Numerator: e.Numerator, Denominator: e.Denominator}, nil

	case "threshold":
		if e.Name == "" {
			return nil, errors.NewConfigurationError("name", "required for function threshold", nil)
		}
		if e.Column == "" {
			return nil, errors.NewConfigurationError("column", "required for function threshold", e.Name)
		}
		if e.Threshold == nil {
			return nil, errors.NewConfigurationError("threshold", "required for function threshold", e.Name)
		}
		cmp := feature.Comparator(e.Comparator)
		if cmp != feature.Gt && cmp != feature.Lt {
			return nil, errors.NewConfigurationError("comparator", "must be \"gt\" or \"lt\"", e.Comparator)
		}
		return feature.Threshold{Name: e.Name, Column: e.Column, Value: *e.Threshold, Comparator: cmp}, nil

	case "ohe":
		if len(e.Columns) == 0 {
			return nil, errors.NewConfigurationError("columns", "required for function ohe", e.Name)
		}
		return feature.OneHotEncode{
			Name:      e.Name,
			Columns:   e.Columns,
			DropFirst: e.DropFirst,
			DropNulls: e.DropNulls,
			Separator: e.Separator,
		}, nil

	default:
		return nil, errors.NewConfigurationError("function", "unknown feature function", e.Function)
	}
}
