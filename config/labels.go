package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// LabelsEntry is one labels-pipeline step as written in YAML. The only
// supported function is existing_target: the target already exists as a
// column and is aliased or encoded into the labels output.
type LabelsEntry struct {
	Function     string `yaml:"function"`
	Column       string `yaml:"column"`
	Name         string `yaml:"name"`
	Encode       bool   `yaml:"encode"`
	DropOriginal bool   `yaml:"drop_original"`
}

// LabelsPipeline is the parsed labels pipeline file.
type LabelsPipeline struct {
	Steps       []LabelsEntry `yaml:"steps"`
	Description string        `yaml:"description"`
}

// TargetSpec is a validated target-encoding definition.
type TargetSpec struct {
	Column       string
	Name         string
	Encode       bool
	DropOriginal bool
}

// LoadLabelsPipeline reads and parses a labels pipeline YAML file.
func LoadLabelsPipeline(path string) (*LabelsPipeline, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the entrypoint config
	if err != nil {
		return nil, errors.Wrap(err, "read labels pipeline")
	}
	var pipeline LabelsPipeline
	if err := yaml.Unmarshal(raw, &pipeline); err != nil {
		return nil, errors.Wrap(err, "parse labels pipeline")
	}
	return &pipeline, nil
}

// Build validates the parsed entries into target specs.
func (p *LabelsPipeline) Build() ([]TargetSpec, error) {
	specs := make([]TargetSpec, 0, len(p.Steps))
	for _, entry := range p.Steps {
		if entry.Function != "existing_target" {
			return nil, errors.NewConfigurationError("function", "unknown labels function", entry.Function)
		}
		if entry.Column == "" || entry.Name == "" {
			return nil, errors.NewConfigurationError("existing_target", "column and name are required", nil)
		}
		specs = append(specs, TargetSpec{
			Column:       entry.Column,
			Name:         entry.Name,
			Encode:       entry.Encode,
			DropOriginal: entry.DropOriginal,
		})
	}
	return specs, nil
}
