// Package config loads and validates the per-run project configuration.
// Configuration errors are detected eagerly, before any source file is read,
// and are always fatal to the whole run.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/typebridge/typebridge/internal/gen"
)

// Project is the typebridge.yaml configuration.
type Project struct {
	// Module is the module path qualifying definitions extracted from the
	// source root. Subdirectories extend it with their relative path.
	Module string `yaml:"module"`
	// Targets maps target language identifiers to their options.
	Targets map[string]TargetOptions `yaml:"targets"`
}

// TargetOptions are the recognized per-target options.
type TargetOptions struct {
	Output             string            `yaml:"output"`
	PackageName        string            `yaml:"package_name"`
	OutputModulePrefix string            `yaml:"output_module_prefix"`
	Tag                string            `yaml:"tag"`
	Content            string            `yaml:"content"`
	NoVersionHeader    bool              `yaml:"no_version_header"`
	TypeMappings       map[string]string `yaml:"type_mappings"`
	DisableGenerics    bool              `yaml:"disable_generics"`
}

// Load reads and validates a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	project, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return project, nil
}

// Parse decodes a project configuration. Decoding is strict: unrecognized
// option keys are a configuration error, not a warning.
func Parse(data []byte) (*Project, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var project Project
	if err := dec.Decode(&project); err != nil {
		return nil, err
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	return &project, nil
}

// Validate checks the decoded configuration against the closed target set.
func (p *Project) Validate() error {
	if len(p.Targets) == 0 {
		return fmt.Errorf("no targets configured")
	}
	for name := range p.Targets {
		if _, ok := gen.ParseTarget(name); !ok {
			return fmt.Errorf("unknown target language %q", name)
		}
	}
	return nil
}

// GenConfigs converts the per-target options into generator configurations.
func (p *Project) GenConfigs() map[gen.Target]gen.Config {
	configs := make(map[gen.Target]gen.Config, len(p.Targets))
	for name, opts := range p.Targets {
		target, _ := gen.ParseTarget(name)
		configs[target] = gen.Config{
			PackageName:        opts.PackageName,
			OutputModulePrefix: opts.OutputModulePrefix,
			Tag:                opts.Tag,
			Content:            opts.Content,
			NoVersionHeader:    opts.NoVersionHeader,
			TypeMappings:       opts.TypeMappings,
			DisableGenerics:    opts.DisableGenerics,
		}
	}
	return configs
}
