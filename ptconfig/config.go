// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptconfig loads the recognized configuration options a caller
// must surface to the statistical core (spec §6.3): column mapping for
// the validation kernel, the default method and its parameters, and the
// supplied value/uncertainty for the non-consensus methods.
package ptconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// InputDataConfig maps caller-named table columns to the validation
// kernel's roles (spec §4.4).
type InputDataConfig struct {
	IDCol          string `yaml:"id_col"`
	ResultCol      string `yaml:"result_col"`
	UncertaintyCol string `yaml:"uncertainty_col"`
}

// ValuePair is the (value, uncertainty) a non-consensus method supplies
// (spec §4.2).
type ValuePair struct {
	Value       float64 `yaml:"value"`
	Uncertainty float64 `yaml:"uncertainty"`
}

// AlgorithmAConfig holds Algorithm A's convergence parameters (spec
// §6.1).
type AlgorithmAConfig struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// CalculationConfig holds the default method and its per-method inputs
// (spec §6.3).
type CalculationConfig struct {
	Method      string           `yaml:"method"`
	SigmaPt     float64          `yaml:"sigma_pt"`
	AlgorithmA  AlgorithmAConfig `yaml:"algorithm_a"`
	CRM         ValuePair        `yaml:"crm"`
	Formulation ValuePair        `yaml:"formulation"`
	Expert      ValuePair        `yaml:"expert"`
}

// RenderConfig names the external renderer invocation (spec §6.5).
type RenderConfig struct {
	OutputFormat   string `yaml:"output_format"`
	TemplatePath   string `yaml:"template_path"`
	RendererBinary string `yaml:"renderer_binary"`
}

// LoggingConfig selects the CLI's log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls optional Prometheus instrumentation.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the full recognized configuration contract of spec §6.3.
// Unknown top-level keys are rejected at Load time (spec §9: "dynamic
// configuration objects -> enumerated options").
type Config struct {
	InputData   InputDataConfig   `yaml:"input_data"`
	Calculation CalculationConfig `yaml:"calculation"`
	Render      RenderConfig      `yaml:"render"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// DefaultConfig returns a configuration with spec-mandated defaults
// (Algorithm A tolerance 1e-5, max_iterations 50) and reasonable
// defaults for the ambient layers.
func DefaultConfig() *Config {
	return &Config{
		InputData: InputDataConfig{
			IDCol:     "Lab",
			ResultCol: "Value",
		},
		Calculation: CalculationConfig{
			Method: "A",
			AlgorithmA: AlgorithmAConfig{
				Tolerance:     1e-5,
				MaxIterations: 50,
			},
		},
		Render: RenderConfig{
			OutputFormat:   "pdf",
			RendererBinary: "pt-render",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9464",
		},
	}
}

// Load reads YAML configuration from path, starting from DefaultConfig
// and overlaying the file's values. If path does not exist, Load
// returns the defaults unchanged (matching the teacher's graceful
// fallback rather than failing on an absent, optional config file).
//
// Before parsing, Load loads a sibling ".env" file (if present) via
// godotenv and expands ${VAR} references in the YAML against the
// resulting environment, so deployment-specific values (renderer
// binary paths, output directories) never need to be hand-edited into
// the YAML itself.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "ptconfig.yaml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	_ = godotenv.Load() // optional local .env overlay; absence is not an error

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ptconfig: failed to read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))

	var strict yaml.Node
	if err := yaml.Unmarshal(expanded, &strict); err != nil {
		return nil, fmt.Errorf("ptconfig: failed to parse config file: %w", err)
	}
	if err := rejectUnknownKeys(&strict); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("ptconfig: failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("ptconfig: failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ptconfig: failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the recognized option set for internal consistency;
// it does not know about a particular round's dataset.
func (c *Config) Validate() error {
	switch c.Calculation.Method {
	case "A", "CRM", "Formulation", "Expert":
	default:
		return fmt.Errorf("ptconfig: calculation.method %q is not one of A, CRM, Formulation, Expert", c.Calculation.Method)
	}
	if c.Calculation.AlgorithmA.Tolerance <= 0 {
		return fmt.Errorf("ptconfig: calculation.algorithm_a.tolerance must be > 0")
	}
	if c.Calculation.AlgorithmA.MaxIterations <= 0 {
		return fmt.Errorf("ptconfig: calculation.algorithm_a.max_iterations must be > 0")
	}
	if c.InputData.IDCol == "" || c.InputData.ResultCol == "" {
		return fmt.Errorf("ptconfig: input_data.id_col and input_data.result_col are required")
	}
	switch c.Render.OutputFormat {
	case "pdf", "html", "docx":
	default:
		return fmt.Errorf("ptconfig: render.output_format %q is not one of pdf, html, docx", c.Render.OutputFormat)
	}
	return nil
}

var recognizedTopLevelKeys = map[string]bool{
	"input_data":  true,
	"calculation": true,
	"render":      true,
	"logging":     true,
	"metrics":     true,
}

// rejectUnknownKeys enforces the closed option set of spec §6.3/§9: a
// dynamically-typed config would silently ignore a typo'd key, but this
// contract is a fixed enumeration, so an unrecognized top-level key is a
// validation failure, not noise.
func rejectUnknownKeys(doc *yaml.Node) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if !recognizedTopLevelKeys[key] {
			return fmt.Errorf("ptconfig: unrecognized configuration key %q", key)
		}
	}
	return nil
}
