package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// SetDefaults registers the Default values as viper defaults, which also
// makes every key visible to environment lookups.
func SetDefaults(v *viper.Viper) {
	SetDefaultsFrom(v, Default())
}

// SetDefaultsFrom registers the fields of d as viper defaults, replacing
// earlier ones. Used to apply a Profile beneath flags, env and files.
func SetDefaultsFrom(v *viper.Viper, d *AnalysisConfig) {
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("window_length", d.WindowLength)
	v.SetDefault("hop_length", d.HopLength)
	v.SetDefault("window", d.Window)
	v.SetDefault("rectangle_width", d.RectangleWidth)
	v.SetDefault("analyzer", d.Analyzer)
	v.SetDefault("bins", nonNil(d.Bins))
	v.SetDefault("frequencies", nonNil(d.Frequencies))
	v.SetDefault("backend", d.Backend)
	v.SetDefault("dc_cutoff", d.DCCutoff)
	v.SetDefault("pre_emphasis", d.PreEmphasis)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("smoothing", d.Smoothing)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Load decodes and validates the analysis settings held by v.
func Load(v *viper.Viper) (*AnalysisConfig, error) {
	config := Default()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile reads a YAML or JSON analysis config. Fields missing from the file
// keep their Default values.
func LoadFile(path string) (*AnalysisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteYAML writes config as YAML.
func WriteYAML(w io.Writer, config *AnalysisConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
