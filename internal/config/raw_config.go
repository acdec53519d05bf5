package config

import (
	"time"

	"go.yaml.in/yaml/v4"
)

// RawConfig represents unparsed YAML structure
type RawConfig struct {
	Mode     string             `yaml:"mode"`
	Counters []RawCounterConfig `yaml:"counters"`
	Workload RawWorkloadConfig  `yaml:"workload"`
	Monitor  RawMonitorConfig   `yaml:"monitor"`
	Export   RawExportConfig    `yaml:"export"`
}

// RawCounterConfig supports both short and full forms for counters.
// The short form names an event from the built-in catalog.
type RawCounterConfig struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Cache       string  `yaml:"cache,omitempty"`
	Op          string  `yaml:"op,omitempty"`
	Result      string  `yaml:"result,omitempty"`
	Config      *uint64 `yaml:"config,omitempty"`
	Description string  `yaml:"description,omitempty"`

	// Builtin is set when the counter was given in short form.
	Builtin bool `yaml:"-"`
}

// UnmarshalYAML handles both string and object forms for counters
func (c *RawCounterConfig) UnmarshalYAML(value *yaml.Node) error {
	// Try string form first (short form)
	var name string
	if err := value.Decode(&name); err == nil {
		c.Name = name
		c.Builtin = true
		return nil
	}

	// Fall back to full form (object)
	type rawCounterConfig RawCounterConfig // Avoid recursion
	var full rawCounterConfig
	if err := value.Decode(&full); err != nil {
		return err
	}
	*c = RawCounterConfig(full)
	return nil
}

// RawWorkloadConfig defines the synthetic workload
type RawWorkloadConfig struct {
	SizeMB      int           `yaml:"size_mb"`
	Stride      int           `yaml:"stride"`
	WindowPages int           `yaml:"window_pages"`
	Duration    time.Duration `yaml:"duration"`
	Interval    time.Duration `yaml:"interval"`
	Seed        *uint64       `yaml:"seed,omitempty"`
}

// RawMonitorConfig controls process resource logging
type RawMonitorConfig struct {
	Enabled  *bool         `yaml:"enabled,omitempty"`
	Interval time.Duration `yaml:"interval"`
}
