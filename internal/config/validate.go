package config

import (
	"fmt"
)

// Validate performs syntactic validation on raw config
func Validate(raw *RawConfig) error {
	return validateRawSyntax(raw)
}

// validateRawSyntax performs basic syntactic validation on raw config
func validateRawSyntax(raw *RawConfig) error {
	seen := make(map[string]int, len(raw.Counters))

	for i, counter := range raw.Counters {
		if counter.Name == "" {
			return fmt.Errorf("counter at index %d: name cannot be empty", i)
		}

		if prev, exists := seen[counter.Name]; exists {
			return fmt.Errorf("counter %q: duplicate name (first at index %d)", counter.Name, prev)
		}
		seen[counter.Name] = i

		if counter.Builtin {
			continue
		}

		if counter.Type == "" {
			return fmt.Errorf("counter %q: type cannot be empty", counter.Name)
		}
	}

	if raw.Workload.SizeMB < 0 {
		return fmt.Errorf("workload size_mb cannot be negative: %d", raw.Workload.SizeMB)
	}
	if raw.Workload.Stride < 0 {
		return fmt.Errorf("workload stride cannot be negative: %d", raw.Workload.Stride)
	}
	if raw.Workload.WindowPages < 0 {
		return fmt.Errorf("workload window_pages cannot be negative: %d", raw.Workload.WindowPages)
	}
	if raw.Workload.Duration < 0 || raw.Workload.Interval < 0 {
		return fmt.Errorf("workload durations cannot be negative")
	}

	return nil
}
