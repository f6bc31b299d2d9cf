package harness

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds bench parameters.
type Config struct {
	// ClockGHz is the simulated engine clock. One byte is presented
	// per clock cycle. Default: 1.0.
	ClockGHz float64 `json:"clock_ghz"`

	// MaxCycles stops the bench after this many cycles. 0 means run
	// until the stimulus is exhausted.
	MaxCycles uint64 `json:"max_cycles"`
}

// DefaultConfig returns the default bench configuration.
func DefaultConfig() *Config {
	return &Config{
		ClockGHz:  1.0,
		MaxCycles: 0,
	}
}

// LoadConfig reads a bench configuration from a JSON file. Missing
// fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bench config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing bench config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench config: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.ClockGHz <= 0 {
		return fmt.Errorf("clock_ghz must be positive, got %v", c.ClockGHz)
	}
	return nil
}
