// Package config holds the machine configuration shared by the CLI and tests.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sm213/timing/latency"
)

// MaxMemorySize is the largest memory an int32 effective address can reach.
const MaxMemorySize = 1 << 31

// MachineConfig describes one simulated SM213 machine.
type MachineConfig struct {
	// MemorySize is the main memory capacity in bytes. Default: 1 MiB.
	MemorySize int `json:"memory_size"`

	// EntryPoint is the initial PC when the program does not name one.
	EntryPoint uint32 `json:"entry_point"`

	// MaxInstructions stops a run that does not halt. 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions"`

	// ClockMHz is the core clock for timing runs. Default: 1000.
	ClockMHz float64 `json:"clock_mhz"`

	// Timing holds the per-class latencies for timing runs.
	Timing *latency.TimingConfig `json:"timing"`
}

// DefaultConfig returns the stock machine.
func DefaultConfig() *MachineConfig {
	return &MachineConfig{
		MemorySize: 1 << 20,
		ClockMHz:   1000,
		Timing:     latency.DefaultTimingConfig(),
	}
}

// LoadConfig loads a MachineConfig from a JSON file. Fields missing from the
// file keep their default value.
func LoadConfig(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse machine config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a MachineConfig to a JSON file.
func (c *MachineConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize machine config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the machine cannot run with.
func (c *MachineConfig) Validate() error {
	if c.MemorySize <= 0 || int64(c.MemorySize) > MaxMemorySize {
		return fmt.Errorf("memory_size must be in (0, %d]", MaxMemorySize)
	}
	if int64(c.EntryPoint) >= int64(c.MemorySize) {
		return fmt.Errorf("entry_point 0x%x is outside memory", c.EntryPoint)
	}
	if c.ClockMHz <= 0 {
		return fmt.Errorf("clock_mhz must be > 0")
	}
	if c.Timing == nil {
		return fmt.Errorf("timing must be set")
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	return nil
}

// Frequency returns the core clock as an akita frequency.
func (c *MachineConfig) Frequency() sim.Freq {
	return sim.Freq(c.ClockMHz) * sim.MHz
}
