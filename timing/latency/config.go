package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for each SM213 instruction class.
// Every class defaults to a single cycle.
type TimingConfig struct {
	// ALULatency covers mov, add, and, inc, inca, dec, deca, not and gpc.
	ALULatency uint64 `json:"alu_latency"`

	// ShiftLatency covers shl and shr.
	ShiftLatency uint64 `json:"shift_latency"`

	// LoadLatency covers all three ld forms, including ld $v.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency covers both st forms.
	StoreLatency uint64 `json:"store_latency"`

	// BranchLatency covers br, beq and bgt whether or not taken.
	BranchLatency uint64 `json:"branch_latency"`

	// JumpLatency covers the absolute and indirect j forms.
	JumpLatency uint64 `json:"jump_latency"`

	// HaltLatency covers halt and nop.
	HaltLatency uint64 `json:"halt_latency"`
}

// DefaultTimingConfig returns a TimingConfig where every class takes one
// cycle.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:    1,
		ShiftLatency:  1,
		LoadLatency:   1,
		StoreLatency:  1,
		BranchLatency: 1,
		JumpLatency:   1,
		HaltLatency:   1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default value.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.ShiftLatency == 0 {
		return fmt.Errorf("shift_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.JumpLatency == 0 {
		return fmt.Errorf("jump_latency must be > 0")
	}
	if c.HaltLatency == 0 {
		return fmt.Errorf("halt_latency must be > 0")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
