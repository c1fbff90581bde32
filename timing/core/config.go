package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/mem"
)

// Config holds the machine configuration.
type Config struct {
	// ROMCapacity is the ROM device capacity in bytes. Must be a power
	// of two; addresses beyond it wrap. Default: 1 MiB.
	ROMCapacity uint32 `json:"rom_capacity"`

	// RAMCapacity is the RAM device capacity in bytes. Must be a power
	// of two. Default: 4 MiB.
	RAMCapacity uint32 `json:"ram_capacity"`

	// MaxCycles bounds a Run; 0 means no limit.
	MaxCycles uint64 `json:"max_cycles"`

	// ClockFreq is the modeled clock frequency, used only for
	// simulated-time reporting. Default: 1 GHz.
	ClockFreq sim.Freq `json:"clock_freq_hz"`
}

// DefaultConfig returns a Config with the fixed memory-map capacities
// and a 1 GHz clock.
func DefaultConfig() *Config {
	return &Config{
		ROMCapacity: mem.DefaultROMCapacity,
		RAMCapacity: mem.DefaultRAMCapacity,
		MaxCycles:   0,
		ClockFreq:   1 * sim.GHz,
	}
}

// LoadConfig loads a Config from a JSON file, starting from defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.ROMCapacity == 0 || c.ROMCapacity&(c.ROMCapacity-1) != 0 {
		return fmt.Errorf("rom_capacity must be a power of two, got %d", c.ROMCapacity)
	}
	if c.RAMCapacity == 0 || c.RAMCapacity&(c.RAMCapacity-1) != 0 {
		return fmt.Errorf("ram_capacity must be a power of two, got %d", c.RAMCapacity)
	}
	if c.ClockFreq <= 0 {
		return fmt.Errorf("clock_freq_hz must be > 0")
	}
	return nil
}
