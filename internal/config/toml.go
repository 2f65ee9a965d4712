// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Lab LabConfig `toml:"lab"`
}

// LabConfig maps lab-related settings.
type LabConfig struct {
	Scenario      *string  `toml:"scenario"`
	Preset        *string  `toml:"preset"`
	HangingMassKg *float64 `toml:"hanging-mass"`
	Noise         *bool    `toml:"noise"`
	Seed          *int64   `toml:"seed"`
	DurationS     *float64 `toml:"duration"`
	SampleRateHz  *float64 `toml:"sample-rate"`
	NudgeStepS    *float64 `toml:"nudge-step"`
	FineStepS     *float64 `toml:"fine-step"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
