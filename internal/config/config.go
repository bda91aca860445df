// Package config provides unified configuration loading for the toolkit.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ambia/UTAPWeLS/internal/constants"
	"gopkg.in/yaml.v3"
)

// ProjectDirName is the per-project directory holding the database, config
// and audit trail.
const ProjectDirName = ".wels"

// WelsConfig contains all toolkit configuration settings.
type WelsConfig struct {
	// Simulation contains defaults for the log simulators.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Noise contains defaults for synthetic noise injection.
	Noise NoiseConfig `json:"noise" yaml:"noise"`

	// Logging contains settings for operational and audit logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures the simulator defaults.
type SimulationConfig struct {
	// SamplingRate is the output grid step in meters.
	SamplingRate float64 `json:"sampling_rate" yaml:"sampling_rate"`

	// ResistivityTool selects the resistivity variant: "induction" or
	// "laterolog".
	ResistivityTool string `json:"resistivity_tool" yaml:"resistivity_tool"`

	// NuclearTool selects the nuclear variant: "standard" or "hires".
	NuclearTool string `json:"nuclear_tool" yaml:"nuclear_tool"`

	// SonicVariant selects the sonic transform: "wyllie" or "rhg".
	SonicVariant string `json:"sonic_variant" yaml:"sonic_variant"`
}

// NoiseConfig configures noise injection defaults.
type NoiseConfig struct {
	// Seed seeds the noise generator so runs are reproducible. Zero draws
	// a random seed per injection.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// LoggingConfig configures the toolkit's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables audit logging to .wels/audit.jsonl.
	// "trace" additionally includes raw series content.
	Level string `json:"level" yaml:"level"`
}

// Default returns a WelsConfig with sensible defaults.
func Default() *WelsConfig {
	return &WelsConfig{
		Simulation: SimulationConfig{
			SamplingRate:    constants.DefaultSamplingRate,
			ResistivityTool: constants.DefaultResistivityTool,
			NuclearTool:     constants.DefaultNuclearTool,
			SonicVariant:    constants.DefaultSonicVariant,
		},
		Noise: NoiseConfig{
			Seed: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for a project rooted at root.
// Order: defaults -> root/.wels/config.yaml -> environment variables
func Load(root string) (*WelsConfig, error) {
	config := Default()

	configPath := filepath.Join(root, ProjectDirName, "config.yaml")
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*WelsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *WelsConfig) Validate() error {
	if c.Simulation.SamplingRate <= 0 {
		return fmt.Errorf("sampling_rate must be positive, got %f", c.Simulation.SamplingRate)
	}

	validResistivity := map[string]bool{"induction": true, "laterolog": true}
	if !validResistivity[c.Simulation.ResistivityTool] {
		return fmt.Errorf("invalid resistivity_tool: %s (valid: induction, laterolog)", c.Simulation.ResistivityTool)
	}

	validNuclear := map[string]bool{"standard": true, "hires": true}
	if !validNuclear[c.Simulation.NuclearTool] {
		return fmt.Errorf("invalid nuclear_tool: %s (valid: standard, hires)", c.Simulation.NuclearTool)
	}

	validSonic := map[string]bool{"wyllie": true, "rhg": true}
	if !validSonic[c.Simulation.SonicVariant] {
		return fmt.Errorf("invalid sonic_variant: %s (valid: wyllie, rhg)", c.Simulation.SonicVariant)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *WelsConfig) {
	if v := os.Getenv("WELS_SAMPLING_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.SamplingRate = f
		}
	}

	if v := os.Getenv("WELS_RESISTIVITY_TOOL"); v != "" {
		config.Simulation.ResistivityTool = v
	}

	if v := os.Getenv("WELS_NUCLEAR_TOOL"); v != "" {
		config.Simulation.NuclearTool = v
	}

	if v := os.Getenv("WELS_SONIC_VARIANT"); v != "" {
		config.Simulation.SonicVariant = v
	}

	if v := os.Getenv("WELS_NOISE_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Noise.Seed = n
		}
	}

	if v := os.Getenv("WELS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
