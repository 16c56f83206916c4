package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadChicken loads the Chicken round configuration.
// Search order: customPath -> ~/.chicken/configs/chicken.yaml -> ./configs/chicken.yaml -> embedded default
//
// Files are decoded on top of the hardcoded defaults, so a partial file only
// overrides the keys it names.
func LoadChicken(customPath string) (ChickenConfig, error) {
	cfg := DefaultChickenConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("chicken.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if loaded, ok := decodeOver(data); ok {
				return loaded, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "chicken.yaml")); err == nil {
		if loaded, ok := decodeOver(data); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if loaded, ok := decodeOver(defaultChickenYAML); ok {
		return loaded, nil
	}
	return DefaultChickenConfig(), nil // Fallback to hardcoded if embed fails
}

// decodeOver decodes data over a fresh default config.
func decodeOver(data []byte) (ChickenConfig, bool) {
	cfg := DefaultChickenConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chicken", "configs", filename)
}

// ApplyChickenPreset modifies the config based on a difficulty preset.
// Harder presets also narrow the AI nerve window toward the hit radius.
func ApplyChickenPreset(cfg *ChickenConfig, preset DifficultyPreset) {
	cfg.AI.Difficulty = preset

	switch preset {
	case DifficultyEasy:
		cfg.AI.NerveMin = 3.0
		cfg.AI.NerveMax = 12.0
	case DifficultyHard:
		cfg.AI.NerveMin = 0.2
		cfg.AI.NerveMax = 3.0
	}
}
