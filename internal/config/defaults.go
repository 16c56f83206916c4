package config

import (
	_ "embed"
)

//go:embed defaults/chicken.yaml
var defaultChickenYAML []byte

// DefaultChickenConfig returns the default Chicken configuration.
func DefaultChickenConfig() ChickenConfig {
	return ChickenConfig{
		Arena: ArenaConfig{
			HitRadius:     8.0,
			Speed:         10.0,
			StartDistance: 100.0,
			GroundY:       0.15,
		},
		Timing: TimingConfig{
			GoDelay:      1.0,
			WinShowDelay: 2.0,
			WinDelay:     5.0,
		},
		AI: AIConfig{
			Policy:     AIPolicyReactive,
			Difficulty: DifficultyNormal,
			NerveMin:   0.5,
			NerveMax:   6.0,
		},
		Players: PlayersConfig{
			Humans: 1,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "chicken":
		return defaultChickenYAML
	default:
		return nil
	}
}
