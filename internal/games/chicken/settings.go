package chicken

import (
	"github.com/vovakirdan/chicken-arcade/internal/config"
	"github.com/vovakirdan/chicken-arcade/internal/core"
)

// Settings are the constants of one round.
type Settings struct {
	Target        core.Vec3
	HitRadius     float64
	Speed         float64
	StartDistance float64
	GroundY       float64

	GoDelay      float64
	WinShowDelay float64
	WinDelay     float64

	Humans       int // slots [0, Humans) are human
	AIPolicy     config.AIPolicy
	AIDifficulty config.AIDifficulty
	NerveMin     float64
	NerveMax     float64
}

// SettingsFromConfig converts a loaded configuration.
func SettingsFromConfig(cfg config.ChickenConfig) Settings {
	return Settings{
		HitRadius:     cfg.Arena.HitRadius,
		Speed:         cfg.Arena.Speed,
		StartDistance: cfg.Arena.StartDistance,
		GroundY:       cfg.Arena.GroundY,
		GoDelay:       cfg.Timing.GoDelay,
		WinShowDelay:  cfg.Timing.WinShowDelay,
		WinDelay:      cfg.Timing.WinDelay,
		Humans:        cfg.Players.Humans,
		AIPolicy:      cfg.AI.Policy,
		AIDifficulty:  cfg.AI.Level(),
		NerveMin:      cfg.AI.NerveMin,
		NerveMax:      cfg.AI.NerveMax,
	}
}

// DefaultSettings returns the settings of the default configuration.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultChickenConfig())
}

func (s Settings) aiConfig() config.AIConfig {
	return config.AIConfig{Policy: s.AIPolicy, NerveMin: s.NerveMin, NerveMax: s.NerveMax}
}
