// Package config provides YAML-based round configuration loading and
// AI difficulty management for the chicken arcade.
package config

import (
	"errors"
	"fmt"
)

// MaxHumans is the largest number of human players a round can seat.
const MaxHumans = 4

// ChickenConfig contains all configuration for a Chicken round.
type ChickenConfig struct {
	Arena   ArenaConfig   `yaml:"arena"`
	Timing  TimingConfig  `yaml:"timing"`
	AI      AIConfig      `yaml:"ai"`
	Players PlayersConfig `yaml:"players"`
}

// ArenaConfig defines the simulation space. The target is always the origin.
type ArenaConfig struct {
	HitRadius     float64 `yaml:"hit_radius"`     // Zone around the target where players collide
	Speed         float64 `yaml:"speed"`          // Walking speed in units per second
	StartDistance float64 `yaml:"start_distance"` // Distance of every start point from the target
	GroundY       float64 `yaml:"ground_y"`       // Constant height of all players
}

// TimingConfig defines the round timeline in seconds.
type TimingConfig struct {
	GoDelay      float64 `yaml:"go_delay"`       // Hold before players start walking
	WinShowDelay float64 `yaml:"win_show_delay"` // Time after the last stop before the winner is shown
	WinDelay     float64 `yaml:"win_delay"`      // Time after the last stop before the round finishes
}

// AIConfig defines how computer-controlled players behave.
type AIConfig struct {
	Policy     AIPolicy         `yaml:"policy"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	NerveMin   float64          `yaml:"nerve_min"` // Extra distance beyond the hit radius an AI may stop at
	NerveMax   float64          `yaml:"nerve_max"`
}

// PlayersConfig defines who sits in the four slots.
type PlayersConfig struct {
	Humans int `yaml:"humans"` // Slots [0, Humans) are human, the rest are AI
}

// AIPolicy selects the stopping strategy of AI players.
type AIPolicy string

const (
	// AIPolicyPassive never stops voluntarily; AI players walk into the center.
	AIPolicyPassive AIPolicy = "passive"
	// AIPolicyReactive stops a reaction delay after reaching a chosen nerve distance.
	AIPolicyReactive AIPolicy = "reactive"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// AIDifficulty is the integer difficulty consumed by the reaction formula.
type AIDifficulty int

const (
	AIEasy   AIDifficulty = 0
	AINormal AIDifficulty = 1
	AIHard   AIDifficulty = 2
)

// LevelForPreset returns the AI difficulty for a preset.
// Unknown presets map to normal.
func LevelForPreset(preset DifficultyPreset) AIDifficulty {
	switch preset {
	case DifficultyEasy:
		return AIEasy
	case DifficultyHard:
		return AIHard
	default:
		return AINormal
	}
}

// ParsePreset validates a preset name given on the command line.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// Level returns the AI difficulty of this configuration.
func (c AIConfig) Level() AIDifficulty {
	return LevelForPreset(c.Difficulty)
}

// Validate checks the preconditions a round relies on.
func (c ChickenConfig) Validate() error {
	var errs []error
	if c.Players.Humans < 1 || c.Players.Humans > MaxHumans {
		errs = append(errs, fmt.Errorf("players.humans must be in [1, %d], got %d", MaxHumans, c.Players.Humans))
	}
	if c.Arena.HitRadius <= 0 {
		errs = append(errs, fmt.Errorf("arena.hit_radius must be positive, got %g", c.Arena.HitRadius))
	}
	if c.Arena.Speed <= 0 {
		errs = append(errs, fmt.Errorf("arena.speed must be positive, got %g", c.Arena.Speed))
	}
	if c.Arena.StartDistance <= c.Arena.HitRadius {
		errs = append(errs, fmt.Errorf("arena.start_distance (%g) must exceed hit_radius (%g)", c.Arena.StartDistance, c.Arena.HitRadius))
	}
	if c.Timing.GoDelay < 0 || c.Timing.WinShowDelay < 0 {
		errs = append(errs, errors.New("timing delays must not be negative"))
	}
	if c.Timing.WinDelay < c.Timing.WinShowDelay {
		errs = append(errs, fmt.Errorf("timing.win_delay (%g) must not be shorter than win_show_delay (%g)", c.Timing.WinDelay, c.Timing.WinShowDelay))
	}
	switch c.AI.Policy {
	case AIPolicyPassive, AIPolicyReactive:
	default:
		errs = append(errs, fmt.Errorf("ai.policy must be passive or reactive, got %q", c.AI.Policy))
	}
	if c.AI.NerveMax < c.AI.NerveMin || c.AI.NerveMin < 0 {
		errs = append(errs, fmt.Errorf("ai nerve range [%g, %g) is invalid", c.AI.NerveMin, c.AI.NerveMax))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid chicken config: %w", errors.Join(errs...))
	}
	return nil
}
